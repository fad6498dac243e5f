package adminapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/report"
	"github.com/zincstore/zincstore/internal/webserver"
)

func registerSalesRoutes() {
	webserver.ApiGET("/sales", listSales)
	webserver.ApiGET("/sales/export", exportSales)
}

// listSales returns the sales of a day (date, default today) or the sales
// whose product name matches q
func listSales(c echo.Context) error {
	session := GetSession(c)
	ctx := c.Request().Context()

	var (
		rows []*domain.Sale
		err  error
	)
	if q := c.QueryParam("q"); q != "" {
		rows, err = session.SearchSales(ctx, q)
	} else {
		day, perr := parseDateParam(c, "date")
		if perr != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date", perr.Error())
		}
		rows, err = session.SalesOn(ctx, day)
	}
	if err != nil {
		return handleLedgerError(c, err)
	}
	return ok(c, rows)
}

func exportSales(c echo.Context) error {
	rows, err := GetSession(c).AllSales(c.Request().Context())
	if err != nil {
		return handleLedgerError(c, err)
	}
	var buf bytes.Buffer
	if err := report.WriteSalesCSV(&buf, rows); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export sales", err.Error())
	}
	return attachment(c, "sales-"+time.Now().Format("20060102")+".csv", "text/csv", buf.Bytes())
}

func attachment(c echo.Context, filename, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, contentType, data)
}
