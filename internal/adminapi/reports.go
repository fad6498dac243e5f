package adminapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zincstore/zincstore/internal/webserver"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func registerReportRoutes() {
	webserver.ApiGET("/reports/daily", getDailyReport)
}

// getDailyReport downloads the day's figures, sales and expenses as a workbook
func getDailyReport(c echo.Context) error {
	day, err := parseDateParam(c, "date")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date", err.Error())
	}
	r, err := GetSession(c).DailyReport(c.Request().Context(), day)
	if err != nil {
		return handleLedgerError(c, err)
	}
	var buf bytes.Buffer
	if err := r.WriteXLSX(&buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to build report", err.Error())
	}
	return attachment(c, "daily-"+r.Dashboard.Date+".xlsx", xlsxContentType, buf.Bytes())
}
