package adminapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/report"
	"github.com/zincstore/zincstore/internal/webserver"
)

type expensePayload struct {
	Description string          `json:"description" validate:"required,max=500"`
	Amount      decimal.Decimal `json:"amount"`
}

func registerExpenseRoutes() {
	webserver.ApiPOST("/expenses", createExpense)
	webserver.ApiGET("/expenses", listExpenses)
	webserver.ApiGET("/expenses/export", exportExpenses)
}

func createExpense(c echo.Context) error {
	var payload expensePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse expense", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	id, err := GetSession(c).RecordExpense(c.Request().Context(), payload.Description, payload.Amount)
	if err != nil {
		return handleLedgerError(c, err)
	}
	return created(c, map[string]interface{}{"id": id})
}

func listExpenses(c echo.Context) error {
	session := GetSession(c)
	ctx := c.Request().Context()

	var (
		rows []*domain.Expense
		err  error
	)
	if q := c.QueryParam("q"); q != "" {
		rows, err = session.SearchExpenses(ctx, q)
	} else {
		day, perr := parseDateParam(c, "date")
		if perr != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date", perr.Error())
		}
		rows, err = session.ExpensesOn(ctx, day)
	}
	if err != nil {
		return handleLedgerError(c, err)
	}
	return ok(c, rows)
}

func exportExpenses(c echo.Context) error {
	rows, err := GetSession(c).AllExpenses(c.Request().Context())
	if err != nil {
		return handleLedgerError(c, err)
	}
	var buf bytes.Buffer
	if err := report.WriteExpensesCSV(&buf, rows); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export expenses", err.Error())
	}
	return attachment(c, "expenses-"+time.Now().Format("20060102")+".csv", "text/csv", buf.Bytes())
}
