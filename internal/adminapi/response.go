package adminapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/zincstore/zincstore/internal/app"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/webserver"
	"go.uber.org/zap"
)

// Response is the success envelope
type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// Meta describes one page of a listing
type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Data: data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Data: data})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, Response{
		Data: data,
		Meta: &Meta{Total: total, Page: page, PageSize: pageSize},
	})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Error: code, Message: message, Details: details})
}

// GetAppContext returns the application bound to the request
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

// GetSession returns the active store session
func GetSession(c echo.Context) *app.Session {
	return GetAppContext(c).Session()
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize == 0 {
		pageSize, _ = strconv.Atoi(c.QueryParam("perPage"))
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// parseDateParam reads a calendar day in any layout dateparse understands.
// A missing value means today.
func parseDateParam(c echo.Context, name string) (time.Time, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return time.Now(), nil
	}
	return dateparse.ParseIn(v, time.Local)
}

func handleValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", details)
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
}

// handleLedgerError maps ledger failures onto http statuses
func handleLedgerError(c echo.Context, err error) error {
	var verr *domain.ValidationError
	var short *domain.InsufficientStockError
	switch {
	case errors.As(err, &verr):
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error(), map[string]string{"field": verr.Field})
	case errors.As(err, &short):
		return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", short.Error(), map[string]interface{}{
			"line":       short.Line,
			"product_id": short.ProductID,
			"name":       short.Name,
			"requested":  short.Requested,
			"available":  short.Available,
		})
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fail(c, http.StatusUnprocessableEntity, "INVALID_QUANTITY", err.Error(), nil)
	case errors.Is(err, domain.ErrEmptyCart):
		return fail(c, http.StatusConflict, "EMPTY_CART", err.Error(), nil)
	case errors.Is(err, domain.ErrValidation):
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	}
	zap.L().Error("ledger operation failed", zap.String("namespace", "adminapi"), zap.Error(err))
	return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Ledger operation failed", err.Error())
}
