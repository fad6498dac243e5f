package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/internal/webserver"
)

type productPayload struct {
	Name      string          `json:"name" validate:"required,max=200"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	PhotoPath string          `json:"photo_path" validate:"omitempty,max=1024"`
}

// registerProductRoutes registers catalog endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", upsertProduct)
}

// listProducts pages through the catalog, or searches it when q is set
func listProducts(c echo.Context) error {
	session := GetSession(c)
	ctx := c.Request().Context()

	if q, found := c.QueryParams()["q"]; found {
		rows, err := session.SearchProducts(ctx, strings.TrimSpace(q[0]))
		if err != nil {
			return handleLedgerError(c, err)
		}
		return ok(c, rows)
	}

	page, pageSize := parsePagination(c)
	rows, total, err := session.ListProducts(ctx, page, pageSize)
	if err != nil {
		return handleLedgerError(c, err)
	}
	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := GetSession(c).FindProduct(c.Request().Context(), id)
	if err != nil {
		return handleLedgerError(c, err)
	}
	return ok(c, p)
}

// upsertProduct adds a product or restocks the one with the same name
func upsertProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p, err := GetSession(c).UpsertProduct(c.Request().Context(),
		payload.Name, payload.Price, payload.Quantity, strings.TrimSpace(payload.PhotoPath))
	if err != nil {
		return handleLedgerError(c, err)
	}
	return ok(c, p)
}
