package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/internal/cart"
	"github.com/zincstore/zincstore/internal/webserver"
)

type cartLinePayload struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity"`
}

type cartView struct {
	Lines []cart.Line     `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/lines", addCartLine)
	webserver.ApiDELETE("/cart/lines/:index", removeCartLine)
	webserver.ApiDELETE("/cart", clearCart)
	webserver.ApiPOST("/cart/checkout", checkoutCart)
}

func currentCart(c echo.Context) error {
	lines, total := GetSession(c).Cart()
	return ok(c, cartView{Lines: lines, Total: total})
}

func getCart(c echo.Context) error {
	return currentCart(c)
}

func addCartLine(c echo.Context) error {
	var payload cartLinePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart line", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if _, err := GetSession(c).AddToCart(c.Request().Context(), payload.ProductID, payload.Quantity); err != nil {
		return handleLedgerError(c, err)
	}
	return currentCart(c)
}

func removeCartLine(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_INDEX", "Invalid cart line index", nil)
	}
	if _, err := GetSession(c).RemoveFromCart(index); err != nil {
		return handleLedgerError(c, err)
	}
	return currentCart(c)
}

func clearCart(c echo.Context) error {
	GetSession(c).ClearCart()
	return currentCart(c)
}

// checkoutCart commits the cart as sales
func checkoutCart(c echo.Context) error {
	res, err := GetSession(c).Checkout(c.Request().Context())
	if err != nil {
		return handleLedgerError(c, err)
	}
	return created(c, res)
}
