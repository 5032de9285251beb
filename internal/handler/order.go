package handler

import (
	"net/http"

	"surplus-marketplace/internal/dto"
	"surplus-marketplace/internal/middleware"
	"surplus-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	lines := make([]*service.OrderLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = &service.OrderLine{
			ListingID: item.ListingID,
			Quantity:  item.Quantity,
		}
	}

	result, err := h.orderService.Create(ctx, ident.ID, req.VendorID, lines)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, &dto.CreateOrderResponse{
		Order:           result.Order,
		RazorpayOrderID: result.GatewayOrderID,
		Amount:          result.AmountMinorUnits,
		Key:             result.GatewayKeyID,
	})
}

func (h *OrderHandler) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.orderService.ConfirmPayment(ctx,
		req.OrderID, req.RazorpayPaymentID, req.RazorpayOrderID, req.RazorpaySignature)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.MessageResponse{
		Message: "Payment verified",
		Order:   order,
	})
}

func (h *OrderHandler) SimulatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.SimulateConfirmPayment(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.MessageResponse{
		Message: "Fake Payment Successfull",
		Order:   order,
	})
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	orders, err := h.orderService.ListForUser(ctx, ident.ID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}
