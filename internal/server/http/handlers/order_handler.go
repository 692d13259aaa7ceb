package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/courierly/courierd/internal/domain/errors"
	"github.com/courierly/courierd/internal/domain/model"
	"github.com/courierly/courierd/internal/server/http/dto"
	"github.com/courierly/courierd/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/v1/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	actor := CurrentActor(c)
	order, checkout, err := h.facade.CreateOrder(c.Request.Context(), actor, usecase.CreateOrderInput{
		Description:   req.Description,
		Address:       req.Address,
		Cost:          req.Cost,
		CreatePayment: req.CreatePayment,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
	})
	if err != nil {
		h.writeOrderError(c, err)
		return
	}

	resp := dto.CreateOrderResponse{Order: toOrderResponse(*order, nil)}
	if checkout != nil {
		payload := toCheckoutResponse(checkout)
		resp.Checkout = &payload
		status := string(model.PaymentStatusPending)
		resp.Order.HasPayment = true
		resp.Order.PaymentStatus = &status
	}

	c.JSON(http.StatusCreated, resp)
}

// List handles GET /api/v1/orders.
func (h *OrderHandler) List(c *gin.Context) {
	actor := CurrentActor(c)
	orders, err := h.facade.Orders(c.Request.Context(), actor)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o, nil))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/v1/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	actor := CurrentActor(c)
	order, payment, err := h.facade.Order(c.Request.Context(), actor, id)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order, payment))
}

// Update handles PUT and PATCH /api/v1/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	input := usecase.UpdateOrderInput{
		Description:   req.Description,
		Address:       req.Address,
		Cost:          req.Cost,
		DeliveryManID: req.DeliveryManID,
	}
	if req.Status != nil {
		status := model.OrderStatus(*req.Status)
		input.Status = &status
	}

	actor := CurrentActor(c)
	order, err := h.facade.UpdateOrder(c.Request.Context(), actor, id, input)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order, nil))
}

// Delete handles DELETE /api/v1/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	actor := CurrentActor(c)
	if err := h.facade.DeleteOrder(c.Request.Context(), actor, id); err != nil {
		h.writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *OrderHandler) writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrPermissionDenied):
		c.Status(http.StatusForbidden)
	case errors.Is(err, domainErrors.ErrInvalidStatus),
		errors.Is(err, domainErrors.ErrInvalidRole),
		errors.Is(err, domainErrors.ErrInvalidAmount):
		c.Status(http.StatusUnprocessableEntity)
	case errors.Is(err, domainErrors.ErrPaymentExists):
		c.Status(http.StatusConflict)
	case domainErrors.IsProviderError(err):
		// Provider rejections behave like validation failures and carry the
		// provider's message so the client can show it.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusInternalServerError)
	}
}
