package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/courierly/courierd/internal/domain/errors"
	"github.com/courierly/courierd/internal/server/http/dto"
	"github.com/courierly/courierd/internal/usecase"
)

// PaymentHandler manages checkout and retry endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Checkout handles POST /api/v1/payments/checkout.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	actor := CurrentActor(c)
	result, err := h.facade.CreateCheckout(c.Request.Context(), actor, usecase.CheckoutInput{
		OrderID:    req.OrderID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		h.writePaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCheckoutResponse(result))
}

// Retry handles POST /api/v1/payments/retry/:payment_id.
func (h *PaymentHandler) Retry(c *gin.Context) {
	paymentID, err := strconv.ParseInt(c.Param("payment_id"), 10, 64)
	if err != nil || paymentID <= 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	actor := CurrentActor(c)
	result, err := h.facade.RetryPayment(c.Request.Context(), actor, paymentID)
	if err != nil {
		h.writePaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCheckoutResponse(result))
}

func (h *PaymentHandler) writePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrPermissionDenied):
		c.Status(http.StatusForbidden)
	case errors.Is(err, domainErrors.ErrPaymentExists),
		errors.Is(err, domainErrors.ErrPaymentSettled):
		c.Status(http.StatusConflict)
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		c.Status(http.StatusUnprocessableEntity)
	case domainErrors.IsProviderError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusInternalServerError)
	}
}
