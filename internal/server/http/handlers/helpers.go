package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courierly/courierd/internal/domain/model"
	"github.com/courierly/courierd/internal/server/http/dto"
	"github.com/courierly/courierd/internal/server/http/middleware"
)

// CurrentActor extracts the authenticated actor from context.
func CurrentActor(c *gin.Context) model.Actor {
	val, ok := c.Get(middleware.ActorContextKey)
	if !ok {
		return model.Actor{}
	}
	actor, _ := val.(model.Actor)
	return actor
}

func toOrderResponse(order model.Order, payment *model.Payment) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:            order.ID,
		CustomerID:    order.CustomerID,
		DeliveryManID: order.DeliveryManID,
		Description:   order.Description,
		Address:       order.Address,
		Cost:          order.Cost,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if payment != nil {
		status := string(payment.Status)
		resp.HasPayment = true
		resp.PaymentStatus = &status
	}
	return resp
}

func toCheckoutResponse(result *model.CheckoutResult) dto.CheckoutResponse {
	return dto.CheckoutResponse{
		CheckoutURL: result.CheckoutURL,
		SessionID:   result.SessionID,
		OrderID:     result.OrderID,
		PaymentID:   result.PaymentID,
		Amount:      result.Amount,
	}
}
