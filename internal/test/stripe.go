package test

import (
	"context"
	"fmt"

	"github.com/courierly/courierd/internal/adapter/stripe"
	"github.com/courierly/courierd/internal/domain/model"
)

// StripeClientStub records provider calls and serves configured responses.
type StripeClientStub struct {
	CreateFn func(context.Context, stripe.CheckoutParams) (*model.CheckoutSession, error)
	GetFn    func(context.Context, string) (*stripe.SessionState, error)

	Created []stripe.CheckoutParams
	Next    int
}

// CreateCheckoutSession tracks the request and returns a deterministic session.
func (s *StripeClientStub) CreateCheckoutSession(ctx context.Context, params stripe.CheckoutParams) (*model.CheckoutSession, error) {
	s.Created = append(s.Created, params)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, params)
	}
	s.Next++
	id := fmt.Sprintf("cs_test_%d", s.Next)
	return &model.CheckoutSession{ID: id, URL: "https://checkout.stripe.test/pay/" + id}, nil
}

// GetCheckoutSession returns configured session state.
func (s *StripeClientStub) GetCheckoutSession(ctx context.Context, id string) (*stripe.SessionState, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &stripe.SessionState{ID: id, Status: stripe.SessionStatusOpen}, nil
}

var _ stripe.Client = (*StripeClientStub)(nil)
