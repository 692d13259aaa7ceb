package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/courierly/courierd/internal/adapter/stripe"
	domainErrors "github.com/courierly/courierd/internal/domain/errors"
	"github.com/courierly/courierd/internal/domain/model"
	testhelpers "github.com/courierly/courierd/internal/test"
)

type orderFixture struct {
	uc       *OrderUseCase
	users    *testhelpers.UserRepositoryStub
	orders   *testhelpers.OrderRepositoryStub
	payments *testhelpers.PaymentRepositoryStub
	client   *testhelpers.StripeClientStub
}

func newOrderFixture() orderFixture {
	users := testhelpers.NewUserRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub()
	payments := testhelpers.NewPaymentRepositoryStub()
	client := &testhelpers.StripeClientStub{}
	checkout := NewPaymentUseCase(orders, payments, client, "http://frontend.test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return orderFixture{
		uc:       NewOrderUseCase(orders, users, payments, checkout, logger),
		users:    users,
		orders:   orders,
		payments: payments,
		client:   client,
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture()
	actor := model.Actor{ID: 3, Role: model.RoleUser}

	order, result, err := f.uc.Create(context.Background(), actor, CreateOrderInput{
		Description: "two boxes",
		Address:     "5 Main St",
		Cost:        decimal.RequireFromString("12.50"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatal("no checkout expected without CreatePayment")
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.CustomerID != actor.ID {
		t.Fatalf("expected order owned by actor, got customer %d", order.CustomerID)
	}
}

func TestCreateOrderRoleGate(t *testing.T) {
	f := newOrderFixture()
	input := CreateOrderInput{Description: "boxes", Cost: decimal.RequireFromString("10.00")}

	for _, role := range []model.Role{model.RoleAdmin, model.RoleDeliveryMan} {
		if _, _, err := f.uc.Create(context.Background(), model.Actor{ID: 1, Role: role}, input); err != domainErrors.ErrPermissionDenied {
			t.Fatalf("role %s: expected permission denied, got %v", role, err)
		}
	}
}

func TestCreateOrderNegativeCost(t *testing.T) {
	f := newOrderFixture()
	_, _, err := f.uc.Create(context.Background(), model.Actor{ID: 3, Role: model.RoleUser}, CreateOrderInput{
		Cost: decimal.RequireFromString("-1.00"),
	})
	if err != domainErrors.ErrInvalidAmount {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if len(f.orders.Orders) != 0 {
		t.Fatal("order must not be created")
	}
}

func TestCreateOrderWithInlinePayment(t *testing.T) {
	f := newOrderFixture()

	order, result, err := f.uc.Create(context.Background(), model.Actor{ID: 3, Role: model.RoleUser}, CreateOrderInput{
		Description:   "boxes",
		Cost:          decimal.RequireFromString("19.99"),
		CreatePayment: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.CheckoutURL == "" {
		t.Fatalf("expected inline checkout result, got %+v", result)
	}
	if result.OrderID != order.ID {
		t.Fatalf("checkout should reference the new order, got %d", result.OrderID)
	}
	if _, err := f.payments.GetByOrderID(context.Background(), order.ID); err != nil {
		t.Fatalf("expected payment attached to order: %v", err)
	}
}

func TestCreateOrderRollsBackOnCheckoutFailure(t *testing.T) {
	f := newOrderFixture()
	f.client.CreateFn = func(context.Context, stripe.CheckoutParams) (*model.CheckoutSession, error) {
		return nil, &domainErrors.ProviderError{Message: "session rejected"}
	}

	_, _, err := f.uc.Create(context.Background(), model.Actor{ID: 3, Role: model.RoleUser}, CreateOrderInput{
		Cost:          decimal.RequireFromString("19.99"),
		CreatePayment: true,
	})
	if !domainErrors.IsProviderError(err) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(f.orders.Orders) != 0 {
		t.Fatal("order must be rolled back after checkout failure")
	}
	if len(f.orders.Deleted) != 1 {
		t.Fatalf("expected one compensating delete, got %d", len(f.orders.Deleted))
	}
}

func TestGetOrderVisibility(t *testing.T) {
	f := newOrderFixture()
	order := f.orders.Seed(&model.Order{CustomerID: 3, DeliveryManID: ptr(int64(7)), Cost: decimal.RequireFromString("10.00")})
	f.payments.Seed(&model.Payment{OrderID: order.ID, Amount: order.Cost, ExternalRef: "cs_1", Status: model.PaymentStatusPending})

	cases := []struct {
		name  string
		actor model.Actor
		ok    bool
	}{
		{"owner", model.Actor{ID: 3, Role: model.RoleUser}, true},
		{"other customer", model.Actor{ID: 4, Role: model.RoleUser}, false},
		{"assignee", model.Actor{ID: 7, Role: model.RoleDeliveryMan}, true},
		{"other courier", model.Actor{ID: 8, Role: model.RoleDeliveryMan}, false},
		{"admin", model.Actor{ID: 1, Role: model.RoleAdmin}, true},
	}
	for _, tc := range cases {
		got, payment, err := f.uc.Get(context.Background(), tc.actor, order.ID)
		if tc.ok {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			if got.ID != order.ID || payment == nil {
				t.Fatalf("%s: expected order with payment", tc.name)
			}
		} else if err != domainErrors.ErrPermissionDenied {
			t.Fatalf("%s: expected permission denied, got %v", tc.name, err)
		}
	}
}

func TestGetOrderWithoutPayment(t *testing.T) {
	f := newOrderFixture()
	order := f.orders.Seed(&model.Order{CustomerID: 3, Cost: decimal.RequireFromString("10.00")})

	_, payment, err := f.uc.Get(context.Background(), model.Actor{ID: 3, Role: model.RoleUser}, order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment != nil {
		t.Fatal("expected nil payment for unpaid order")
	}
}

func TestListScoping(t *testing.T) {
	f := newOrderFixture()
	f.orders.Seed(&model.Order{CustomerID: 3})
	f.orders.Seed(&model.Order{CustomerID: 3, DeliveryManID: ptr(int64(7))})
	f.orders.Seed(&model.Order{CustomerID: 4, DeliveryManID: ptr(int64(7))})
	f.orders.Seed(&model.Order{CustomerID: 4})

	cases := []struct {
		name  string
		actor model.Actor
		want  int
	}{
		{"admin sees all", model.Actor{ID: 1, Role: model.RoleAdmin}, 4},
		{"customer sees own", model.Actor{ID: 3, Role: model.RoleUser}, 2},
		{"courier sees assigned", model.Actor{ID: 7, Role: model.RoleDeliveryMan}, 2},
		{"idle courier sees none", model.Actor{ID: 8, Role: model.RoleDeliveryMan}, 0},
	}
	for _, tc := range cases {
		orders, err := f.uc.List(context.Background(), tc.actor)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if len(orders) != tc.want {
			t.Fatalf("%s: expected %d orders, got %d", tc.name, tc.want, len(orders))
		}
	}
}

func TestUpdateOrderByAdmin(t *testing.T) {
	f := newOrderFixture()
	courier, _ := f.users.Create(context.Background(), "courier", "hash", model.RoleDeliveryMan)
	order := f.orders.Seed(&model.Order{CustomerID: 3, Cost: decimal.RequireFromString("10.00"), Status: model.OrderStatusPending})

	updated, err := f.uc.Update(context.Background(), model.Actor{ID: 1, Role: model.RoleAdmin}, order.ID, UpdateOrderInput{
		Address:       ptr("9 New Ave"),
		Status:        ptr(model.OrderStatusDelivered),
		DeliveryManID: &courier.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Address != "9 New Ave" || updated.Status != model.OrderStatusDelivered {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.DeliveryManID == nil || *updated.DeliveryManID != courier.ID {
		t.Fatalf("expected assignment to courier %d", courier.ID)
	}
}

func TestUpdateOrderAssignmentRequiresCourierRole(t *testing.T) {
	f := newOrderFixture()
	customer, _ := f.users.Create(context.Background(), "customer", "hash", model.RoleUser)
	order := f.orders.Seed(&model.Order{CustomerID: 3, Cost: decimal.RequireFromString("10.00")})

	_, err := f.uc.Update(context.Background(), model.Actor{ID: 1, Role: model.RoleAdmin}, order.ID, UpdateOrderInput{
		DeliveryManID: &customer.ID,
	})
	if err != domainErrors.ErrInvalidRole {
		t.Fatalf("expected invalid role for non-courier assignee, got %v", err)
	}
}

func TestUpdateOrderByCourier(t *testing.T) {
	f := newOrderFixture()
	order := f.orders.Seed(&model.Order{CustomerID: 3, DeliveryManID: ptr(int64(7)), Status: model.OrderStatusPending})
	actor := model.Actor{ID: 7, Role: model.RoleDeliveryMan}

	updated, err := f.uc.Update(context.Background(), actor, order.ID, UpdateOrderInput{
		Status: ptr(model.OrderStatusDelivered),
	})
	if err != nil {
		t.Fatalf("status-only update by assignee should pass: %v", err)
	}
	if updated.Status != model.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", updated.Status)
	}

	_, err = f.uc.Update(context.Background(), actor, order.ID, UpdateOrderInput{
		Status:  ptr(model.OrderStatusComplete),
		Address: ptr("somewhere else"),
	})
	if err != domainErrors.ErrPermissionDenied {
		t.Fatalf("courier must not touch non-status fields, got %v", err)
	}

	_, err = f.uc.Update(context.Background(), model.Actor{ID: 8, Role: model.RoleDeliveryMan}, order.ID, UpdateOrderInput{
		Status: ptr(model.OrderStatusComplete),
	})
	if err != domainErrors.ErrPermissionDenied {
		t.Fatalf("unassigned courier must be rejected, got %v", err)
	}
}

func TestUpdateOrderByCustomer(t *testing.T) {
	f := newOrderFixture()
	order := f.orders.Seed(&model.Order{CustomerID: 3, Status: model.OrderStatusPending})

	if _, err := f.uc.Update(context.Background(), model.Actor{ID: 3, Role: model.RoleUser}, order.ID, UpdateOrderInput{
		Address: ptr("9 New Ave"),
	}); err != domainErrors.ErrPermissionDenied {
		t.Fatalf("customers must not update orders, got %v", err)
	}
}

func TestUpdateOrderInvalidStatus(t *testing.T) {
	f := newOrderFixture()
	order := f.orders.Seed(&model.Order{CustomerID: 3, Status: model.OrderStatusPending})
	bad := model.OrderStatus("SHIPPED")

	if _, err := f.uc.Update(context.Background(), model.Actor{ID: 1, Role: model.RoleAdmin}, order.ID, UpdateOrderInput{
		Status: &bad,
	}); err != domainErrors.ErrInvalidStatus {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestDeleteOrder(t *testing.T) {
	f := newOrderFixture()
	order := f.orders.Seed(&model.Order{CustomerID: 3})

	if err := f.uc.Delete(context.Background(), model.Actor{ID: 3, Role: model.RoleUser}, order.ID); err != domainErrors.ErrPermissionDenied {
		t.Fatalf("only admins delete orders, got %v", err)
	}
	if err := f.uc.Delete(context.Background(), model.Actor{ID: 1, Role: model.RoleAdmin}, order.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.uc.Delete(context.Background(), model.Actor{ID: 1, Role: model.RoleAdmin}, order.ID); err != domainErrors.ErrNotFound {
		t.Fatalf("expected not found for deleted order, got %v", err)
	}
}
