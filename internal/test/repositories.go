package test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/courierly/courierd/internal/domain/errors"
	"github.com/courierly/courierd/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now()}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdatePassword overwrites the stored password hash.
func (s *UserRepositoryStub) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

// OrderRepositoryStub keeps orders in-memory and lets tests override behaviour.
type OrderRepositoryStub struct {
	CreateFn  func(context.Context, int64, string, string, decimal.Decimal) (*model.Order, error)
	GetByIDFn func(context.Context, int64) (*model.Order, error)
	UpdateFn  func(context.Context, *model.Order) error
	DeleteFn  func(context.Context, int64) error

	Orders  map[int64]*model.Order
	Next    int64
	Deleted []int64
}

// NewOrderRepositoryStub constructs stub with initialized storage.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[int64]*model.Order), Next: 1}
}

// Seed inserts an order directly.
func (s *OrderRepositoryStub) Seed(order *model.Order) *model.Order {
	if order.ID == 0 {
		order.ID = s.Next
		s.Next++
	} else if order.ID >= s.Next {
		s.Next = order.ID + 1
	}
	s.Orders[order.ID] = order
	return order
}

// Create stores a new pending order.
func (s *OrderRepositoryStub) Create(ctx context.Context, customerID int64, description, address string, cost decimal.Decimal) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, customerID, description, address, cost)
	}
	order := &model.Order{
		ID:          s.Next,
		CustomerID:  customerID,
		Description: description,
		Address:     address,
		Cost:        cost,
		Status:      model.OrderStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	s.Next++
	s.Orders[order.ID] = order
	return order, nil
}

// GetByID returns stored order or not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	if order, ok := s.Orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListAll returns every stored order.
func (s *OrderRepositoryStub) ListAll(ctx context.Context) ([]model.Order, error) {
	var result []model.Order
	for _, o := range s.Orders {
		result = append(result, *o)
	}
	return result, nil
}

// ListByCustomer filters stored orders by customer.
func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	var result []model.Order
	for _, o := range s.Orders {
		if o.CustomerID == customerID {
			result = append(result, *o)
		}
	}
	return result, nil
}

// ListByDeliveryMan filters stored orders by assignee.
func (s *OrderRepositoryStub) ListByDeliveryMan(ctx context.Context, deliveryManID int64) ([]model.Order, error) {
	var result []model.Order
	for _, o := range s.Orders {
		if o.AssignedTo(deliveryManID) {
			result = append(result, *o)
		}
	}
	return result, nil
}

// Update replaces the stored order.
func (s *OrderRepositoryStub) Update(ctx context.Context, order *model.Order) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, order)
	}
	if _, ok := s.Orders[order.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	copied := *order
	s.Orders[order.ID] = &copied
	return nil
}

// Delete removes the order and records the call.
func (s *OrderRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	if _, ok := s.Orders[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Orders, id)
	s.Deleted = append(s.Deleted, id)
	return nil
}

// PaymentRepositoryStub keeps payments in-memory enforcing one per order.
type PaymentRepositoryStub struct {
	CreateFn func(context.Context, int64, decimal.Decimal, string) (*model.Payment, error)

	Payments map[int64]*model.Payment
	Next     int64
}

// NewPaymentRepositoryStub constructs stub with initialized storage.
func NewPaymentRepositoryStub() *PaymentRepositoryStub {
	return &PaymentRepositoryStub{Payments: make(map[int64]*model.Payment), Next: 1}
}

// Seed inserts a payment directly.
func (s *PaymentRepositoryStub) Seed(payment *model.Payment) *model.Payment {
	if payment.ID == 0 {
		payment.ID = s.Next
		s.Next++
	} else if payment.ID >= s.Next {
		s.Next = payment.ID + 1
	}
	s.Payments[payment.ID] = payment
	return payment
}

// Create stores a pending payment, rejecting a second payment per order.
func (s *PaymentRepositoryStub) Create(ctx context.Context, orderID int64, amount decimal.Decimal, externalRef string) (*model.Payment, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, orderID, amount, externalRef)
	}
	for _, p := range s.Payments {
		if p.OrderID == orderID {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	payment := &model.Payment{
		ID:          s.Next,
		OrderID:     orderID,
		Amount:      amount,
		ExternalRef: externalRef,
		Status:      model.PaymentStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	s.Next++
	s.Payments[payment.ID] = payment
	return payment, nil
}

// GetByID returns the stored payment or not found.
func (s *PaymentRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	if payment, ok := s.Payments[id]; ok {
		copied := *payment
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByOrderID returns the order's payment or not found.
func (s *PaymentRepositoryStub) GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error) {
	for _, p := range s.Payments {
		if p.OrderID == orderID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByExternalRef looks payments up by provider reference.
func (s *PaymentRepositoryStub) GetByExternalRef(ctx context.Context, ref string) (*model.Payment, error) {
	for _, p := range s.Payments {
		if p.ExternalRef == ref {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateSession overwrites reference and status.
func (s *PaymentRepositoryStub) UpdateSession(ctx context.Context, id int64, externalRef string, status model.PaymentStatus) error {
	payment, ok := s.Payments[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	payment.ExternalRef = externalRef
	payment.Status = status
	payment.UpdatedAt = time.Now()
	return nil
}

// UpdateStatus overwrites status only.
func (s *PaymentRepositoryStub) UpdateStatus(ctx context.Context, id int64, status model.PaymentStatus) error {
	payment, ok := s.Payments[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	payment.Status = status
	payment.UpdatedAt = time.Now()
	return nil
}

// ListStalePending returns pending payments older than the threshold.
func (s *PaymentRepositoryStub) ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error) {
	cutoff := time.Now().Add(-olderThan)
	var result []model.Payment
	for _, p := range s.Payments {
		if p.Status == model.PaymentStatusPending && p.UpdatedAt.Before(cutoff) {
			result = append(result, *p)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}
