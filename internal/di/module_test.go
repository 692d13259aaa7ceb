package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/courierly/courierd/internal/adapter/stripe"
	"github.com/courierly/courierd/internal/app"
	"github.com/courierly/courierd/internal/config"
	"github.com/courierly/courierd/internal/domain/repository"
	"github.com/courierly/courierd/internal/storage/postgres"
	"github.com/courierly/courierd/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:          ":0",
		DatabaseURI:         "postgres://stub",
		JWTSecret:           "secret",
		StripeSecretKey:     "sk_test",
		StripeWebhookSecret: "whsec_test",
		StripeAPIBase:       "http://localhost",
		FrontendURL:         "http://localhost",
		ReconcileInterval:   time.Millisecond,
		ReconcileBatch:      1,
		WorkerPoolSize:      1,
		PendingPaymentAge:   time.Minute,
		ShutdownTimeout:     time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	userRepo := test.NewUserRepositoryStub()
	orderRepo := test.NewOrderRepositoryStub()
	paymentRepo := test.NewPaymentRepositoryStub()
	client := &test.StripeClientStub{}

	var facade *app.CourierFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.UserRepository(userRepo)),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.PaymentRepository(paymentRepo)),
			fx.Replace(stripe.Client(client)),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected courier facade instance")
	}
}
