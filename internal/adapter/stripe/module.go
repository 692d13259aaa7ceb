package stripe

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/courierly/courierd/internal/config"
)

// Module exposes the provider client and webhook verifier to the fx graph.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(newVerifier),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.StripeAPIBase, p.Config.StripeSecretKey, p.Logger)
}

func newVerifier(cfg *config.Config) *WebhookVerifier {
	return NewWebhookVerifier(cfg.StripeWebhookSecret, 0)
}
