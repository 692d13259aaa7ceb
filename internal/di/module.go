package di

import (
	"go.uber.org/fx"

	"github.com/courierly/courierd/internal/adapter/stripe"
	"github.com/courierly/courierd/internal/app"
	"github.com/courierly/courierd/internal/config"
	"github.com/courierly/courierd/internal/logger"
	"github.com/courierly/courierd/internal/pkg/auth"
	"github.com/courierly/courierd/internal/server/http/router"
	"github.com/courierly/courierd/internal/storage/postgres"
	"github.com/courierly/courierd/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		stripe.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
