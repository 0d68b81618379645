package currency

import (
	"github.com/celenganapp/celengan/internal/currency/repository"
	"github.com/celenganapp/celengan/internal/currency/service"
	"go.uber.org/fx"
)

var Module = fx.Module("currency.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
