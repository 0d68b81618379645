package payment

import (
	"github.com/celenganapp/celengan/internal/payment/repository"
	"github.com/celenganapp/celengan/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
