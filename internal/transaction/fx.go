package transaction

import (
	"github.com/celenganapp/celengan/internal/transaction/repository"
	"github.com/celenganapp/celengan/internal/transaction/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transaction.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
