package subscription

import (
	"github.com/celenganapp/celengan/internal/subscription/repository"
	"github.com/celenganapp/celengan/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
