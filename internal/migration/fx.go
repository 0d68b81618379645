package migration

import (
	"github.com/celenganapp/celengan/internal/config"
	currencydomain "github.com/celenganapp/celengan/internal/currency/domain"
	paymentdomain "github.com/celenganapp/celengan/internal/payment/domain"
	subscriptiondomain "github.com/celenganapp/celengan/internal/subscription/domain"
	transactiondomain "github.com/celenganapp/celengan/internal/transaction/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The versioned SQL migrations target postgres. Other dialects are
		// for local development only and get the schema from the models.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&subscriptiondomain.Subscription{},
				&transactiondomain.Transaction{},
				&paymentdomain.SubscriptionPayment{},
				&currencydomain.ExchangeRate{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
