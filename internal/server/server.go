package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celenganapp/celengan/internal/config"
	"github.com/celenganapp/celengan/internal/currency"
	currencydomain "github.com/celenganapp/celengan/internal/currency/domain"
	"github.com/celenganapp/celengan/internal/dashboard"
	dashboarddomain "github.com/celenganapp/celengan/internal/dashboard/domain"
	"github.com/celenganapp/celengan/internal/observability/metrics"
	"github.com/celenganapp/celengan/internal/payment"
	paymentdomain "github.com/celenganapp/celengan/internal/payment/domain"
	"github.com/celenganapp/celengan/internal/subscription"
	subscriptiondomain "github.com/celenganapp/celengan/internal/subscription/domain"
	"github.com/celenganapp/celengan/internal/transaction"
	transactiondomain "github.com/celenganapp/celengan/internal/transaction/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	metrics.Module,
	currency.Module,
	subscription.Module,
	transaction.Module,
	payment.Module,
	dashboard.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *metrics.Metrics, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(log))
	r.Use(metrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func registerGin(log *zap.Logger, m *metrics.Metrics, registry *prometheus.Registry) *gin.Engine {
	return NewEngine(log, m, registry)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	genID  *snowflake.Node

	subscriptionSvc subscriptiondomain.Service
	transactionSvc  transactiondomain.Service
	paymentSvc      paymentdomain.Service
	dashboardSvc    dashboarddomain.Service
	currencySvc     currencydomain.Service
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	GenID *snowflake.Node

	SubscriptionSvc subscriptiondomain.Service
	TransactionSvc  transactiondomain.Service
	PaymentSvc      paymentdomain.Service
	DashboardSvc    dashboarddomain.Service
	CurrencySvc     currencydomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		subscriptionSvc: p.SubscriptionSvc,
		transactionSvc:  p.TransactionSvc,
		paymentSvc:      p.PaymentSvc,
		dashboardSvc:    p.DashboardSvc,
		currencySvc:     p.CurrencySvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", s.AuthRequired())

	// -------- Subscriptions --------
	api.GET("/subscriptions", s.ListSubscriptions)
	api.POST("/subscriptions", s.CreateSubscription)
	api.GET("/subscriptions/summary", s.SubscriptionSummary)
	api.GET("/subscriptions/unpaid", s.ListUnpaidPayments)
	api.GET("/subscriptions/:id", s.GetSubscriptionByID)
	api.PUT("/subscriptions/:id", s.UpdateSubscription)
	api.DELETE("/subscriptions/:id", s.DeleteSubscription)

	// -------- Payments --------
	api.POST("/payments/:id/pay", s.PayOccurrence)

	// -------- Transactions --------
	api.GET("/transactions", s.ListTransactions)
	api.POST("/transactions", s.CreateTransaction)
	api.PUT("/transactions/:id", s.UpdateTransaction)
	api.DELETE("/transactions/:id", s.DeleteTransaction)

	// -------- Dashboard --------
	api.GET("/dashboard/summary", s.DashboardSummary)

	// -------- Rates --------
	api.GET("/rates", s.ListRates)
}
