package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/subtrack/internal/clock"
	"github.com/smallbiznis/subtrack/internal/config"
	paymentdomain "github.com/smallbiznis/subtrack/internal/payment/domain"
	reportingdomain "github.com/smallbiznis/subtrack/internal/reporting/domain"
	subscriptiondomain "github.com/smallbiznis/subtrack/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(MetricsMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine          *gin.Engine
	clock           clock.Clock
	subscriptionSvc subscriptiondomain.Service
	paymentSvc      paymentdomain.Service
	reportingSvc    reportingdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Clock           clock.Clock
	SubscriptionSvc subscriptiondomain.Service
	PaymentSvc      paymentdomain.Service
	ReportingSvc    reportingdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:          p.Gin,
		clock:           p.Clock,
		subscriptionSvc: p.SubscriptionSvc,
		paymentSvc:      p.PaymentSvc,
		reportingSvc:    p.ReportingSvc,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func RegisterRoutes(s *Server) {
	v1 := s.engine.Group("/v1")

	subs := v1.Group("/subscriptions")
	subs.POST("", s.CreateSubscription)
	subs.GET("", s.ListSubscriptions)
	subs.GET("/:id", s.GetSubscriptionByID)
	subs.PUT("/:id", s.UpdateSubscription)
	subs.DELETE("/:id", s.DeleteSubscription)
	subs.POST("/:id/payments/generate", s.GenerateSubscriptionPayments)
	subs.GET("/:id/payments", s.ListSubscriptionPayments)

	payments := v1.Group("/payments")
	payments.POST("", s.RecordPayment)
	payments.GET("/recent", s.ListRecentPayments)
	payments.GET("/:id", s.GetPaymentByID)
	payments.POST("/:id/pay", s.MarkPaymentPaid)
	payments.DELETE("/:id", s.DeletePayment)

	reports := v1.Group("/reports")
	reports.GET("/subscriptions/:id/paid", s.TotalPaidForSubscription)
	reports.GET("/subscriptions/:id/unpaid", s.TotalUnpaidForSubscription)
	reports.GET("/months/:month", s.TotalPaidForMonth)
	reports.GET("/years/:year", s.TotalPaidForYear)
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
