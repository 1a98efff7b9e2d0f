package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/rekoonads/sweven-games-gateway/docs"
	"github.com/rekoonads/sweven-games-gateway/internal/app/api/handlers"
	mw "github.com/rekoonads/sweven-games-gateway/internal/app/api/middleware"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/accessgate"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/checkout"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/gamesession"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/paymentreturn"
	"github.com/rekoonads/sweven-games-gateway/internal/platform/subsapi"
	cfgpkg "github.com/rekoonads/sweven-games-gateway/pkg/config"
	"github.com/rekoonads/sweven-games-gateway/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Trace first so every downstream middleware and handler sees the id
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(
	lc fx.Lifecycle,
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	gw *metrics.Gateway,
	api subsapi.ClientAPI,
	checkoutSvc *checkout.Service,
	gateSvc *accessgate.Service,
	poller *paymentreturn.Poller,
	sessions *gamesession.Registry,
) {
	if cfg != nil && cfg.MetricsAddr != "" {
		gw.Use(r)
		gw.SetListenAddress(cfg.MetricsAddr)
		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API group: identity is parsed for every request; enforcement happens
	// per route.
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.Identity(cfg))

	// Mutating payment endpoints share one limiter
	limiter := mw.NewRateLimiter(1, 5)
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		limiter.Stop()
		return nil
	}})
	payLimiter := limiter.Middleware()

	handlers.RegisterSubscriptionRoutes(apiV1.Group("/subscription"), checkoutSvc, api, payLimiter)
	handlers.RegisterPaymentRoutes(apiV1.Group("/payment"), poller)
	handlers.RegisterAccessRoutes(apiV1.Group("/access"), gateSvc)
	handlers.RegisterSessionRoutes(apiV1.Group("/session"), sessions)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Provide(metrics.NewGateway),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
