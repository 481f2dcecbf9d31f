package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/rfm-segmentation-api/internal/api/handler"
	"github.com/vfg2006/rfm-segmentation-api/internal/api/handler/router"
	"github.com/vfg2006/rfm-segmentation-api/internal/config"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/authenticating"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/segmenting"
	"github.com/vfg2006/rfm-segmentation-api/pkg/middleware"
)

const defaultShutdownTimeout = 15 * time.Second

type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// Dependencies reúne os serviços expostos pela API
type Dependencies struct {
	Analyzer      segmenting.Analyzer
	Authenticator authenticating.Authenticator
	OrderReader   handler.OrderReader
	Database      handler.Pinger
	CronServices  handler.CronJobServices
}

func New(cfg *config.Config, deps Dependencies) (*Server, error) {
	if deps.Analyzer == nil || deps.Authenticator == nil || deps.OrderReader == nil {
		return nil, fmt.Errorf("analyzer, authenticator e order reader são obrigatórios")
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(deps.Database)...),
		router.WithRoutes(handler.Authentication(deps.Authenticator)...),
		router.WithRoutes(handler.RFMAnalysis(deps.Analyzer, handler.RFMAnalysisOptions{
			Reader:          deps.OrderReader,
			MaxUploadBytes:  cfg.Server.MaxUploadBytes,
			DatabaseEnabled: cfg.Database.Enabled,
		})...),
		router.WithRoutes(handler.CronJobs(deps.CronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
		middleware.AuthMiddleware(deps.Authenticator),
	}

	shutdownTimeout := cfg.Server.ShutdownWait
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}

	return srv, nil
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": s.shutdownTimeout.String(),
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
