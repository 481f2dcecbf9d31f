package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/rfm-segmentation-api/infrastructure/database"
	"github.com/vfg2006/rfm-segmentation-api/infrastructure/exporter"
	"github.com/vfg2006/rfm-segmentation-api/infrastructure/importer"
	"github.com/vfg2006/rfm-segmentation-api/infrastructure/repository"
	"github.com/vfg2006/rfm-segmentation-api/internal/api"
	"github.com/vfg2006/rfm-segmentation-api/internal/api/handler"
	"github.com/vfg2006/rfm-segmentation-api/internal/config"
	"github.com/vfg2006/rfm-segmentation-api/internal/scheduler"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/authenticating"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/segmenting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := api.Dependencies{
		OrderReader: importer.NewCSVReader(cfg.RFM.MaxOrders),
	}

	var orderRepo repository.OrderRepository
	if cfg.Database.Enabled {
		conn := dbconn(ctx, cfg.Database)
		defer conn.Close()

		orderRepo, err = repository.NewOrderRepository(conn, cfg.Database.OrdersTable, conn.PlaceholderFormat())
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao configurar repositório de pedidos")
		}
		deps.Database = conn
	}

	analyzer := segmenting.NewService(orderRepo)
	deps.Analyzer = analyzer

	authenticator, err := authenticating.NewService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar contas de acesso")
	}
	deps.Authenticator = authenticator

	// O snapshot agendado depende da base de pedidos
	if orderRepo != nil {
		snapshotSyncService := scheduler.NewRFMSnapshotSyncService(
			analyzer,
			exporter.NewJSONExporter(cfg.Export.Dir),
			cfg,
		)

		if err := snapshotSyncService.Start(ctx); err != nil {
			logrus.WithError(err).Error("Erro ao iniciar o agendador de snapshots RFM")
		} else {
			logrus.Info("Agendador de snapshots RFM iniciado com sucesso")
		}

		deps.CronServices = handler.CronJobServices{RFMSnapshotSyncService: snapshotSyncService}
	}

	server, err := api.New(cfg, deps)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// dbconn cria a conexão com a base de pedidos
func dbconn(ctx context.Context, dbConfig config.Database) *database.Connection {
	conn, err := database.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar à base de pedidos")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com a base de pedidos")
	}

	logrus.WithField("driver", conn.Driver).Info("Conexão com a base de pedidos estabelecida com sucesso")
	return conn
}
