// Command migrate cria a tabela de pedidos e carrega um CSV de pedidos na base
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/rfm-segmentation-api/infrastructure/database"
	"github.com/vfg2006/rfm-segmentation-api/infrastructure/importer"
	"github.com/vfg2006/rfm-segmentation-api/infrastructure/migration"
	"github.com/vfg2006/rfm-segmentation-api/internal/config"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	input := flag.String("input", "", "CSV de pedidos (user_id,order_id,order_date,product_name,order_value,discount_given)")
	dsn := flag.String("dsn", os.Getenv("RFM_DSN"), "DSN da base de pedidos (padrão: DATABASE_* do ambiente)")
	table := flag.String("table", cfg.Database.OrdersTable, "Tabela de pedidos")
	batchSize := flag.Int("batch", migration.DefaultBatchSize, "Pedidos por INSERT")
	schemaOnly := flag.Bool("schema-only", false, "Apenas cria a tabela")
	flag.Parse()

	if *input == "" && !*schemaOnly {
		logrus.Fatal("Usage: migrate --input orders.csv [--dsn driver://...] [--table orders] [--batch 500] | --schema-only")
	}

	dbConfig := cfg.Database
	if *dsn != "" {
		dbConfig, err = database.ConfigFromDSN(*dsn)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	ctx := context.Background()
	logrus.Info("Conectando ao banco de dados...")
	conn, err := database.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao banco de dados")
	}
	defer conn.Close()

	loader, err := migration.NewOrderLoader(conn, *table, *batchSize)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := loader.EnsureSchema(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar tabela de pedidos")
	}
	if *schemaOnly {
		return
	}

	file, err := os.Open(*input)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao abrir arquivo de pedidos")
	}
	defer file.Close()

	orders, err := importer.NewCSVReader(cfg.RFM.MaxOrders).ReadOrders(file)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao ler arquivo de pedidos")
	}

	bar := progressbar.Default(int64(len(orders)), "carregando pedidos")
	result, err := loader.LoadOrders(ctx, orders, func(n int) {
		_ = bar.Add(n)
	})
	if err != nil {
		logrus.WithError(err).Fatal("Erro na carga de pedidos (transação revertida)")
	}
	_ = bar.Finish()

	logrus.WithFields(logrus.Fields{
		"inserted": result.Inserted,
		"batches":  result.Batches,
		"elapsed":  result.Elapsed.String(),
	}).Info("Carga inicial concluída")
}
