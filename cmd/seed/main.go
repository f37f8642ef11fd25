// seed puebla la base con productos demo y su stock inicial.
//
// Uso: go run ./cmd/seed
// El stock de apertura entra por el motor de mutación (una recepción por lote),
// así el ledger nace cuadrado: cada unidad en mano tiene su movimiento.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-stock/internal/application/stock"
	"github.com/tu-usuario/tienda-stock/internal/domain/entity"
	"github.com/tu-usuario/tienda-stock/internal/infrastructure/postgres"
	"github.com/tu-usuario/tienda-stock/pkg/config"
	"github.com/tu-usuario/tienda-stock/pkg/logger"
)

type seedProduct struct {
	sku          string
	name         string
	price        string
	opening      int64
	reorderLevel int64
}

var demo = []seedProduct{
	{"CAM-001", "Camiseta básica negra", "45000", 40, 10},
	{"CAM-002", "Camiseta básica blanca", "45000", 35, 10},
	{"PAN-001", "Pantalón jean clásico", "120000", 20, 5},
	{"GOR-001", "Gorra bordada", "38000", 15, 8},
	{"MED-001", "Medias x3 pares", "22000", 60, 20},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	recordRepo := postgres.NewStockRecordRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeoutMS)
	engine := stock.NewMutationEngine(txRunner, log)

	var lines []entity.ReceiptLine
	for _, sp := range demo {
		price, err := decimal.NewFromString(sp.price)
		if err != nil {
			log.Fatal().Err(err).Str("sku", sp.sku).Msg("precio inválido")
		}
		p := &entity.Product{
			ID:    uuid.New().String(),
			SKU:   sp.sku,
			Name:  sp.name,
			Price: price,
		}
		if err := productRepo.Create(p); err != nil {
			log.Fatal().Err(err).Str("sku", sp.sku).Msg("crear producto")
		}
		if err := recordRepo.Create(&entity.StockRecord{
			ProductID:    p.ID,
			ReorderLevel: sp.reorderLevel,
		}); err != nil {
			log.Fatal().Err(err).Str("sku", sp.sku).Msg("crear registro de stock")
		}
		if sp.opening > 0 {
			lines = append(lines, entity.ReceiptLine{ProductID: p.ID, Quantity: sp.opening})
		}
		log.Info().Str("sku", sp.sku).Str("id", p.ID).Msg("producto creado")
	}

	if len(lines) > 0 {
		receiptID, err := engine.ReceiveStock(ctx, stock.ReceiveStockInput{
			Items:          lines,
			ReceivedBy:     "seed",
			IdempotencyKey: "seed-opening-stock",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("recepción de stock inicial")
		}
		log.Info().Str("receipt_id", receiptID).Int("lines", len(lines)).Msg("stock inicial recibido")
	}
}
