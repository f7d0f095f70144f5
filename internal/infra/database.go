package infra

import (
	"fmt"

	"tiendapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update the relational tables (usuarios, ventas, promociones, cortes,
// movimientos_stock, paquetes, favoritos), then applies idempotent SQL patches
// that GORM cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Corte{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Promocion{},
		&model.MovimientoStock{},
		&model.Paquete{},
		&model.EventoPaquete{},
		&model.Favorito{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// One open corte per cashier. The 409 on double-open is enforced HERE,
		// at the store layer, because the server holds no in-memory state
		// between requests.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cortes_abierto_por_usuario') THEN
		    CREATE UNIQUE INDEX idx_cortes_abierto_por_usuario
		        ON cortes (usuario_id)
		        WHERE estado = 'abierto';
		  END IF;
		END $$`,
		// Ledger queries are always per-product, newest first.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_stock_producto_fecha') THEN
		    CREATE INDEX idx_movimientos_stock_producto_fecha
		        ON movimientos_stock (producto_id, created_at DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
