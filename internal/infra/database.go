package infra

import (
	"fmt"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// for every entity, plus the few DDL objects AutoMigrate cannot express (the
// sale-code sequence and pgcrypto for gen_random_uuid()).
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

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.Lote{},
		&model.Cliente{},
		&model.MetodoPago{},
		&model.SesionCaja{},
		&model.Turno{},
		&model.MovimientoCaja{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.Pago{},
		&model.Retiro{},
		&model.Gasto{},
		&model.MovimientoStock{},
		&model.Alerta{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	// Sale codes are short sequential integers, independent of the UUID PK.
	if err := db.Exec(`CREATE SEQUENCE IF NOT EXISTS ventas_codigo_seq START 1`).Error; err != nil {
		return nil, fmt.Errorf("ventas_codigo_seq: %w", err)
	}

	return db, nil
}
