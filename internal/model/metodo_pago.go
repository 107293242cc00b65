package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Canonical payment-method categories.
const (
	CategoriaEfectivo      = "efectivo"
	CategoriaBilletera     = "billetera"
	CategoriaTarjeta       = "tarjeta"
	CategoriaTransferencia = "transferencia"
)

// MetodoPago is a configured payment method with an explicit category.
// The category drives session bucketing and the cash ledger; matching by
// display name is kept only as a fallback for legacy data (see
// CategoriaPorNombre).
type MetodoPago struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Categoria string    `gorm:"type:varchar(20);not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization (metodo_pagos → metodos_pago).
func (MetodoPago) TableName() string { return "metodos_pago" }

// CategoriaPorNombre buckets a method by lower-cased substring matching.
// Legacy fallback only — methods registered in the catalog carry an explicit
// category. Returns "" when nothing matches; such payments are recorded but
// update no session bucket.
func CategoriaPorNombre(nombre string) string {
	n := strings.ToLower(nombre)
	switch {
	case strings.Contains(n, "efectivo"), strings.Contains(n, "cash"):
		return CategoriaEfectivo
	case strings.Contains(n, "yape"), strings.Contains(n, "plin"), strings.Contains(n, "billetera"):
		return CategoriaBilletera
	case strings.Contains(n, "tarjeta"), strings.Contains(n, "debito"), strings.Contains(n, "credito"), strings.Contains(n, "card"):
		return CategoriaTarjeta
	case strings.Contains(n, "transferencia"), strings.Contains(n, "deposito"):
		return CategoriaTransferencia
	default:
		return ""
	}
}
