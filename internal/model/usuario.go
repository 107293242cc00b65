package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is a system account. Rol decides the route groups the user can
// reach: "cajero" | "supervisor" | "administrador".
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	// PuntoDeVenta pins a cashier to one till; nil means any till.
	PuntoDeVenta *int
	Activo       bool `gorm:"not null;default:true"`
	UltimoAcceso *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
