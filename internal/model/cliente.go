package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is an optional sale counterpart (frequent buyers, credit accounts).
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Documento *string   `gorm:"uniqueIndex"`
	Telefono  *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
