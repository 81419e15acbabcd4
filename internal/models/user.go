package models

import "time"

// Usuários da plataforma: clientes do app e donos de barbearia do dashboard.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	AvatarURL    string `gorm:"size:255" json:"avatar_url"`

	Role         string `gorm:"size:20;default:'customer'" json:"role"`
	BarbershopID *uint  `json:"barbershop_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
)
