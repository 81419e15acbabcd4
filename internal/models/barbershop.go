package models

import "time"

type Barbershop struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `json:"owner_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Slug        string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"size:500" json:"description"`

	Address      string `gorm:"size:255" json:"address"`
	Neighborhood string `gorm:"size:100" json:"neighborhood"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:2" json:"state"`

	Phone     string `gorm:"size:20" json:"phone"`
	Whatsapp  string `gorm:"size:20" json:"whatsapp"`
	Instagram string `gorm:"size:100" json:"instagram"`

	LogoURL  string `gorm:"size:255" json:"logo_url"`
	CoverURL string `gorm:"size:255" json:"cover_url"`

	Timezone          string `gorm:"size:50" json:"timezone"`
	MinAdvanceMinutes int    `gorm:"default:60" json:"min_advance_minutes"`
	SlotStepMinutes   int    `gorm:"default:30" json:"slot_step_minutes"`

	SubscriptionStatus string `gorm:"size:20;default:'trial'" json:"subscription_status"`
	IsActive           bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
