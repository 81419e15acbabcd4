package models

import "time"

// Avaliação de um atendimento concluído. Uma por reserva; a nota alimenta a
// média pública da barbearia e do barbeiro.
type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint `gorm:"index" json:"barbershop_id"`
	BarberID     uint `gorm:"index" json:"barber_id"`
	CustomerID   uint `json:"customer_id"`
	Customer     User `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	ReservationID uint        `gorm:"uniqueIndex" json:"reservation_id"`
	Reservation   Reservation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"size:500" json:"comment"`

	// Resposta do dono da barbearia, opcional.
	Reply     string     `gorm:"size:500" json:"reply"`
	RepliedAt *time.Time `json:"replied_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
