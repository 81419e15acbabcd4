package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clippr-app/clippr-api/internal/httperr"
	"github.com/clippr-app/clippr-api/internal/httpresp"
	"github.com/clippr-app/clippr-api/internal/middleware"
	"github.com/clippr-app/clippr-api/internal/models"
	"github.com/clippr-app/clippr-api/internal/timezone"
)

type BarbershopHandler struct {
	db *gorm.DB
}

func NewBarbershopHandler(db *gorm.DB) *BarbershopHandler {
	return &BarbershopHandler{db: db}
}

type BarbershopUpdateRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Phone        string `json:"phone"`
	Whatsapp     string `json:"whatsapp"`
	Instagram    string `json:"instagram"`

	Timezone          string `json:"timezone"`
	MinAdvanceMinutes *int   `json:"min_advance_minutes"`
	SlotStepMinutes   *int   `json:"slot_step_minutes"`
}

func (h *BarbershopHandler) GetMine(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	httpresp.OK(c, shop)
}

func (h *BarbershopHandler) UpdateMine(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	var req BarbershopUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != "" {
		shop.Name = req.Name
	}
	if req.Description != "" {
		shop.Description = req.Description
	}
	if req.Address != "" {
		shop.Address = req.Address
	}
	if req.Neighborhood != "" {
		shop.Neighborhood = req.Neighborhood
	}
	if req.City != "" {
		shop.City = req.City
	}
	if req.State != "" {
		shop.State = req.State
	}
	if req.Phone != "" {
		shop.Phone = req.Phone
	}
	if req.Whatsapp != "" {
		shop.Whatsapp = req.Whatsapp
	}
	if req.Instagram != "" {
		shop.Instagram = req.Instagram
	}

	if req.Timezone != "" {
		if !timezone.IsValid(req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Timezone inválido.")
			return
		}
		shop.Timezone = req.Timezone
	}
	if req.MinAdvanceMinutes != nil && *req.MinAdvanceMinutes >= 0 {
		shop.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.SlotStepMinutes != nil && *req.SlotStepMinutes > 0 {
		shop.SlotStepMinutes = *req.SlotStepMinutes
	}

	if err := h.db.Save(&shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barbershop", "Erro ao atualizar barbearia.")
		return
	}

	httpresp.OK(c, shop)
}
