package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/clippr-app/clippr-api/internal/domain/booking"
	"github.com/clippr-app/clippr-api/internal/httperr"
	"github.com/clippr-app/clippr-api/internal/httpresp"
	"github.com/clippr-app/clippr-api/internal/middleware"
	"github.com/clippr-app/clippr-api/internal/models"
)

// ScheduleHandler gerencia o expediente semanal e as folgas dos barbeiros
// (o lado de escrita da agenda; o motor de reservas só lê).
type ScheduleHandler struct {
	db *gorm.DB
}

func NewScheduleHandler(db *gorm.DB) *ScheduleHandler {
	return &ScheduleHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

type WorkingDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Closed    bool   `json:"closed"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required"`
}

type TimeOffCreateRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

// ======================================================
// HELPERS
// ======================================================

// barberForShop garante que o barbeiro pertence à barbearia autenticada.
func (h *ScheduleHandler) barberForShop(c *gin.Context) (*models.Barber, bool) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	barberID, err := strconv.ParseUint(c.Param("barberId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return nil, false
	}

	var barber models.Barber
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", barberID, barbershopID).
		First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return nil, false
	}

	return &barber, true
}

// ======================================================
// WORKING HOURS
// ======================================================

func (h *ScheduleHandler) GetWorkingHours(c *gin.Context) {
	barber, ok := h.barberForShop(c)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.
		Where("barber_id = ?", barber.ID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		httperr.Internal(c, "failed_to_get_working_hours", "Erro ao buscar expediente.")
		return
	}

	httpresp.List(c, hours)
}

func (h *ScheduleHandler) UpdateWorkingHours(c *gin.Context) {
	barber, ok := h.barberForShop(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// valida com a mesma regra que o motor de reservas usa na leitura
	schedule := domain.WeekSchedule{BarberID: barber.ID}
	for i := range schedule.Days {
		schedule.Days[i] = domain.DayHours{Closed: true}
	}
	for _, d := range req.Days {
		if d.Weekday < 0 || d.Weekday > 6 {
			httperr.BadRequest(c, "invalid_weekday", "Dia da semana inválido.")
			return
		}
		schedule.Days[d.Weekday] = domain.DayHours{
			Open:   d.OpenTime,
			Close:  d.CloseTime,
			Closed: d.Closed,
		}
	}
	if err := schedule.Validate(); err != nil {
		httperr.BadRequest(c, "invalid_schedule", "Expediente inválido: abertura deve ser antes do fechamento.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("barber_id = ?", barber.ID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		toCreate := make([]models.WorkingHours, 0, len(req.Days))
		for _, d := range req.Days {
			toCreate = append(toCreate, models.WorkingHours{
				BarberID:  barber.ID,
				Weekday:   d.Weekday,
				OpenTime:  d.OpenTime,
				CloseTime: d.CloseTime,
				Closed:    d.Closed,
			})
		}

		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Erro ao salvar expediente.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// TIME OFF
// ======================================================

func (h *ScheduleHandler) ListTimeOff(c *gin.Context) {
	barber, ok := h.barberForShop(c)
	if !ok {
		return
	}

	var offs []models.TimeOff
	if err := h.db.
		Where("barber_id = ?", barber.ID).
		Order("start_date ASC").
		Find(&offs).Error; err != nil {
		httperr.Internal(c, "failed_to_list_time_off", "Erro ao listar folgas.")
		return
	}

	httpresp.List(c, offs)
}

func (h *ScheduleHandler) CreateTimeOff(c *gin.Context) {
	barber, ok := h.barberForShop(c)
	if !ok {
		return
	}

	var req TimeOffCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_date", "Data inicial inválida.")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_end_date", "Data final inválida.")
		return
	}
	if end.Before(start) {
		httperr.BadRequest(c, "invalid_range", "Data final antes da inicial.")
		return
	}

	off := models.TimeOff{
		BarberID:  barber.ID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}

	if err := h.db.Create(&off).Error; err != nil {
		httperr.Internal(c, "failed_to_create_time_off", "Erro ao criar folga.")
		return
	}

	httpresp.Created(c, off)
}

func (h *ScheduleHandler) DeleteTimeOff(c *gin.Context) {
	barber, ok := h.barberForShop(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	result := h.db.
		Where("id = ? AND barber_id = ?", id, barber.ID).
		Delete(&models.TimeOff{})
	if result.Error != nil {
		httperr.Internal(c, "failed_to_delete_time_off", "Erro ao remover folga.")
		return
	}
	if result.RowsAffected == 0 {
		httperr.NotFound(c, "time_off_not_found", "Folga não encontrada.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
