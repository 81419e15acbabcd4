package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clippr-app/clippr-api/internal/httperr"
	"github.com/clippr-app/clippr-api/internal/httpresp"
	"github.com/clippr-app/clippr-api/internal/middleware"
	"github.com/clippr-app/clippr-api/internal/models"
	"github.com/clippr-app/clippr-api/internal/usecase/booking"
	"gorm.io/gorm"
)

// ======================================================
// HANDLER
// ======================================================

// AgendaHandler serve o dashboard da barbearia: agenda do dia/mês e as
// transições de status feitas pelo balcão.
type AgendaHandler struct {
	db       *gorm.DB
	list     *booking.ListAgenda
	cancel   *booking.CancelReservation
	complete *booking.CompleteReservation
}

func NewAgendaHandler(
	db *gorm.DB,
	list *booking.ListAgenda,
	cancel *booking.CancelReservation,
	complete *booking.CompleteReservation,
) *AgendaHandler {
	return &AgendaHandler{
		db:       db,
		list:     list,
		cancel:   cancel,
		complete: complete,
	}
}

func (h *AgendaHandler) actor(c *gin.Context) booking.Actor {
	return booking.Actor{
		UserID:       c.MustGet(middleware.ContextUserID).(uint),
		Role:         models.RoleOwner,
		BarbershopID: c.MustGet(middleware.ContextBarbershopID).(uint),
	}
}

// ======================================================
// LIST BY DATE
// ======================================================

func (h *AgendaHandler) ListByDate(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	barberID, err := strconv.ParseUint(c.Query("barber_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.Internal(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	date, err := parseDateInShop(&shop, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	out, err := h.list.ByDate(c.Request.Context(), barbershopID, uint(barberID), date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_agenda", "Erro ao listar agenda.")
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// LIST BY MONTH
// ======================================================

func (h *AgendaHandler) ListByMonth(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	barberID, err := strconv.ParseUint(c.Query("barber_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	out, err := h.list.ByMonth(c.Request.Context(), barbershopID, uint(barberID), year, month)
	if err != nil {
		httperr.Internal(c, "failed_to_list_agenda", "Erro ao listar agenda.")
		return
	}

	c.JSON(200, gin.H{
		"year":         year,
		"month":        month,
		"reservations": out,
	})
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AgendaHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	res, err := h.cancel.Execute(c.Request.Context(), uint(id), h.actor(c))
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *AgendaHandler) Complete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	res, err := h.complete.Execute(c.Request.Context(), uint(id), h.actor(c))
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, res)
}
