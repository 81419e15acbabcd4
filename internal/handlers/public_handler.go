package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/clippr-app/clippr-api/internal/domain/booking"
	"github.com/clippr-app/clippr-api/internal/httperr"
	"github.com/clippr-app/clippr-api/internal/httpresp"
	"github.com/clippr-app/clippr-api/internal/models"
	"github.com/clippr-app/clippr-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serve a descoberta de barbearias e a consulta de horários
// para o app e o site, sem autenticação.
type PublicHandler struct {
	db           *gorm.DB
	availability *booking.GetAvailability
}

func NewPublicHandler(db *gorm.DB, availability *booking.GetAvailability) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: availability,
	}
}

// ======================================================
// BARBERSHOPS
// ======================================================

func (h *PublicHandler) ListBarbershops(c *gin.Context) {
	city := strings.TrimSpace(strings.ToLower(c.Query("city")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.Where("is_active = true")

	if city != "" {
		q = q.Where("LOWER(city) = ?", city)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(neighborhood) LIKE ?", like, like)
	}

	var shops []models.Barbershop
	if err := q.Order("name ASC").Find(&shops).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbershops", "Erro ao listar barbearias.")
		return
	}

	httpresp.List(c, shops)
}

func (h *PublicHandler) GetBarbershop(c *gin.Context) {
	slug := c.Param("slug")

	var shop models.Barbershop
	if err := h.db.Where("slug = ? AND is_active = true", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	var barbers []models.Barber
	h.db.Where("barbershop_id = ? AND active = true", shop.ID).
		Order("id ASC").
		Find(&barbers)

	var services []models.Service
	h.db.Where("barbershop_id = ? AND active = true", shop.ID).
		Order("id ASC").
		Find(&services)

	c.JSON(http.StatusOK, gin.H{
		"barbershop": shop,
		"barbers":    barbers,
		"services":   services,
	})
}

// ======================================================
// SERVICES
// ======================================================

func (h *PublicHandler) ListServices(c *gin.Context) {
	slug := c.Param("slug")

	var shop models.Barbershop
	if err := h.db.Where("slug = ? AND is_active = true", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))

	q := h.db.Where("barbershop_id = ? AND active = true", shop.ID)
	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, services)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *PublicHandler) Availability(c *gin.Context) {
	slug := c.Param("slug")
	dateStr := c.Query("date")
	barberIDStr := c.Query("barber_id")
	serviceIDStr := c.Query("service_id")

	if dateStr == "" || barberIDStr == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Data, barbeiro e serviço obrigatórios.")
		return
	}

	barberID, err := strconv.ParseUint(barberIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
		return
	}

	var shop models.Barbershop
	if err := h.db.Where("slug = ? AND is_active = true", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	date, err := parseDateInShop(&shop, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.availability.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			BarbershopID: shop.ID,
			BarberID:     uint(barberID),
			ServiceID:    uint(serviceID),
			Date:         date,
		},
	)
	if err != nil {
		if be, ok := httperr.AsBusiness(err); ok {
			httperr.Unprocessable(c, be.Code, "Parâmetros de disponibilidade inválidos.")
			return
		}
		httperr.Internal(c, "availability_failed", "Erro ao calcular horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}
