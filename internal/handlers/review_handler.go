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

// ======================================================
// HANDLER
// ======================================================

// ReviewHandler cobre as avaliações pós-atendimento: o cliente avalia uma
// reserva concluída, o público lê as avaliações da barbearia e o dono pode
// responder.
type ReviewHandler struct {
	db *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type ReviewReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// ======================================================
// HELPERS
// ======================================================

// reviewableReservation decide se o cliente pode avaliar esta reserva:
// apenas o próprio cliente, e só depois do atendimento concluído.
func reviewableReservation(res *models.Reservation, customerID uint) error {
	if res.CustomerID != customerID {
		return httperr.ErrBusiness("forbidden")
	}
	if res.Status != string(domain.StatusCompleted) {
		return httperr.ErrBusiness("reservation_not_completed")
	}
	return nil
}

// ======================================================
// CREATE (cliente)
// ======================================================

func (h *ReviewHandler) Create(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Nota de 1 a 5 obrigatória.")
		return
	}

	var res models.Reservation
	if err := h.db.First(&res, reservationID).Error; err != nil {
		httperr.NotFound(c, "reservation_not_found", "Reserva não encontrada.")
		return
	}

	if err := reviewableReservation(&res, customerID); err != nil {
		be, _ := httperr.AsBusiness(err)
		if be.Code == "forbidden" {
			httperr.Forbidden(c, be.Code, "A reserva não é sua.")
			return
		}
		httperr.Conflict(c, be.Code, "Só é possível avaliar um atendimento concluído.")
		return
	}

	review := models.Review{
		BarbershopID:  res.BarbershopID,
		BarberID:      res.BarberID,
		CustomerID:    customerID,
		ReservationID: res.ID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}

	if err := h.db.Create(&review).Error; err != nil {
		// índice único por reserva: segunda avaliação perde a corrida
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "already_reviewed", "Esta reserva já foi avaliada.")
			return
		}
		httperr.Internal(c, "failed_to_create_review", "Erro ao salvar avaliação.")
		return
	}

	httpresp.Created(c, review)
}

// ======================================================
// LIST (público)
// ======================================================

func (h *ReviewHandler) ListForShop(c *gin.Context) {
	slug := c.Param("slug")

	var shop models.Barbershop
	if err := h.db.Where("slug = ? AND is_active = true", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	q := h.db.Where("barbershop_id = ?", shop.ID)
	if barberIDStr := c.Query("barber_id"); barberIDStr != "" {
		barberID, err := strconv.ParseUint(barberIDStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
			return
		}
		q = q.Where("barber_id = ?", barberID)
	}

	var reviews []models.Review
	if err := q.
		Preload("Customer").
		Order("created_at DESC").
		Limit(100).
		Find(&reviews).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Erro ao listar avaliações.")
		return
	}

	var avg float64
	for _, r := range reviews {
		avg += float64(r.Rating)
	}
	if len(reviews) > 0 {
		avg /= float64(len(reviews))
	}

	c.JSON(http.StatusOK, gin.H{
		"rating":       avg,
		"review_count": len(reviews),
		"reviews":      reviews,
	})
}

// ======================================================
// REPLY (dono)
// ======================================================

func (h *ReviewHandler) Reply(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req ReviewReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Resposta obrigatória.")
		return
	}

	var review models.Review
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&review).Error; err != nil {
		httperr.NotFound(c, "review_not_found", "Avaliação não encontrada.")
		return
	}

	now := time.Now()
	review.Reply = req.Reply
	review.RepliedAt = &now

	if err := h.db.Save(&review).Error; err != nil {
		httperr.Internal(c, "failed_to_reply_review", "Erro ao salvar resposta.")
		return
	}

	httpresp.OK(c, review)
}
