package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clippr-app/clippr-api/internal/httperr"
	"github.com/clippr-app/clippr-api/internal/httpresp"
	"github.com/clippr-app/clippr-api/internal/middleware"
	"github.com/clippr-app/clippr-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

// BookingHandler é a superfície de reservas do cliente autenticado.
type BookingHandler struct {
	book   *booking.BookSlot
	cancel *booking.CancelReservation
	list   *booking.ListCustomerReservations
}

func NewBookingHandler(
	book *booking.BookSlot,
	cancel *booking.CancelReservation,
	list *booking.ListCustomerReservations,
) *BookingHandler {
	return &BookingHandler{
		book:   book,
		cancel: cancel,
		list:   list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	BarberID  uint   `json:"barber_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:mm
	Notes     string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.book.Execute(c.Request.Context(), booking.BookInput{
		CustomerID: customerID,
		BarberID:   req.BarberID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Time:       req.Time,
		Notes:      req.Notes,
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.Created(c, res)
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role, _ := c.Get(middleware.ContextUserRole)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	actor := booking.Actor{
		UserID: userID,
		Role:   role.(string),
	}
	if shopID, ok := c.Get(middleware.ContextBarbershopID); ok {
		actor.BarbershopID = shopID.(uint)
	}

	res, err := h.cancel.Execute(c.Request.Context(), uint(id), actor)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) ListMine(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	reservations, err := h.list.Execute(c.Request.Context(), customerID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_reservations", "Erro ao listar reservas.")
		return
	}

	httpresp.List(c, reservations)
}
