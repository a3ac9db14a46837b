package booking

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roomboard/roomboard/internal/handler"
	"github.com/roomboard/roomboard/internal/model"
	"github.com/roomboard/roomboard/internal/store"
	apperrors "github.com/roomboard/roomboard/pkg/errors"
)

type Handler struct {
	store *store.Store
}

func NewHandler(store *store.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", h.CreateBooking)
		bookings.PATCH("/:id", h.UpdateBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
	}
}

type CreateBookingRequest struct {
	RoomID      string    `json:"roomId" binding:"required"`
	DoctorID    string    `json:"doctorId" binding:"required"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required,gtfield=StartTime"`
	PatientName string    `json:"patientName"`
	Notes       string    `json:"notes"`
}

func (h *Handler) ListBookings(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.store.Bookings()))
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("invalid booking payload", err))
		c.Abort()
		return
	}

	booking := h.store.AddBooking(model.Booking{
		RoomID:      req.RoomID,
		DoctorID:    req.DoctorID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		PatientName: req.PatientName,
		Status:      model.BookingStatusConfirmed,
		Notes:       req.Notes,
	})

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(booking))
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	var updates model.BookingUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.Error(apperrors.BadRequest("invalid booking update", err))
		c.Abort()
		return
	}

	// Unknown ids are a deliberate no-op; the dashboard may race a
	// delete from another client.
	h.store.UpdateBooking(c.Param("id"), updates)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) CancelBooking(c *gin.Context) {
	h.store.CancelBooking(c.Param("id"))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	h.store.DeleteBooking(c.Param("id"))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
