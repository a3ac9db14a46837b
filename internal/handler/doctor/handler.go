package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomboard/roomboard/internal/handler"
	"github.com/roomboard/roomboard/internal/store"
)

type Handler struct {
	store *store.Store
}

func NewHandler(store *store.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	doctors := rg.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id/bookings", h.ListDoctorBookings)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.store.Doctors()))
}

func (h *Handler) ListDoctorBookings(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.store.GetDoctorBookings(c.Param("id"))))
}
