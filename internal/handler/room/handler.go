package room

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
	rooms := rg.Group("/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.GET("/:id/bookings", h.ListRoomBookings)
	}
}

func (h *Handler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.store.Rooms()))
}

// ListRoomBookings returns the non-cancelled bookings for a room. An
// unknown room id yields an empty list, not an error.
func (h *Handler) ListRoomBookings(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.store.GetRoomBookings(c.Param("id"))))
}
