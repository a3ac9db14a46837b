package notification

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
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.DELETE("", h.ClearNotifications)
	}
}

// ListNotifications returns the feed newest first, at most ten entries.
func (h *Handler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.store.Notifications()))
}

func (h *Handler) ClearNotifications(c *gin.Context) {
	h.store.ClearNotifications()
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
