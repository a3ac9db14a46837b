package occupancy

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roomboard/roomboard/internal/handler"
	"github.com/roomboard/roomboard/internal/service/occupancy"
	apperrors "github.com/roomboard/roomboard/pkg/errors"
)

type Handler struct {
	service *occupancy.Service
}

func NewHandler(service *occupancy.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	occ := rg.Group("/occupancy")
	{
		occ.GET("", h.GetOccupancy)
		occ.POST("/heartbeat", h.Heartbeat)
	}
}

func (h *Handler) GetOccupancy(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.service.Snapshot(time.Now())))
}

type HeartbeatRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	ViewerID string `json:"viewerId" binding:"required"`
}

func (h *Handler) Heartbeat(c *gin.Context) {
	var req HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("invalid heartbeat payload", err))
		c.Abort()
		return
	}
	h.service.Heartbeat(req.RoomID, req.ViewerID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
