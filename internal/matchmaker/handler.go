package matchmaker

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// 优先使用 JWT 中间件写入的 name
func playerName(c *gin.Context, fallback string) string {
	if name := c.GetString("name"); name != "" {
		return name
	}
	return fallback
}

// POST /lobby/join  body: {bots}
func (h *Handler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Name = playerName(c, req.Name)

	room, err := h.svc.Join(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrInvalidBots), errors.Is(err, ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrAlreadySeated):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, JoinResponse{RoomID: room.ID, Player: room.Player, Bots: room.Bots})
}

// POST /lobby/leave
func (h *Handler) Leave(c *gin.Context) {
	var req LeaveRequest
	// body 可为空：名字来自 token
	_ = c.ShouldBindJSON(&req)
	name := playerName(c, req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidName.Error()})
		return
	}
	roomID, err := h.svc.Leave(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "roomId": roomID})
}

// GET /lobby/room
func (h *Handler) Current(c *gin.Context) {
	room, err := h.svc.Current(c.Request.Context(), playerName(c, c.Query("name")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if room == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not in room"})
		return
	}
	c.JSON(http.StatusOK, room)
}
