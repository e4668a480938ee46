package results

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxTop = 100

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// GET /results/top?n=10
func (h *Handler) Top(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("n", "10"))
	if err != nil || n <= 0 || n > maxTop {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be between 1 and 100"})
		return
	}
	top, err := h.store.Top(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if top == nil {
		top = []Standing{}
	}
	c.JSON(http.StatusOK, top)
}
