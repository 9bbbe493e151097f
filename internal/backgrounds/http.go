package backgrounds

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	lister *Lister
}

func NewHandler(lister *Lister) *Handler {
	return &Handler{lister: lister}
}

func (h *Handler) Register(rg gin.IRouter) {
	rg.GET("/backgrounds", h.list)
}

func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"images": h.lister.List(c.Request.Context())})
}
