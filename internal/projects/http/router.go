package http

import "github.com/gin-gonic/gin"

// Register registers the project routes
func (h *Handler) Register(rg gin.IRouter) {
	rg.GET("/github-projects", h.ListProjects)
}
