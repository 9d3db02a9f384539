package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listAdminActions(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)

	actions, total, err := s.store.ListAdminActions(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error while fetching admin actions"})
		return
	}

	pages := (total + limit - 1) / limit
	c.JSON(http.StatusOK, gin.H{
		"message": "Admin actions retrieved successfully",
		"actions": actions,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": pages,
		},
	})
}
