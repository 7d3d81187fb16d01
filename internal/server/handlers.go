package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fabula/internal/contextbuilder"
)

// BuildRequest is the body of POST /api/context/build.
type BuildRequest struct {
	ChapterID       string                       `json:"chapter_id" binding:"required"`
	AdditionalItems []contextbuilder.ContextItem `json:"additional_items,omitempty"`
}

// FormatRequest is the body of POST /api/context/format.
type FormatRequest struct {
	Items []contextbuilder.ContextItem `json:"items"`
}

// FormatResponse carries the rendered document.
type FormatResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleBuild(c *gin.Context) {
	var req BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	built, err := s.builder.Build(c.Request.Context(), req.ChapterID, req.AdditionalItems)
	if err != nil {
		if contextbuilder.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("build failed for chapter %s: %v", req.ChapterID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context unavailable"})
		return
	}

	c.JSON(http.StatusOK, built)
}

func (s *Server) handleFormat(c *gin.Context) {
	var req FormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, FormatResponse{Text: contextbuilder.FormatContext(req.Items)})
}
