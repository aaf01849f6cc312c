package annotation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterRoutes mounts annotation operations under the provided router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/image/:id/info", handler.get)
	group.PUT("/image/:id/info", handler.upsert)
	group.POST("/image/:id/info", handler.patch)
}

type httpHandler struct {
	service *Service
}

type upsertRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *httpHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	ann, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAnnotationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch annotation"})
		return
	}

	c.JSON(http.StatusOK, ann)
}

func (h *httpHandler) upsert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ann, err := h.service.Upsert(c.Request.Context(), id, req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store annotation"})
		return
	}

	c.JSON(http.StatusOK, ann)
}

func (h *httpHandler) patch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ann, err := h.service.ApplyPatch(c.Request.Context(), id, patch)
	if err != nil {
		if errors.Is(err, ErrAnnotationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update annotation"})
		return
	}

	c.JSON(http.StatusOK, ann)
}
