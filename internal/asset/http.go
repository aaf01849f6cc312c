package asset

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterRoutes mounts asset operations under the provided router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/image", handler.upload)
	group.PUT("/image", handler.upload)
	group.GET("/image", handler.list)
	group.GET("/image/:id", handler.fetch)
	group.GET("/image/:id/exif", handler.metadata)
	group.DELETE("/image/:id", handler.remove)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}

	rec, err := h.service.Ingest(c.Request.Context(), fileHeader.Filename, data, c.Query("sha1"))
	if err != nil {
		var dup *DuplicateError
		switch {
		case errors.As(err, &dup):
			c.JSON(http.StatusConflict, gin.H{"error": "file already exists", "uuid": dup.ExistingID})
		case errors.Is(err, ErrUnsupportedMedia):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "file is not a supported image", "supported": SupportedExtensions})
		case errors.Is(err, ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ingest image"})
		}
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *httpHandler) list(c *gin.Context) {
	records, err := h.service.List(c.Request.Context(), c.QueryArray("column"), c.DefaultQuery("sort", DefaultSortColumn))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list images"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *httpHandler) fetch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	wantThumbnail, _ := strconv.ParseBool(c.DefaultQuery("thumbnail", "false"))

	data, contentType, err := h.service.FetchBytes(c.Request.Context(), id, wantThumbnail)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch image"})
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

func (h *httpHandler) metadata(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	row, err := h.service.GetMetadata(c.Request.Context(), id, c.QueryArray("column"))
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch metadata"})
		return
	}

	c.JSON(http.StatusOK, row)
}

func (h *httpHandler) remove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete image"})
		return
	}

	c.Status(http.StatusNoContent)
}
