package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	log "github.com/sirupsen/logrus"
)

const (
	uploadDir     = "./uploads"
	maxUploadSize = 10 << 20 // 10 MiB
)

type UploadHandlers struct{}

func NewUploadHandlers() *UploadHandlers {
	return &UploadHandlers{}
}

type UploadResponse struct {
	FileURL string `json:"file_url" example:"/uploads/V1StGXR8_Z5jdHi6B-myT.png"`
}

// UploadHandler stores a file attachment and returns its URL
// @Summary Upload a file
// @Description Upload a file attachment, the returned URL can be sent in a chat message
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "File to upload"
// @Success 201 {object} UploadResponse "File stored"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/upload [post]
func (h *UploadHandlers) UploadHandler(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	name, err := gonanoid.New()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	filename := name + filepath.Ext(file.Filename)

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	dst := filepath.Join(uploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.WithFields(log.Fields{"file": filename, "error": err.Error()}).Error("upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{FileURL: "/uploads/" + filename})
}
