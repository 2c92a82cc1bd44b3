package handlers

import (
	"net/http"
	"strings"

	"staffdesk/user-service/services"

	"github.com/gin-gonic/gin"
)

// ServeUpload streams a stored file so the server-relative paths recorded
// on user records are browsable.
// @Summary Download a stored file
// @Description Stream an uploaded resume or profile picture
// @Tags files
// @Produce octet-stream
// @Param filepath path string true "Stored file path"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "File not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /uploads/{filepath} [get]
func ServeUpload(ctx *gin.Context) {
	objectKey := strings.TrimPrefix(ctx.Param("filepath"), "/")
	if objectKey == "" || strings.Contains(objectKey, "..") {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file path"})
		return
	}

	storage, err := services.NewStorageService()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Storage service unavailable",
			"message": err.Error(),
		})
		return
	}

	object, info, err := storage.GetObject(ctx, objectKey)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	defer object.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx.DataFromReader(http.StatusOK, info.Size, contentType, object, nil)
}
