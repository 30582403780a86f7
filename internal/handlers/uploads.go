package handlers

import (
	"net/http"

	"github.com/wajeehjabribrahim/manajel-store/internal/dto"
	"github.com/wajeehjabribrahim/manajel-store/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadHandler struct {
	store storage.ImageStore
	log   *zap.Logger
}

func NewUploadHandler(store storage.ImageStore, log *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, log: log}
}

// ProductImage godoc
// @Summary Upload a product image
// @Description image/* up to 5 MiB; returns a data URL or a hosted URL
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "image"
// @Success 201 {object} dto.UploadImageResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /api/uploads/product-image [post]
func (h *UploadHandler) ProductImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, h.log, "upload image", storage.ErrEmptyFile)
		return
	}
	if fh.Size > storage.MaxImageSize {
		writeError(c, h.log, "upload image", storage.ErrTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.log, "upload image", err)
		return
	}
	defer f.Close()

	up, err := h.store.Store(c.Request.Context(), fh.Header.Get("Content-Type"), f)
	if err != nil {
		writeError(c, h.log, "upload image", err)
		return
	}
	h.log.Info("product image stored", zap.String("filename", fh.Filename), zap.Int64("size", fh.Size))
	c.JSON(http.StatusCreated, dto.UploadImageResponse{ImageData: up.ImageData, URL: up.URL, PublicID: up.PublicID})
}
