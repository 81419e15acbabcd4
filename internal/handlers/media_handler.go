package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clippr-app/clippr-api/internal/httperr"
	"github.com/clippr-app/clippr-api/internal/httpresp"
	"github.com/clippr-app/clippr-api/internal/media"
	"github.com/clippr-app/clippr-api/internal/middleware"
	"github.com/clippr-app/clippr-api/internal/models"
)

const maxUploadBytes = 8 << 20 // 8 MiB

// MediaHandler recebe logo e capa da barbearia no dashboard.
type MediaHandler struct {
	db      *gorm.DB
	storage *media.Storage
}

func NewMediaHandler(db *gorm.DB, storage *media.Storage) *MediaHandler {
	return &MediaHandler{db: db, storage: storage}
}

func (h *MediaHandler) UploadLogo(c *gin.Context) {
	h.upload(c, "logo")
}

func (h *MediaHandler) UploadCover(c *gin.Context) {
	h.upload(c, "cover")
}

func (h *MediaHandler) upload(c *gin.Context, kind string) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Envie o campo 'image'.")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		httperr.BadRequest(c, "image_too_large", "Imagem acima de 8MB.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_image", "Erro ao ler a imagem.")
		return
	}
	defer file.Close()

	key := fmt.Sprintf("barbershops/%d/%s-%s.webp", shop.ID, kind, uuid.NewString())

	url, err := h.storage.UploadImage(c.Request.Context(), key, file)
	if err != nil {
		if err == media.ErrNotConfigured {
			httperr.ServiceUnavailable(c, "media_not_configured", "Upload de imagens desabilitado.")
			return
		}
		httperr.Internal(c, "failed_to_upload_image", "Erro ao enviar a imagem.")
		return
	}

	switch kind {
	case "logo":
		shop.LogoURL = url
	case "cover":
		shop.CoverURL = url
	}

	if err := h.db.Save(&shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barbershop", "Erro ao salvar a URL da imagem.")
		return
	}

	httpresp.OK(c, gin.H{"url": url})
}
