package controllers

import (
	"fmt"
	"path/filepath"
	"strings"

	"edulms/backend/config"
	"edulms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var allowedUploadExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".pdf": true, ".mp4": true, ".webm": true,
}

type UploadController struct {
	Cfg *config.Config
}

func NewUploadController(cfg *config.Config) *UploadController {
	return &UploadController{Cfg: cfg}
}

// Upload godoc
// @Summary Store a file and return its URL
// @Description Saves the multipart "file" field under the static uploads dir
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /upload [post]
func (uc *UploadController) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "Missing file")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExts[ext] {
		return utils.BadRequest(c, "Unsupported file type")
	}

	name := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(uc.Cfg.UploadDir, name)); err != nil {
		return utils.InternalServerError(c, "Could not store file")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": fmt.Sprintf("/uploads/%s", name),
	})
}
