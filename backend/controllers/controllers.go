package controllers

import (
	"edulms/backend/config"
	"edulms/backend/models"
	"edulms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// currentUser resolves the authenticated user for a request.
func currentUser(c *fiber.Ctx, db *gorm.DB, cfg *config.Config) (*models.User, error) {
	userID, err := utils.ExtractUserIDFromToken(c, cfg)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unknown user")
	}
	return &user, nil
}

// optionalUser is currentUser for routes that work anonymously too;
// a missing or bad token just yields nil.
func optionalUser(c *fiber.Ctx, db *gorm.DB, cfg *config.Config) *models.User {
	user, err := currentUser(c, db, cfg)
	if err != nil {
		return nil
	}
	return user
}
