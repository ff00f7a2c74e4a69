package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raduvm/ticketline/internal/helpers"
	"github.com/raduvm/ticketline/internal/middleware"
	"github.com/raduvm/ticketline/internal/models"
)

func GetProfile(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context.")
		return
	}

	gormDB := middleware.GetDB(c)

	var user models.User
	if err := gormDB.Where("id = ?", principal.SubjectID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving user.")
		return
	}

	var ticketCount int64
	gormDB.Model(&models.Ticket{}).Where("owner_email = ?", user.Email).Count(&ticketCount)

	c.JSON(http.StatusOK, gin.H{
		"id":      user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"role":    user.Role,
		"tickets": ticketCount,
	})
}
