package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raduvm/ticketline/internal/helpers"
	"github.com/raduvm/ticketline/internal/middleware"
	"github.com/raduvm/ticketline/internal/models"
)

type EventRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
}

type EventResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	Description      string    `json:"description"`
	Capacity         int       `json:"capacity"`
	OwnerID          uuid.UUID `json:"owner_id"`
	TicketsSold      int       `json:"tickets_sold"`
	PackageImpact    int       `json:"package_impact"`
	AvailableTickets int       `json:"available_tickets"`
}

func eventResponse(c *gin.Context, event models.Event) (EventResponse, error) {
	accountant := middleware.GetAccountant(c)
	availability, err := accountant.EventAvailability(c.Request.Context(), event.ID)
	if err != nil {
		return EventResponse{}, err
	}
	return EventResponse{
		ID:               event.ID,
		Name:             event.Name,
		Location:         event.Location,
		Description:      event.Description,
		Capacity:         event.Capacity,
		OwnerID:          event.OwnerID,
		TicketsSold:      availability.Sold,
		PackageImpact:    availability.PackageImpact,
		AvailableTickets: availability.Display(),
	}, nil
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context.")
		return
	}

	gormDB := middleware.GetDB(c)
	event := models.Event{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Capacity:    req.Capacity,
		OwnerID:     principal.SubjectID,
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func GetEvent(c *gin.Context) {
	gormDB := middleware.GetDB(c)

	var event models.Event
	if err := gormDB.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	resp, err := eventResponse(c, event)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing availability.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func ListEvents(c *gin.Context) {
	gormDB := middleware.GetDB(c)

	pageNum, err := helpers.StringToInt(c.DefaultQuery("page", "1"))
	if err != nil || pageNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}
	limitNum, err := helpers.StringToInt(c.DefaultQuery("limit", "10"))
	if err != nil || limitNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Event{})
	if name := c.Query("name"); name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	if err := query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		resp, err := eventResponse(c, event)
		if err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing availability.")
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      responses,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func UpdateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	gormDB := middleware.GetDB(c)

	var event models.Event
	if err := gormDB.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	if principal.Role != models.RoleAdmin && event.OwnerID != principal.SubjectID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to update this event.")
		return
	}

	event.Name = req.Name
	event.Location = req.Location
	event.Description = req.Description
	event.Capacity = req.Capacity

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	gormDB := middleware.GetDB(c)

	var event models.Event
	if err := gormDB.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	if principal.Role != models.RoleAdmin && event.OwnerID != principal.SubjectID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this event.")
		return
	}

	if err := gormDB.Delete(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}
