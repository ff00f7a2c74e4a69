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

type PackageRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
}

type PackageResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	Description      string    `json:"description"`
	Capacity         int       `json:"capacity"`
	OwnerID          uuid.UUID `json:"owner_id"`
	NumberOfEvents   int       `json:"number_of_events"`
	TicketsSold      int       `json:"tickets_sold"`
	AvailableTickets int       `json:"available_tickets"`
}

func packageResponse(c *gin.Context, pkg models.Package) (PackageResponse, error) {
	accountant := middleware.GetAccountant(c)
	availability, err := accountant.PackageAvailability(c.Request.Context(), pkg.ID)
	if err != nil {
		return PackageResponse{}, err
	}

	var eventCount int64
	middleware.GetDB(c).Model(&models.PackageEvent{}).
		Where("package_id = ?", pkg.ID).
		Count(&eventCount)

	return PackageResponse{
		ID:               pkg.ID,
		Name:             pkg.Name,
		Location:         pkg.Location,
		Description:      pkg.Description,
		Capacity:         pkg.Capacity,
		OwnerID:          pkg.OwnerID,
		NumberOfEvents:   int(eventCount),
		TicketsSold:      availability.Sold,
		AvailableTickets: availability.Display(),
	}, nil
}

func CreatePackage(c *gin.Context) {
	var req PackageRequest
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
	pkg := models.Package{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Capacity:    req.Capacity,
		OwnerID:     principal.SubjectID,
	}

	if err := gormDB.Create(&pkg).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create package.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Package created successfully.",
		"package_id": pkg.ID,
	})
}

func GetPackage(c *gin.Context) {
	gormDB := middleware.GetDB(c)

	var pkg models.Package
	if err := gormDB.Where("id = ?", c.Param("id")).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Package not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving package.")
		return
	}

	resp, err := packageResponse(c, pkg)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing availability.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func ListPackages(c *gin.Context) {
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

	query := gormDB.Model(&models.Package{})
	if name := c.Query("name"); name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}

	var totalCount int64
	query.Count(&totalCount)

	var packages []models.Package
	offset := (pageNum - 1) * limitNum
	if err := query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&packages).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving packages.")
		return
	}

	responses := make([]PackageResponse, 0, len(packages))
	for _, pkg := range packages {
		resp, err := packageResponse(c, pkg)
		if err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing availability.")
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, gin.H{
		"packages":    responses,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func UpdatePackage(c *gin.Context) {
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	principal, _ := middleware.GetPrincipal(c)
	gormDB := middleware.GetDB(c)

	var pkg models.Package
	if err := gormDB.Where("id = ?", c.Param("id")).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Package not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding package.")
		return
	}

	if principal.Role != models.RoleAdmin && pkg.OwnerID != principal.SubjectID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to update this package.")
		return
	}

	pkg.Name = req.Name
	pkg.Location = req.Location
	pkg.Description = req.Description
	pkg.Capacity = req.Capacity

	if err := gormDB.Save(&pkg).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update package.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Package updated successfully.",
		"package": pkg,
	})
}

func DeletePackage(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	gormDB := middleware.GetDB(c)

	var pkg models.Package
	if err := gormDB.Where("id = ?", c.Param("id")).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Package not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding package.")
		return
	}

	if principal.Role != models.RoleAdmin && pkg.OwnerID != principal.SubjectID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this package.")
		return
	}

	if err := gormDB.Delete(&pkg).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete package.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Package deleted successfully."})
}

// LinkEvent adds an event to a package. The pair is unique: linking the same
// event twice is a conflict.
func LinkEvent(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	gormDB := middleware.GetDB(c)

	packageID, err := helpers.ParseID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid package ID.")
		return
	}
	eventID, err := helpers.ParseID(c.Param("eventId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var pkg models.Package
	if err := gormDB.Where("id = ?", packageID).First(&pkg).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Package not found.")
		return
	}

	if principal.Role != models.RoleAdmin && pkg.OwnerID != principal.SubjectID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this package.")
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	var existing models.PackageEvent
	if result := gormDB.Where("package_id = ? AND event_id = ?", packageID, eventID).First(&existing); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "Event is already part of this package.")
		return
	}

	link := models.PackageEvent{PackageID: packageID, EventID: eventID}
	if err := gormDB.Create(&link).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to link event to package.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Event linked to package successfully."})
}

func UnlinkEvent(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	gormDB := middleware.GetDB(c)

	packageID, err := helpers.ParseID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid package ID.")
		return
	}
	eventID, err := helpers.ParseID(c.Param("eventId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var pkg models.Package
	if err := gormDB.Where("id = ?", packageID).First(&pkg).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Package not found.")
		return
	}

	if principal.Role != models.RoleAdmin && pkg.OwnerID != principal.SubjectID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this package.")
		return
	}

	result := gormDB.Where("package_id = ? AND event_id = ?", packageID, eventID).Delete(&models.PackageEvent{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to unlink event.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Event is not part of this package.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event removed from package successfully."})
}
