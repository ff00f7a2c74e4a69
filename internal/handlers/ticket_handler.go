package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/raduvm/ticketline/internal/helpers"
	"github.com/raduvm/ticketline/internal/inventory"
	"github.com/raduvm/ticketline/internal/middleware"
	"github.com/raduvm/ticketline/internal/models"
)

type ValidateTicketRequest struct {
	Code string `json:"code" binding:"required"`
}

type TicketResponse struct {
	Code       string              `json:"code"`
	Type       string              `json:"type"`
	Status     models.TicketStatus `json:"status"`
	EventID    *uuid.UUID          `json:"event_id,omitempty"`
	PackageID  *uuid.UUID          `json:"package_id,omitempty"`
	OwnerEmail string              `json:"owner_email"`
}

func ticketResponse(ticket models.Ticket) TicketResponse {
	return TicketResponse{
		Code:       ticket.Code,
		Type:       ticket.Type,
		Status:     ticket.Status,
		EventID:    ticket.EventID,
		PackageID:  ticket.PackageID,
		OwnerEmail: ticket.OwnerEmail,
	}
}

// buyerEmail resolves whose name the ticket goes under. An admin may buy on
// behalf of any email via the query parameter; a client only for themselves.
func buyerEmail(c *gin.Context) (string, bool) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context.")
		return "", false
	}

	email := c.Query("email")
	if email == "" || email == principal.Email {
		return principal.Email, true
	}
	if principal.Role != models.RoleAdmin {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only buy tickets for yourself.")
		return "", false
	}
	return email, true
}

func respondPurchaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrEventNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
	case errors.Is(err, inventory.ErrPackageNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Package not found.")
	case errors.Is(err, inventory.ErrNoCapacity):
		helpers.RespondWithError(c, http.StatusConflict, "No seats remain.")
	case errors.Is(err, inventory.ErrBusy):
		helpers.RespondWithError(c, http.StatusServiceUnavailable, "Too much contention, please retry.")
	default:
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to complete purchase.")
	}
}

func BuyEventTicket(c *gin.Context) {
	eventID, err := helpers.ParseID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	email, ok := buyerEmail(c)
	if !ok {
		return
	}

	coordinator := middleware.GetCoordinator(c)
	ticket, err := coordinator.PurchaseEventTicket(c.Request.Context(), eventID, email)
	if err != nil {
		respondPurchaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Ticket purchased successfully.",
		"ticket":  ticketResponse(ticket),
	})
}

func BuyPackageTicket(c *gin.Context) {
	packageID, err := helpers.ParseID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid package ID.")
		return
	}

	email, ok := buyerEmail(c)
	if !ok {
		return
	}

	coordinator := middleware.GetCoordinator(c)
	ticket, err := coordinator.PurchasePackageTicket(c.Request.Context(), packageID, email)
	if err != nil {
		respondPurchaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Ticket purchased successfully.",
		"ticket":  ticketResponse(ticket),
	})
}

func ListMyTickets(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context.")
		return
	}

	email := principal.Email
	if override := c.Query("email"); override != "" && principal.Role == models.RoleAdmin {
		email = override
	}

	var tickets []models.Ticket
	gormDB := middleware.GetDB(c)
	if err := gormDB.Where("owner_email = ?", email).Order("created_at DESC").Find(&tickets).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tickets.")
		return
	}

	responses := make([]TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		responses = append(responses, ticketResponse(ticket))
	}
	c.JSON(http.StatusOK, gin.H{"tickets": responses})
}

func ValidateTicket(c *gin.Context) {
	var req ValidateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context.")
		return
	}

	validator := middleware.GetValidator(c)

	// Clients may only validate their own tickets; staff roles any.
	if principal.Role == models.RoleClient {
		var ticket models.Ticket
		gormDB := middleware.GetDB(c)
		if err := gormDB.Where("code = ?", req.Code).First(&ticket).Error; err != nil {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		if ticket.OwnerEmail != principal.Email {
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to validate this ticket.")
			return
		}
	}

	ticket, err := validator.Validate(c.Request.Context(), req.Code)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket validated successfully.",
		"ticket":  ticketResponse(ticket),
	})
}

func ConsumeTicket(c *gin.Context) {
	var req ValidateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	validator := middleware.GetValidator(c)
	ticket, err := validator.Consume(c.Request.Context(), req.Code)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket consumed successfully.",
		"ticket":  ticketResponse(ticket),
	})
}

func respondValidationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrTicketNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
	case errors.Is(err, inventory.ErrAlreadyValidated):
		helpers.RespondWithError(c, http.StatusConflict, "Ticket already validated.")
	case errors.Is(err, inventory.ErrAlreadyConsumed):
		helpers.RespondWithError(c, http.StatusConflict, "Ticket already consumed.")
	case errors.Is(err, inventory.ErrNotValidated):
		helpers.RespondWithError(c, http.StatusConflict, "Ticket has not been validated yet.")
	default:
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to process ticket.")
	}
}

func DeleteTicket(c *gin.Context) {
	validator := middleware.GetValidator(c)
	if err := validator.Delete(c.Request.Context(), c.Param("code")); err != nil {
		if errors.Is(err, inventory.ErrTicketNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket deleted successfully."})
}

func ticketQRData(ticket models.Ticket) string {
	secretKey := os.Getenv("JWT_SECRET")
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(ticket.Code + ":" + ticket.OwnerEmail))
	signature := hex.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("ticket:%s;owner:%s;signature:%s", ticket.Code, ticket.OwnerEmail, signature)
}

// GenerateTicketQR renders the ticket's signed check-in payload as a PNG.
func GenerateTicketQR(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context.")
		return
	}

	var ticket models.Ticket
	gormDB := middleware.GetDB(c)
	if err := gormDB.Where("code = ?", c.Param("code")).First(&ticket).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
		return
	}

	if principal.Role != models.RoleAdmin && ticket.OwnerEmail != principal.Email {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this ticket.")
		return
	}

	qrImage, err := qrcode.Encode(ticketQRData(ticket), qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}
