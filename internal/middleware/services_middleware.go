package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/raduvm/ticketline/internal/auth"
	"github.com/raduvm/ticketline/internal/inventory"
)

// AuthServicesMiddleware exposes the token codec and the revocation store to
// the login/logout handlers.
func AuthServicesMiddleware(codec *auth.Codec, blacklist auth.Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("auth_codec", codec)
		c.Set("token_blacklist", blacklist)
		c.Next()
	}
}

func GetCodec(c *gin.Context) *auth.Codec {
	value, exists := c.Get("auth_codec")
	if !exists {
		return nil
	}
	return value.(*auth.Codec)
}

func GetBlacklist(c *gin.Context) auth.Blacklist {
	value, exists := c.Get("token_blacklist")
	if !exists {
		return nil
	}
	return value.(auth.Blacklist)
}

// InventoryMiddleware exposes the accounting core to the handlers.
func InventoryMiddleware(accountant *inventory.Accountant, coordinator *inventory.Coordinator, validator *inventory.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("inv_accountant", accountant)
		c.Set("inv_coordinator", coordinator)
		c.Set("inv_validator", validator)
		c.Next()
	}
}

func GetAccountant(c *gin.Context) *inventory.Accountant {
	value, exists := c.Get("inv_accountant")
	if !exists {
		return nil
	}
	return value.(*inventory.Accountant)
}

func GetCoordinator(c *gin.Context) *inventory.Coordinator {
	value, exists := c.Get("inv_coordinator")
	if !exists {
		return nil
	}
	return value.(*inventory.Coordinator)
}

func GetValidator(c *gin.Context) *inventory.Validator {
	value, exists := c.Get("inv_validator")
	if !exists {
		return nil
	}
	return value.(*inventory.Validator)
}
