package account

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupAccountRoutes mounts /accounts on api behind guards.
func SetupAccountRoutes(api fiber.Router, db *gorm.DB, guards ...fiber.Handler) {
	handler := NewAccountHandler(db)
	group := api.Group("/accounts", guards...)

	group.Get("/", handler.GetAllAccounts)
	group.Post("/", handler.CreateAccount)
	group.Get("/:accountID", handler.GetAccountByID)
	group.Put("/:accountID", handler.UpdateAccount)
	group.Delete("/:accountID", handler.DeleteAccount)
}
