package userRoutes

import (
	userController "schoolms/controllers/userControllers"
	"schoolms/middleware"
	userValidator "schoolms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userController.GetProfile)
	userGroup.Put("/profile", middleware.JWTMiddleware, userValidator.UpdateProfile(), userController.UpdateProfile)
	userGroup.Get("/logins", middleware.JWTMiddleware, userController.LoginHistory)
}
