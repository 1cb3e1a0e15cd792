package userValidator

import (
	"strings"

	"schoolms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// UpdateProfileRequest carries profile edits; zero values leave fields untouched.
// Email and role are fixed at signup and not editable here.
type UpdateProfileRequest struct {
	Name   string `json:"name" validate:"omitempty,min=3"`
	Mobile string `json:"mobile" validate:"omitempty,len=10,numeric"`
	Trade  string `json:"trade"`
	Level  string `json:"level" validate:"omitempty,oneof=LEVEL_1 LEVEL_2 LEVEL_3"`
}

func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			errors[strings.ToLower(ve.Field())] = "Invalid value for " + ve.Field() + " (" + ve.Tag() + ")"
		}
	} else {
		errors["body"] = err.Error()
	}
	return errors
}

// UpdateProfile validates the profile update request
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Trade = strings.TrimSpace(reqData.Trade)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
