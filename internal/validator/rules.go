package validator

import (
	"log"

	"favorx_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup configuration
			// error; refusing to boot beats silently skipping validation.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-skill-category", validateSkillCategory)
	mustRegister("is-user-role", validateUserRole)
}

func validateSkillCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		// Empty is the 'required' rule's problem, not ours.
		return true
	}
	for _, category := range models.SkillCategories {
		if value == category {
			return true
		}
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case "", models.UserRoleUser, models.UserRoleModerator, models.UserRoleAdmin:
		return true
	}
	return false
}
