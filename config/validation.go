package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequireJWTSecret  bool
	RequireDBPassword bool
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI:          {RequireJWTSecret: true},
		Production:  {RequireJWTSecret: true, RequireDBPassword: true},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errors []string

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		errors = append(errors, ValidationError{"DB_DRIVER", "must be postgres or sqlite"}.Error())
	}

	if cfg.DBDriver == "postgres" && reqs.RequireDBPassword && cfg.DBPassword == "" {
		errors = append(errors, ValidationError{"DB_PASSWORD", "is required"}.Error())
	}
	if reqs.RequireJWTSecret && cfg.JWTSecret == "" {
		errors = append(errors, ValidationError{"JWT_SECRET", "is required"}.Error())
	}
	if cfg.JWTSecret == "" && !reqs.RequireJWTSecret {
		// development only: tokens signed with this are worthless elsewhere
		cfg.JWTSecret = "insecure-development-secret"
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		errors = append(errors, ValidationError{"PAGE_SIZE", "must be between 1 and 100"}.Error())
	}
	if cfg.RecipeRateLimit < 1 {
		errors = append(errors, ValidationError{"RECIPE_RATE_LIMIT", "must be positive"}.Error())
	}
	if cfg.JWTTTL <= 0 {
		errors = append(errors, ValidationError{"JWT_TTL", "must be positive"}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
