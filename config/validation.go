package config

import (
	"errors"
	"fmt"
)

// ValidateConfig checks that everything the server cannot run without is set.
func ValidateConfig(cfg *Config) error {
	var errs []error

	if cfg.DBUser == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if cfg.DBPassword == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required"))
	}
	if cfg.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if IsProduction() && cfg.S3Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET_NAME is required in production"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
