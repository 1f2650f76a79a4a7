package service

import (
	"errors"
	"fmt"
	"strings"

	"b2gmatch/internal/model"
)

var (
	// ErrInvalidProfile is returned when a contractor profile cannot be scored.
	ErrInvalidProfile = errors.New("invalid contractor profile")

	// ErrFetchOpportunities is returned when the opportunity pool is unavailable.
	ErrFetchOpportunities = errors.New("failed to fetch opportunities")
)

// ValidationError describes a rejected contractor profile field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidProfile, e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidProfile
func (e *ValidationError) Unwrap() error {
	return ErrInvalidProfile
}

// ValidateProfile checks the fields the fitting engine depends on
func ValidateProfile(profile *model.ContractorProfile) error {
	if profile == nil {
		return &ValidationError{Field: "profile", Message: "is required"}
	}
	if strings.TrimSpace(profile.PrimaryNAICS) == "" {
		return &ValidationError{Field: "primary_naics", Message: "is required"}
	}
	return nil
}
