package validation

import (
	"strconv"
	"strings"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePagination parses the limit and offset query values. Empty values
// take the defaults.
func (v *Validator) ValidatePagination(limitStr, offsetStr string) (dto.Pagination, domain.ValidationErrors) {
	var errors domain.ValidationErrors
	page := dto.Pagination{Limit: DefaultPageLimit}

	if limit, ok := parseInt(limitStr); !ok {
		errors = append(errors, domain.NewInvalidFormatError("limit", limitStr))
	} else if limitStr != "" {
		if limit < 1 || limit > MaxPageLimit {
			errors = append(errors, domain.NewOutOfRangeError("limit", limit, 1, MaxPageLimit))
		}
		page.Limit = limit
	}

	if offset, ok := parseInt(offsetStr); !ok {
		errors = append(errors, domain.NewInvalidFormatError("offset", offsetStr))
	} else if offset < 0 {
		errors = append(errors, domain.NewOutOfRangeError("offset", offset, 0, "unbounded"))
	} else {
		page.Offset = offset
	}

	return page, errors
}

// ValidateLimit parses an optional top-N limit; 0 means "use the default".
func (v *Validator) ValidateLimit(limitStr string, max int) (int, domain.ValidationErrors) {
	limit, ok := parseInt(limitStr)
	if !ok {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("limit", limitStr)}
	}
	if limitStr != "" && (limit < 1 || limit > max) {
		return 0, domain.ValidationErrors{domain.NewOutOfRangeError("limit", limit, 1, max)}
	}
	return limit, nil
}

// ValidateBool parses an optional boolean flag such as force_retake.
func (v *Validator) ValidateBool(field, value string) (bool, domain.ValidationErrors) {
	if strings.TrimSpace(value) == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, domain.ValidationErrors{domain.NewInvalidFormatError(field, value)}
	}
	return b, nil
}

// parseInt treats an empty string as zero.
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
