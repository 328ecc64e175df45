package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidPartyName = errors.New("invalid party name")
	ErrInvalidPartyCode = errors.New("invalid party code")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrInvalidPage      = errors.New("invalid pagination parameters")
)

// Validation constants
const (
	MaxPartyNameLength = 255
	MinPartyNameLength = 1
	MaxPartyCodeLength = 32
	MaxDocumentAmount  = "1000000000" // 1 billion EGP
	MaxPageSize        = 100
	DefaultPageSize    = 20
)

var partyCodeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidatePartyName validates a party display name.
func ValidatePartyName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinPartyNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPartyName)
	}

	if len(name) > MaxPartyNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidPartyName, MaxPartyNameLength)
	}

	return nil
}

// ValidatePartyCode validates a party short code.
func ValidatePartyCode(code string) error {
	code = strings.TrimSpace(code)

	if code == "" {
		return fmt.Errorf("%w: code cannot be empty", ErrInvalidPartyCode)
	}

	if len(code) > MaxPartyCodeLength {
		return fmt.Errorf("%w: code exceeds %d characters", ErrInvalidPartyCode, MaxPartyCodeLength)
	}

	if !partyCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: code contains forbidden characters", ErrInvalidPartyCode)
	}

	return nil
}

// ValidateAmount validates a document amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	max, _ := decimal.NewFromString(MaxDocumentAmount)
	if amount.GreaterThan(max) {
		return fmt.Errorf("%w: maximum is %s", ErrAmountTooLarge, MaxDocumentAmount)
	}

	return nil
}

// ValidatePagination clamps pagination parameters to allowed bounds.
func ValidatePagination(limit, offset int) (int, int, error) {
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset cannot be negative", ErrInvalidPage)
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return limit, offset, nil
}
