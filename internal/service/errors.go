package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds returned (wrapped) by every service. Controllers map them to
// HTTP statuses.
var (
	ErrNotFound        = errors.New("not found")
	ErrExpired         = errors.New("expired")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrConflict        = errors.New("conflict")
	ErrInvalid         = errors.New("invalid input")
	ErrPaymentRequired = errors.New("payment required")
	ErrUnavailable     = errors.New("service unavailable")
)

// lookupErr turns gorm's record-not-found into ErrNotFound and wraps
// anything else as a storage failure.
func lookupErr(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
