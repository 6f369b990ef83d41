package services

import (
	"errors"

	"github.com/PrayerLoop/models"
)

var (
	ErrInvalidWeekKey     = models.ErrInvalidWeekKey
	ErrModerationRejected = errors.New("content rejected by moderation")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrOrgNotFound        = errors.New("organization not found")
	ErrPrayerNotFound     = errors.New("prayer not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrUniqueViolation    = errors.New("unique constraint violation")
)

type ValidationError = models.ValidationError

// StorageError wraps a persistence failure. Callers surface a generic
// message; the cause is only logged.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
