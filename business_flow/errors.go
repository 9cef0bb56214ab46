// Package businessflow contains the core business logic for estimation workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Validation errors (pre-request, recoverable by correcting input)
	ErrCommuneRequired        = errors.New("commune is required")
	ErrCommuneUnknown         = errors.New("commune is not in the accepted set")
	ErrCategoryRequired       = errors.New("category is required")
	ErrCategoryUnknown        = errors.New("category is not in the accepted set")
	ErrSurfaceTooSmall        = errors.New("surface must be at least 10 m²")
	ErrSurfaceTerrainTooSmall = errors.New("surface terrain must be at least 10 m²")
	ErrTypeBienRequired       = errors.New("type_bien is required for apartments")

	// Protocol errors (external valuation service)
	ErrEstimateUnavailable = errors.New("estimate could not be obtained")

	// Record errors
	ErrEstimationNotFound      = errors.New("estimation not found")
	ErrEstimationAccessDenied  = errors.New("estimation access denied")
	ErrAdjustedPriceOutOfRange = errors.New("adjusted price is outside the allowed bounds")
	ErrUpdateFieldsRequired    = errors.New("at least one field must be provided for update")

	// Photo errors (client asset, rejected before any upload attempt)
	ErrPhotoTypeNotAllowed = errors.New("photo file type is not allowed")
	ErrPhotoTooLarge       = errors.New("photo exceeds the size limit")
	ErrTooManyExtraPhotos  = errors.New("too many supplementary photos")

	// Agent errors
	ErrAgentNotFound = errors.New("agent not found")
	ErrAgentInactive = errors.New("agent account is inactive")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsCommuneRequired(err error) bool {
	return errors.Is(err, ErrCommuneRequired)
}

func IsCommuneUnknown(err error) bool {
	return errors.Is(err, ErrCommuneUnknown)
}

func IsCategoryRequired(err error) bool {
	return errors.Is(err, ErrCategoryRequired)
}

func IsCategoryUnknown(err error) bool {
	return errors.Is(err, ErrCategoryUnknown)
}

func IsSurfaceTooSmall(err error) bool {
	return errors.Is(err, ErrSurfaceTooSmall)
}

func IsSurfaceTerrainTooSmall(err error) bool {
	return errors.Is(err, ErrSurfaceTerrainTooSmall)
}

func IsTypeBienRequired(err error) bool {
	return errors.Is(err, ErrTypeBienRequired)
}

func IsEstimateUnavailable(err error) bool {
	return errors.Is(err, ErrEstimateUnavailable)
}

func IsEstimationNotFound(err error) bool {
	return errors.Is(err, ErrEstimationNotFound)
}

func IsEstimationAccessDenied(err error) bool {
	return errors.Is(err, ErrEstimationAccessDenied)
}

func IsAdjustedPriceOutOfRange(err error) bool {
	return errors.Is(err, ErrAdjustedPriceOutOfRange)
}

func IsUpdateFieldsRequired(err error) bool {
	return errors.Is(err, ErrUpdateFieldsRequired)
}

func IsPhotoTypeNotAllowed(err error) bool {
	return errors.Is(err, ErrPhotoTypeNotAllowed)
}

func IsPhotoTooLarge(err error) bool {
	return errors.Is(err, ErrPhotoTooLarge)
}

func IsTooManyExtraPhotos(err error) bool {
	return errors.Is(err, ErrTooManyExtraPhotos)
}

func IsAgentNotFound(err error) bool {
	return errors.Is(err, ErrAgentNotFound)
}

func IsAgentInactive(err error) bool {
	return errors.Is(err, ErrAgentInactive)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
