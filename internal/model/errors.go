package model

import (
	"errors"
	"fmt"
)

// Design errors. Every failure raised before geometry generation wraps
// exactly one of these, so callers can classify it with errors.Is.
var (
	// ErrDimension is returned when a physical dimension violates a bound.
	ErrDimension = errors.New("dimension error")

	// ErrMaterial is returned when the material thickness is unusable for
	// the requested box.
	ErrMaterial = errors.New("material error")

	// ErrTab is returned when the tab width is invalid for the thickness or
	// dimensions, or an edge would get no tab divisions at all.
	ErrTab = errors.New("tab error")

	// ErrValidation is returned when the divider or compartment configuration
	// is infeasible.
	ErrValidation = errors.New("validation error")

	// ErrUnsupportedJoin is returned when a split join type other than plain
	// overlap is selected. It is a validation error.
	ErrUnsupportedJoin = fmt.Errorf("%w: join type not implemented", ErrValidation)
)

// Bound names which side of a range a value violated.
type Bound int

const (
	BoundNone Bound = iota
	BoundMin
	BoundMax
)

func (b Bound) String() string {
	switch b {
	case BoundMin:
		return "min"
	case BoundMax:
		return "max"
	default:
		return "none"
	}
}

// FieldError carries enough detail to build a user-facing message: the
// offending field, its value and the bound it violated.
type FieldError struct {
	Kind    error   `json:"-"`
	Field   string  `json:"field"`
	Value   float64 `json:"value"`
	Bound   Bound   `json:"-"`
	Limit   float64 `json:"limit,omitempty"`
	Message string  `json:"message"`
}

func (e *FieldError) Error() string {
	kind := "error"
	if e.Kind != nil {
		kind = e.Kind.Error()
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", kind, e.Message)
	}
	switch e.Bound {
	case BoundMin:
		return fmt.Sprintf("%s: %s (%g) must be at least %g", kind, e.Field, e.Value, e.Limit)
	case BoundMax:
		return fmt.Sprintf("%s: %s (%g) must be no more than %g", kind, e.Field, e.Value, e.Limit)
	default:
		return fmt.Sprintf("%s: invalid %s (%g)", kind, e.Field, e.Value)
	}
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// NewDimensionError reports a dimension outside [min, max].
func NewDimensionError(field string, value float64, bound Bound, limit float64) *FieldError {
	return &FieldError{Kind: ErrDimension, Field: field, Value: value, Bound: bound, Limit: limit}
}

// NewMaterialError reports an unusable thickness.
func NewMaterialError(value float64, format string, args ...any) *FieldError {
	return &FieldError{Kind: ErrMaterial, Field: "thickness", Value: value, Message: fmt.Sprintf(format, args...)}
}

// NewTabError reports an invalid tab configuration.
func NewTabError(value float64, format string, args ...any) *FieldError {
	return &FieldError{Kind: ErrTab, Field: "tab_width", Value: value, Message: fmt.Sprintf(format, args...)}
}

// NewValidationError reports an infeasible divider, compartment or split setup.
func NewValidationError(field string, format string, args ...any) *FieldError {
	return &FieldError{Kind: ErrValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsDesignError checks if the error belongs to the design taxonomy.
//
// Parameters:
//   - err: error to check
//
// Returns:
//   - bool: true if the input was rejected before any geometry was generated
func IsDesignError(err error) bool {
	return errors.Is(err, ErrDimension) ||
		errors.Is(err, ErrMaterial) ||
		errors.Is(err, ErrTab) ||
		errors.Is(err, ErrValidation)
}

// ErrorCode returns the stable code used by the HTTP API for err.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrDimension):
		return "DIMENSION_ERROR"
	case errors.Is(err, ErrMaterial):
		return "MATERIAL_ERROR"
	case errors.Is(err, ErrTab):
		return "TAB_ERROR"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
