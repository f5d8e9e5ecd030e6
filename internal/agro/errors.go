package agro

import (
	"fmt"

	"github.com/Dhieaaldin/backend/internal/model/entities"
)

// ValidationError reports a malformed or out-of-range observation field.
// No partial object is ever returned alongside it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UnknownCropError reports a crop type with no coefficient table entry.
type UnknownCropError struct {
	Crop entities.CropType
}

func (e *UnknownCropError) Error() string {
	return fmt.Sprintf("unknown crop type %q", e.Crop)
}

// ComputationError reports a missing or physically impossible model
// parameter. Weather-field problems never surface as this, they are
// caught earlier by validation.
type ComputationError struct {
	Param  string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("cannot compute: %s %s", e.Param, e.Reason)
}
