package inventory

import (
	"errors"
	"fmt"

	"github.com/rogerio-castellano/expiry-tracker/internal/validation"
)

var (
	ErrValidation      = validation.ErrValidation
	ErrProductNotFound = errors.New("product not found")
	ErrBatchNotFound   = errors.New("batch not found")
	ErrMissingActor    = fmt.Errorf("%w: actor user id is required", ErrValidation)
)

// ValidationError lists the fields rejected by a mutation.
type ValidationError = validation.Error
