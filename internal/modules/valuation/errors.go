package valuation

import (
	"fmt"

	"github.com/thiaworld/buyback-go/internal/modules/rates"
)

// ValidationError reports an invalid request field. Surfaced inline against
// the named field, never fatal.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RateUnavailableError reports that no positive cached rate exists for the
// requested metal. Calculation is blocked until a refresh succeeds.
type RateUnavailableError struct {
	Metal rates.Metal
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("the %s rate is not available, please try again later", e.Metal.Label())
}
