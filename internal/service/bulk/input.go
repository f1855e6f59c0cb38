package bulk

import (
	"fmt"

	"github.com/tastemap/tastemap-backend/internal/domain"
)

// ProcessInput holds the parameters for one bulk batch.
type ProcessInput struct {
	Items []domain.BulkItem
}

// Validate checks the batch shape. Per-item problems (blank name, unknown
// type, bad references) are not checked here: they are recovered at the
// item boundary and reported in that item's outcome instead of failing the
// whole request.
func (i *ProcessInput) Validate(maxItems int) error {
	var errs []domain.FieldError

	if len(i.Items) == 0 {
		errs = append(errs, domain.FieldError{Field: "items", Message: "required (at least 1)"})
	} else if maxItems > 0 && len(i.Items) > maxItems {
		errs = append(errs, domain.FieldError{
			Field:   "items",
			Message: fmt.Sprintf("too many (max %d)", maxItems),
		})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
