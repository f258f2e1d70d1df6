package services

import (
	"errors"

	"projectdesk/internal/domain"
	"projectdesk/internal/metrics"
	"projectdesk/internal/utils"
)

// classify rethrows client-caused errors unchanged and wraps everything else
// in a DatabaseError after logging it.
func classify(requestID, module, op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsValidation(err) || domain.IsUnauthorized(err) {
		return err
	}
	utils.LogFailure(requestID, module, op, err)
	metrics.IncrementServiceError(module, op)
	return domain.DatabaseError{Op: op, Err: err}
}

// classifyWrite additionally maps duplicate keys and vanished rows to ValidationErrors.
func classifyWrite(requestID, module, op, entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case domain.IsValidation(err):
		return err
	case errors.Is(err, domain.ErrDuplicate):
		return domain.ValidationError{Field: "name", Msg: "a " + entity + " with this name already exists", Err: domain.ErrDuplicate}
	case errors.Is(err, domain.ErrNotFound):
		return domain.NotFound(entity + " not found")
	}
	return classify(requestID, module, op, err)
}
