package service

import (
	"errors"

	"habitlog-service/internal/domain/apperr"
)

// storeError wraps an unclassified persistence failure. Errors that already
// carry a kind pass through unchanged.
func storeError(msg string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Wrap(apperr.KindStoreError, msg, err)
}
