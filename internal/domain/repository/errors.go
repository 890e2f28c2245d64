package repository

import "errors"

// Backend-independent persistence errors. Implementations wrap these with %w
// so services can classify failures without importing a driver.
var (
	ErrNotFound            = errors.New("record not found")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)
