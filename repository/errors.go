package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrEditConflict    = errors.New("edit conflict")
	ErrDuplicateRecord = errors.New("duplicate record")
	// ErrTransientConflict marks failures that may succeed if the transaction is run again.
	ErrTransientConflict = errors.New("transient transaction conflict")
)

// Postgres error codes the repository reacts to.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == codeUniqueViolation
}

// classify wraps serialization failures and deadlocks in ErrTransientConflict
// and returns every other error unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch pqCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %v", ErrTransientConflict, err)
	}
	return err
}
