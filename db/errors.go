package db

import "fmt"

// StorageError is a genuine backend failure: a lost connection, a corrupt row, a failed
// write. A missing record is never a StorageError.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
