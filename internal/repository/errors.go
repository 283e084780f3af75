package repository

import (
	"errors"

	"series_guide/db/mongodb"
)

// ErrDuplicateKey reports a write rejected by a unique index.
var ErrDuplicateKey = errors.New("duplicate key")

func translateWriteError(err error) error {
	if mongodb.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}
