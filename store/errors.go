package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate key violation")
	ErrForeignKey = errors.New("foreign key violation")
)

// Error records the store operation and table behind a failure.
type Error struct {
	Op    string
	Table string
	Err   error
}

func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("store: %s", e.Op)}
	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("table=%s", e.Table))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// translate maps gorm errors (already dialect-translated when the DB was
// opened with TranslateError) onto the store sentinels.
func translate(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		err = ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		err = ErrForeignKey
	}
	return &Error{Op: op, Table: table, Err: err}
}
