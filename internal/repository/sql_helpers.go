package repository

import (
	"errors"

	courier_errors "courier-chat/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// writeError maps driver errors from inserts to the shared error kinds.
func writeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return courier_errors.ErrAlreadyExists
	}
	return err
}

// readError maps a missing row to ErrNotFound.
func readError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return courier_errors.ErrNotFound
	}
	return err
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage fills in defaults and clamps the size to max.
func NewPage(number, size, defaultSize, max int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if max > 0 && size > max {
		size = max
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

func (p Page) Limit() int {
	if p.Size < 1 {
		return -1
	}
	return p.Size
}
