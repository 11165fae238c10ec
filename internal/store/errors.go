package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail is returned when a user with the same email exists.
var ErrDuplicateEmail = errors.New("store: email already registered")

// Unique index names from the migrations.
const (
	postSlugIndex     = "posts_slug_unique"
	categorySlugIndex = "categories_slug_unique"
	userEmailIndex    = "users_email_unique"
)

// isUniqueViolation reports whether err is a unique_violation raised by the
// named index.
func isUniqueViolation(err error, index string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == index
}
