package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ErrorKind is the closed set of persistence failures callers can react to.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUniqueViolation
	KindNotFound
	KindForeignKeyViolation
)

func (k ErrorKind) String() string {
	switch k {
	case KindUniqueViolation:
		return "unique_violation"
	case KindNotFound:
		return "not_found"
	case KindForeignKeyViolation:
		return "foreign_key_violation"
	default:
		return "unknown"
	}
}

// Error is returned by every repository method that fails.
type Error struct {
	Kind  ErrorKind
	Op    string
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s on %s: %v", e.Op, e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a repository error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var repoErr *Error
	return errors.As(err, &repoErr) && repoErr.Kind == kind
}

// Constraint and column names mapped to the API field they protect.
var constraintFields = []struct {
	token string
	field string
}{
	{"idx_products_sku", "sku"},
	{"products.sku", "sku"},
	{"idx_categories_name", "name"},
	{"categories.name", "name"},
	{"fk_products_category", "categoryId"},
	{"category_id", "categoryId"},
}

func fieldFromConstraint(s string) string {
	s = strings.ToLower(s)
	for _, c := range constraintFields {
		if strings.Contains(s, c.token) {
			return c.field
		}
	}
	return ""
}

// classify wraps a driver or GORM error into an *Error with its kind.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	out := &Error{Kind: KindUnknown, Op: op, Err: err}

	var (
		pgErr     *pgconn.PgError
		mysqlErr  *mysql.MySQLError
		sqliteErr sqlite3.Error
	)
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case "23505":
			out.Kind = KindUniqueViolation
		case "23503":
			out.Kind = KindForeignKeyViolation
		}
		out.Field = fieldFromConstraint(pgErr.ConstraintName + " " + pgErr.Detail)
	case errors.As(err, &mysqlErr):
		switch mysqlErr.Number {
		case 1062:
			out.Kind = KindUniqueViolation
		case 1451, 1452:
			out.Kind = KindForeignKeyViolation
		}
		out.Field = fieldFromConstraint(mysqlErr.Message)
	case errors.As(err, &sqliteErr):
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			out.Kind = KindUniqueViolation
		case sqlite3.ErrConstraintForeignKey:
			out.Kind = KindForeignKeyViolation
		}
		out.Field = fieldFromConstraint(sqliteErr.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		out.Kind = KindUniqueViolation
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		out.Kind = KindForeignKeyViolation
	case errors.Is(err, gorm.ErrRecordNotFound):
		out.Kind = KindNotFound
	}
	return out
}

func notFound(op, id string) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf("record %s not found", id)}
}
