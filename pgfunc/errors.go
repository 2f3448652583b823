package pgfunc

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jongio/parseurl/urlpack"
	"github.com/jongio/parseurl/urlparse"
)

// SQLSTATE codes reported by the binding.
const (
	CodeInvalidTextRepresentation = "22P02"
	CodeFeatureNotSupported       = "0A000"
	CodeDataCorrupted             = "XX001"
	CodeInternalError             = "XX000"
)

// MsgInvalidPart is the message reported for an unknown key name.
const MsgInvalidPart = "Invalid part name of url"

// toPgError converts errors from the parsing packages into the
// *pgconn.PgError a SQL caller would observe. Nil stays nil.
func toPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}

	var parseErr *urlparse.ParseError
	switch {
	case errors.As(err, &parseErr):
		return &pgconn.PgError{
			Severity: "ERROR",
			Code:     CodeInvalidTextRepresentation,
			Message:  `invalid input syntax for type url: "` + parseErr.Input + `"`,
			Detail:   parseErr.Reason,
		}
	case errors.Is(err, urlparse.ErrUnknownKey):
		return &pgconn.PgError{
			Severity: "ERROR",
			Code:     CodeFeatureNotSupported,
			Message:  MsgInvalidPart,
			Hint:     "Valid parts are: " + strings.Join(urlparse.Keys(), ", ") + ".",
		}
	case errors.Is(err, urlpack.ErrCorrupt), errors.Is(err, ErrBadDatum):
		return &pgconn.PgError{
			Severity: "ERROR",
			Code:     CodeDataCorrupted,
			Message:  "invalid url datum",
			Detail:   err.Error(),
		}
	default:
		return &pgconn.PgError{
			Severity: "ERROR",
			Code:     CodeInternalError,
			Message:  err.Error(),
		}
	}
}

// SQLState returns the SQLSTATE of err, or "" when err is not a
// *pgconn.PgError.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
