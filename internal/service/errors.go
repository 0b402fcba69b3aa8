package service

import (
	"errors"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/lc3t35/GlobalHaven/internal/repository"
	"github.com/lc3t35/GlobalHaven/pkg/validate"
)

// Error categories. Handlers map them to HTTP statuses.
var (
	ErrNotFound           = eris.New("not found")
	ErrConflict           = eris.New("conflict")
	ErrInvalidCredentials = eris.New("invalid credentials")
	ErrUnauthorized       = eris.New("unauthorized")
	ErrValidation         = eris.New("validation failed")
	ErrBadRequest         = eris.New("bad request")
)

// Error is a failure the caller is allowed to see. Error() is the detail
// message; errors.Is matches the category.
type Error struct {
	kind   error
	detail string
}

func (e *Error) Error() string { return e.detail }
func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, detail string) error {
	return &Error{kind: kind, detail: detail}
}

func notFound(detail string) error     { return newError(ErrNotFound, detail) }
func invalid(detail string) error      { return newError(ErrValidation, detail) }
func badRequest(detail string) error   { return newError(ErrBadRequest, detail) }
func unauthorized(detail string) error { return newError(ErrUnauthorized, detail) }

// storeError turns a repository not-found into detail and wraps anything else
func storeError(err error, detail, context string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(detail)
	}
	return eris.Wrap(err, context)
}

// problems collects the failures of one request: the struct tag failures
// first, then the checks that need resolved data
type problems []string

func (p *problems) add(err error) {
	*p = append(*p, validate.Messages(err)...)
}

func (p *problems) check(ok bool, msg string) {
	if !ok {
		*p = append(*p, msg)
	}
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return invalid(strings.Join(p, "; "))
}
