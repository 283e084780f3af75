package service

import (
	"errors"

	"series_guide/pkg/response"
)

// Error kinds returned by services. Handlers map them to status codes;
// driver errors never cross this boundary.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New(response.ServerError)
)

// Error carries a client-facing message under one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrInvalidCredentials = newError(ErrUnauthorized, response.UserPassNotMatch)
	ErrInvalidSession     = newError(ErrUnauthorized, response.InvalidSession)
	ErrAdminOnly          = newError(ErrForbidden, response.AdminOnly)
	ErrUseAdminPanel      = newError(ErrForbidden, response.AdminUseAdminPanel)
	ErrAccountDisabled    = newError(ErrForbidden, response.AccountDisabled)
	ErrRegistrationClosed = newError(ErrForbidden, response.RegistrationClosed)
	ErrNotOwner           = newError(ErrForbidden, response.NotOwner)
	ErrSelfModification   = newError(ErrForbidden, response.CantChangeOwnRole)

	ErrUsernameTaken = newError(ErrConflict, response.UsernameAlreadyExist)
	ErrEmailTaken    = newError(ErrConflict, response.EmailAlreadyExist)
	ErrSlugTaken     = newError(ErrConflict, response.SlugAlreadyExist)

	ErrUserNotFound     = newError(ErrNotFound, response.UserNotFound)
	ErrSerieNotFound    = newError(ErrNotFound, response.SerieNotFound)
	ErrAnalysisNotFound = newError(ErrNotFound, response.AnalysisNotFound)
	ErrRatingNotFound   = newError(ErrNotFound, response.RatingNotFound)
	ErrCommentNotFound  = newError(ErrNotFound, response.CommentNotFound)
	ErrMessageNotFound  = newError(ErrNotFound, response.MessageNotFound)
	ErrPostNotFound     = newError(ErrNotFound, response.PostNotFound)

	ErrInvalidId       = newError(ErrInvalidInput, response.InvalidId)
	ErrInvalidAction   = newError(ErrInvalidInput, response.InvalidAction)
	ErrInvalidRating   = newError(ErrInvalidInput, response.InvalidRating)
	ErrMissingSlug     = newError(ErrInvalidInput, response.MissingSlug)
	ErrTooManySlugs    = newError(ErrInvalidInput, response.TooManySlugs)
	ErrContentTooLong  = newError(ErrInvalidInput, response.ContentTooLong)
	ErrEmptyContent    = newError(ErrInvalidInput, response.EmptyContent)
	ErrInvalidParent   = newError(ErrInvalidInput, response.InvalidParent)
	ErrInvalidCategory = newError(ErrInvalidInput, response.InvalidCategory)
	ErrInvalidEmail    = newError(ErrInvalidInput, response.InvalidEmail)
	ErrNotEditable     = newError(ErrInvalidInput, response.NotEditable)
)

// WeakPasswordError lists the unmet strength rules.
func WeakPasswordError(problems []string) *Error {
	msg := response.WeakPassword
	for i, p := range problems {
		if i == 0 {
			msg += ": " + p
		} else {
			msg += ", " + p
		}
	}
	return newError(ErrInvalidInput, msg)
}
