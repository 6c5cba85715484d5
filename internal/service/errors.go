package service

import "errors"

// The engine surfaces four error kinds. Specific errors wrap one of
// these so callers can branch with errors.Is and map them to transport
// status codes without string matching.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func notFound(msg string) error   { return &kindError{kind: ErrNotFound, msg: msg} }
func forbidden(msg string) error  { return &kindError{kind: ErrForbidden, msg: msg} }
func validation(msg string) error { return &kindError{kind: ErrValidation, msg: msg} }
func conflict(msg string) error   { return &kindError{kind: ErrConflict, msg: msg} }

var (
	ErrCategoryNotFound = notFound("category not found")
	ErrBoardNotFound    = notFound("board not found")
	ErrThreadNotFound   = notFound("thread not found")
	ErrPostNotFound     = notFound("post not found")
	ErrReportNotFound   = notFound("report not found")
	ErrRevisionNotFound = notFound("revision not found")

	ErrThreadLocked      = forbidden("thread is locked")
	ErrThreadUnpublished = forbidden("thread is not published")
	ErrNotPermitted      = forbidden("actor is not permitted to perform this action")

	ErrTitleRequired        = validation("title must not be empty")
	ErrBodyRequired         = validation("post body must not be empty")
	ErrUnknownReason        = validation("unknown report reason category")
	ErrInvalidEvidenceURL   = validation("evidence url is not a well-formed url")
	ErrInvalidReportStatus  = validation("unknown report status")
	ErrInvalidModeration    = validation("unknown moderation action for target type")
	ErrDuplicatePosition    = conflict("sibling positions are not unique")
	ErrOrderingScopeMingled = conflict("entities belong to different ordering scopes")
)
