// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via fail and failErr). Clients branch on the code; the message
// is for humans.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "invalid_transition",
//	  "message": "representation is not pending"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/vishnudev3154/Judex-AI/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeTooLarge         = "payload_too_large"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeValidation       = "validation_failed"
	ErrCodeUnavailable      = "service_unavailable"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Accounts:
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeAccountDisabled    = "account_disabled"
	ErrCodeEmailTaken         = "email_taken"
	ErrCodeLawyerNotFound     = "lawyer_not_found"

	// Cases, representations, chat and court:
	ErrCodeAlreadyReviewed   = "already_reviewed"
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeNotAccepted       = "not_accepted"
	ErrCodeEmptyMessage      = "empty_message"
	ErrCodeFileNotFound      = "file_not_found"
	ErrCodeEmptyArgument     = "empty_argument"
	ErrCodeNoForwardedCase   = "no_forwarded_case"
	ErrCodeNoLogs            = "no_logs"

	// Assistant:
	ErrCodeAnswerFailed = "answer_failed"
	ErrCodeCreateFailed = "create_failed"
	ErrCodeListFailed   = "list_failed"
)

// apiError is the HTTP rendering of a service error.
type apiError struct {
	status int
	code   string
	msg    string
}

// serviceErrors maps service sentinels to responses. Order matters only for
// wrapped chains, which errors.Is walks; ErrValidation keeps the wrapped
// field detail as its message.
var serviceErrors = []struct {
	err error
	api apiError
}{
	{services.ErrValidation, apiError{http.StatusBadRequest, ErrCodeValidation, ""}},
	{services.ErrUnauthorized, apiError{http.StatusForbidden, ErrCodeForbidden, "not allowed"}},
	{services.ErrForbidden, apiError{http.StatusForbidden, ErrCodeForbidden, "not allowed"}},

	{services.ErrInvalidCredentials, apiError{http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password"}},
	{services.ErrAccountDisabled, apiError{http.StatusForbidden, ErrCodeAccountDisabled, "account is disabled"}},
	{services.ErrEmailTaken, apiError{http.StatusConflict, ErrCodeEmailTaken, "email already registered"}},
	{services.ErrAccountNotFound, apiError{http.StatusNotFound, ErrCodeNotFound, "account not found"}},
	{services.ErrLawyerNotFound, apiError{http.StatusNotFound, ErrCodeLawyerNotFound, "lawyer not found"}},

	{services.ErrCaseNotFound, apiError{http.StatusNotFound, ErrCodeNotFound, "case not found"}},
	{services.ErrRepresentationNotFound, apiError{http.StatusNotFound, ErrCodeNotFound, "representation not found"}},
	{services.ErrAlreadyReviewed, apiError{http.StatusConflict, ErrCodeAlreadyReviewed, "case already analyzed"}},
	{services.ErrInvalidTransition, apiError{http.StatusConflict, ErrCodeInvalidTransition, "representation is not pending"}},
	{services.ErrNotAccepted, apiError{http.StatusConflict, ErrCodeNotAccepted, "representation not accepted"}},

	{services.ErrEmptyMessage, apiError{http.StatusBadRequest, ErrCodeEmptyMessage, "message needs text or a file"}},
	{services.ErrFileNotFound, apiError{http.StatusNotFound, ErrCodeFileNotFound, "file not found"}},
	{services.ErrEmptyArgument, apiError{http.StatusBadRequest, ErrCodeEmptyArgument, "argument required"}},
	{services.ErrNoForwardedCase, apiError{http.StatusNotFound, ErrCodeNoForwardedCase, "no forwarded case in this chat"}},
	{services.ErrNoLogs, apiError{http.StatusConflict, ErrCodeNoLogs, "no arguments to compile"}},

	{services.ErrChatNotFound, apiError{http.StatusNotFound, ErrCodeNotFound, "chat not found"}},
	{services.ErrEmptyPrompt, apiError{http.StatusBadRequest, ErrCodeBadRequest, "content required"}},
	{services.ErrTooLong, apiError{http.StatusBadRequest, ErrCodeBadRequest, "content too long"}},
	{services.ErrInvalidFeedback, apiError{http.StatusBadRequest, ErrCodeBadRequest, "value must be -1 or 1"}},
	{services.ErrMessageNotFound, apiError{http.StatusNotFound, ErrCodeNotFound, "message not found"}},
	{services.ErrForbiddenFeedback, apiError{http.StatusForbidden, ErrCodeForbidden, "cannot leave feedback on this message"}},
	{services.ErrDuplicateFeedback, apiError{http.StatusConflict, ErrCodeConflict, "feedback already exists"}},

	{errUploadTooLarge, apiError{http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "file too large"}},
}

// classify returns the response for err. Unknown errors become a 500 with
// fallbackCode and a generic message, so internals never leak.
func classify(err error, fallbackCode string) apiError {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			a := m.api
			if a.msg == "" {
				a.msg = err.Error()
			}
			return a
		}
	}
	return apiError{http.StatusInternalServerError, fallbackCode, "internal error"}
}
