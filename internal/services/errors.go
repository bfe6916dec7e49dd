// Package services holds the business rules of the legal-services backend:
// accounts and login portals, case submissions, representations, the case
// chat, the virtual court, the AI legal assistant and the admin console.
//
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
// Translation into HTTP status codes is performed by the handler layer.
package services

import "errors"

// Authorization and validation errors.
var (
	// ErrUnauthorized is returned when the actor lacks the role or the
	// relationship required for an action.
	ErrUnauthorized = errors.New("not authorized")

	// ErrForbidden is returned for actions nobody may perform, such as
	// blocking an administrator.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation wraps input validation failures; the message carries the
	// field errors.
	ErrValidation = errors.New("validation failed")
)

// Account errors.
var (
	// ErrInvalidCredentials covers unknown emails, wrong passwords and a
	// portal that does not match the account's role.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled is returned for a blocked account whose password
	// matched.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrEmailTaken is returned when registering an email twice.
	ErrEmailTaken = errors.New("email already registered")

	// ErrAccountNotFound indicates an unknown account id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrLawyerNotFound is returned when a representation targets an account
	// that is not an active lawyer.
	ErrLawyerNotFound = errors.New("lawyer not found")
)

// Case and representation errors.
var (
	ErrCaseNotFound           = errors.New("case not found")
	ErrRepresentationNotFound = errors.New("representation not found")

	// ErrAlreadyReviewed is returned when re-analyzing a reviewed case.
	ErrAlreadyReviewed = errors.New("case already analyzed")

	// ErrInvalidTransition is returned when a representation is not Pending
	// or the requested status is not Accepted/Rejected.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotAccepted is returned when forwarding into a representation that
	// the lawyer has not accepted.
	ErrNotAccepted = errors.New("representation not accepted")
)

// Case chat and court errors.
var (
	// ErrEmptyMessage is returned when a chat post has neither text nor file.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrFileNotFound is returned when a message or case has no attachment.
	ErrFileNotFound = errors.New("file not found")

	// ErrEmptyArgument is returned for a blank court argument.
	ErrEmptyArgument = errors.New("argument is empty")

	// ErrNoForwardedCase is returned by LoadFromChat when the chat holds no
	// forwarded case packet.
	ErrNoForwardedCase = errors.New("no forwarded case found")

	// ErrNoLogs is returned when compiling a transcript of an empty debate.
	ErrNoLogs = errors.New("no debate logs")
)

// Assistant chat errors.
var (
	// ErrChatNotFound indicates that the requested chat does not exist or is not
	// accessible to the current user.
	ErrChatNotFound = errors.New("chat not found")

	// ErrEmptyPrompt is returned when a request to create a message contains
	// an empty prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrTooLong is returned when a request to create a message exceeds the
	// maximum configured length limit.
	ErrTooLong = errors.New("prompt too long")

	// ErrInvalidFeedback is returned when a feedback value is outside the
	// allowed set (currently -1 or 1).
	ErrInvalidFeedback = errors.New("feedback value must be -1 or 1")

	// ErrMessageNotFound indicates that the requested message does not exist
	// or is not accessible to the current user.
	ErrMessageNotFound = errors.New("message not found")

	// ErrForbiddenFeedback is returned when a user attempts to leave feedback
	// on a message they are not permitted to rate.
	ErrForbiddenFeedback = errors.New("cannot leave feedback on this message")

	// ErrDuplicateFeedback is returned when a user attempts to leave feedback
	// on a message that they have already rated.
	ErrDuplicateFeedback = errors.New("feedback already exists")
)
