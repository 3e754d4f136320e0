package api

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed call.
type Kind string

const (
	// KindTransport covers network failures and unusable responses.
	KindTransport Kind = "transport"

	// KindValidation is an HTTP 422 rejection of the request payload.
	KindValidation Kind = "validation"

	// KindUnauthenticated is an HTTP 401: missing, expired, or invalid
	// credential. The gateway tears the session down before returning it.
	KindUnauthenticated Kind = "unauthenticated"

	// KindForbidden is an HTTP 403: valid session, insufficient role.
	KindForbidden Kind = "forbidden"

	// KindApp is a backend-signaled business failure: envelope code != 0
	// despite transport success.
	KindApp Kind = "app"
)

// Error is the failure every gateway call returns. The same message has
// already been surfaced through the notifier by the time callers see it.
type Error struct {
	Kind    Kind
	Status  int      // HTTP status, 0 when no response was received
	Code    int      // envelope code, only for KindApp
	Message string
	Details []string // individual 422 validation messages
}

func (e *Error) Error() string {
	if e.Kind == KindApp {
		return fmt.Sprintf("api: %s (code %d)", e.Message, e.Code)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

// KindOf returns the classification of err, or "" for non-gateway errors.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// detailSeparator joins multiple validation messages into one notification.
const detailSeparator = "；"

func joinDetails(details []string) string {
	return strings.Join(details, detailSeparator)
}
