package api

import (
	"errors"
	"fmt"
)

// Kind classifies gateway call failures. The classification happens once at
// the HTTP boundary so callers branch on Kind instead of parsing messages.
type Kind string

const (
	// KindCredentials covers login or registration rejected by the gateway.
	KindCredentials Kind = "credentials"
	// KindExpired covers a 401 on an authenticated call; the session is no
	// longer valid.
	KindExpired Kind = "expired"
	// KindNetwork covers transport failures: the gateway never answered.
	KindNetwork Kind = "network"
	// KindGateway covers non-auth error statuses answered by the gateway.
	KindGateway Kind = "gateway"
	// KindUnknown covers everything else.
	KindUnknown Kind = "unknown"
)

// Error is the failure type for all gateway calls.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("gateway: %s (%s, HTTP %d)", e.Message, e.Kind, e.Status)
	}
	return fmt.Sprintf("gateway: %s (%s)", e.Message, e.Kind)
}

// IsKind reports whether err is a gateway error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Message extracts the user-facing message from a gateway error, or the
// plain error text for anything else.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
