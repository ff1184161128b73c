package chat

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("session does not belong to user")
	ErrTrialExpired         = errors.New("trial period expired")
	ErrQuotaExceeded        = errors.New("daily message limit reached")
	ErrInternal             = errors.New("internal error")
	ErrModelRateLimited     = errors.New("model provider rate limited")
	ErrModelPaymentRequired = errors.New("model provider requires payment")
	ErrModelInvocation      = errors.New("model invocation failed")

	// ErrNotFound is returned by Store lookups that match no row.
	ErrNotFound = errors.New("record not found")
)

type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a request before any store is touched.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+" "+issue.Message)
	}
	return fmt.Sprintf("invalid input: %s", strings.Join(parts, "; "))
}

func internalErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
