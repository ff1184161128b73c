package chat

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/dto"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
)

// MaxMessageLength is enforced in runes by the `max` tag on dto.ChatRequest.
const MaxMessageLength = 5000

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// TurnRequest is a validated chat request.
type TurnRequest struct {
	SessionID    uuid.UUID
	Message      string
	IsOnboarding bool
	Location     *Coordinates
}

// ParseBody decodes and validates a raw request body.
func ParseBody(body []byte) (*TurnRequest, error) {
	var raw dto.ChatRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ValidationError{Issues: []FieldIssue{{Field: "body", Message: "must be a valid JSON object"}}}
	}
	return ParseRequest(raw)
}

func ParseRequest(raw dto.ChatRequest) (*TurnRequest, error) {
	if err := validate.Struct(raw); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, &ValidationError{Issues: []FieldIssue{{Field: "body", Message: err.Error()}}}
		}
		issues := make([]FieldIssue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, FieldIssue{Field: fieldPath(fe), Message: issueMessage(fe)})
		}
		return nil, &ValidationError{Issues: issues}
	}

	sessionID, err := uuid.Parse(raw.SessionID)
	if err != nil {
		return nil, &ValidationError{Issues: []FieldIssue{{Field: "sessionId", Message: "must be a valid UUID"}}}
	}

	req := &TurnRequest{
		SessionID: sessionID,
		Message:   raw.Message,
	}
	if raw.IsOnboarding != nil {
		req.IsOnboarding = *raw.IsOnboarding
	}
	if loc := raw.UserLocation; loc != nil {
		req.Location = &Coordinates{Latitude: *loc.Latitude, Longitude: *loc.Longitude}
	}
	return req, nil
}

// fieldPath drops the root struct name: "ChatRequest.userLocation.latitude" -> "userLocation.latitude".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return fe.Field()
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid UUID"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return "is invalid"
	}
}
