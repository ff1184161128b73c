package chat

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBodyValid(t *testing.T) {
	id := uuid.New()
	req, err := ParseBody([]byte(`{"sessionId":"` + id.String() + `","message":"hi","isOnboarding":true,"userLocation":{"latitude":30.27,"longitude":-97.74}}`))
	require.NoError(t, err)

	assert.Equal(t, id, req.SessionID)
	assert.Equal(t, "hi", req.Message)
	assert.True(t, req.IsOnboarding)
	require.NotNil(t, req.Location)
	assert.InDelta(t, 30.27, req.Location.Latitude, 1e-9)
	assert.InDelta(t, -97.74, req.Location.Longitude, 1e-9)
}

func TestParseBodyNullLocation(t *testing.T) {
	req, err := ParseBody([]byte(`{"sessionId":"` + uuid.NewString() + `","message":"hi","userLocation":null}`))
	require.NoError(t, err)
	assert.Nil(t, req.Location)
	assert.False(t, req.IsOnboarding)
}

func TestParseBodyRejects(t *testing.T) {
	sid := uuid.NewString()
	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"not json", `{"sessionId":`, "body", "must be a valid JSON object"},
		{"missing session", `{"message":"hi"}`, "sessionId", "is required"},
		{"bad session", `{"sessionId":"abc","message":"hi"}`, "sessionId", "must be a valid UUID"},
		{"empty message", `{"sessionId":"` + sid + `","message":""}`, "message", "is required"},
		{"long message", `{"sessionId":"` + sid + `","message":"` + strings.Repeat("a", MaxMessageLength+1) + `"}`, "message", "must be at most 5000 characters"},
		{"latitude range", `{"sessionId":"` + sid + `","message":"hi","userLocation":{"latitude":91,"longitude":0}}`, "userLocation.latitude", "must be at most 90"},
		{"longitude missing", `{"sessionId":"` + sid + `","message":"hi","userLocation":{"latitude":10}}`, "userLocation.longitude", "is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBody([]byte(tt.body))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Issues, 1)
			assert.Equal(t, tt.field, verr.Issues[0].Field)
			assert.Equal(t, tt.msg, verr.Issues[0].Message)
		})
	}
}

func TestParseBodyMessageLimitCountsCharacters(t *testing.T) {
	msg := strings.Repeat("💍", MaxMessageLength)
	_, err := ParseBody([]byte(`{"sessionId":"` + uuid.NewString() + `","message":"` + msg + `"}`))
	assert.NoError(t, err)
}
