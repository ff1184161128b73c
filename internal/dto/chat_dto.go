package dto

// ChatRequest is the raw body of POST /api/p/chat.
type ChatRequest struct {
	SessionID    string    `json:"sessionId" validate:"required,uuid"`
	Message      string    `json:"message" validate:"required,max=5000"`
	IsOnboarding *bool     `json:"isOnboarding"`
	UserLocation *Location `json:"userLocation"`
}

type Location struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

type CreateSessionResponse struct {
	ID string `json:"id"`
}
