package entity

// CallbackEventType represents the type of callback event
type CallbackEventType string

const (
	CallbackEventTypeFinalResult CallbackEventType = "finalResult"
	CallbackEventTypeError       CallbackEventType = "error"
)

// CallbackEvent represents a callback event
type CallbackEvent struct {
	Event     CallbackEventType `json:"event"`
	Timestamp string            `json:"timestamp"` // ISO-8601 UTC
	Data      any               `json:"data"`
}

// CallbackErrorData represents data for error event
type CallbackErrorData struct {
	Error CallbackErrorDetails `json:"error"`
}

// CallbackErrorDetails contains error information
type CallbackErrorDetails struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details"` // Context like proposal id, stage
}
