package store

// Document represents a knowledge passage as seen by the retrieval pipeline
type Document struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Source   string  `json:"source"`
	Content  string  `json:"content"`
	Score    float32 `json:"score"`
}

// VoiceSession represents the active assistant session state in memory
type VoiceSession struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	State  string `json:"state"` // IDLE | LISTENING | THINKING | RESPONDING | ERROR

	// Last interaction outcome, surfaced to the client while RESPONDING
	ResponseText string `json:"response_text"`
	ErrorText    string `json:"error_text"`
	LastQuery    string `json:"last_query"`
}

const (
	StateIdle       = "IDLE"
	StateListening  = "LISTENING"
	StateThinking   = "THINKING"
	StateResponding = "RESPONDING"
	StateError      = "ERROR"
)
