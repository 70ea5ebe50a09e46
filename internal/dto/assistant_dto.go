package dto

type ClassifyIntentRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
}

type ActionDTO struct {
	Name       string            `json:"name"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Screen     string            `json:"screen,omitempty"`
}

type ClassifyIntentResponse struct {
	Type       string     `json:"type"`
	Category   string     `json:"category"`
	Action     *ActionDTO `json:"action,omitempty"`
	Response   string     `json:"response"`
	Confidence float64    `json:"confidence"`
}

type ExecuteActionRequest struct {
	Category   string            `json:"category" validate:"required"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

type MemberDTO struct {
	Id         string `json:"id"`
	FullName   string `json:"full_name"`
	Profession string `json:"profession,omitempty"`
	Location   string `json:"location,omitempty"`
	Firm       string `json:"firm,omitempty"`
}

type ExecuteActionResponse struct {
	Success    bool        `json:"success"`
	NoOp       bool        `json:"no_op,omitempty"`
	Navigation bool        `json:"navigation,omitempty"`
	Screen     string      `json:"screen,omitempty"`
	Members    []MemberDTO `json:"members,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type VoiceToggleRequest struct {
	UserId string `json:"user_id" validate:"required"`
}

type VoiceTextRequest struct {
	UserId string `json:"user_id" validate:"required"`
	Text   string `json:"text"`
}

type VoiceSessionResponse struct {
	SessionId    string `json:"session_id"`
	State        string `json:"state"`
	ResponseText string `json:"response_text,omitempty"`
	ErrorText    string `json:"error_text,omitempty"`
	LastQuery    string `json:"last_query,omitempty"`
}

type ActionCatalogEntry struct {
	Category    string `json:"category"`
	Screen      string `json:"screen"`
	Description string `json:"description"`
}

type ListActionsResponse struct {
	Actions []ActionCatalogEntry `json:"actions"`
}
