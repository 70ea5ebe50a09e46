package store

// Member is a directory entry as exposed to the assistant action layer
type Member struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Profession string `json:"profession"`
	Location   string `json:"location"`
	Firm       string `json:"firm,omitempty"`
}
