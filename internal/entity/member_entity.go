package entity

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	Id         uuid.UUID
	FullName   string
	Profession string
	Location   string
	Firm       string
	Attributes map[string]interface{}
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
