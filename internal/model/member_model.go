package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Member struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName   string            `gorm:"type:varchar(255);not null"`
	Profession string            `gorm:"type:varchar(255);index"`
	Location   string            `gorm:"type:varchar(255);index"`
	Firm       string            `gorm:"type:varchar(255)"`
	Attributes datatypes.JSONMap `gorm:"type:jsonb"` // free-form profile fields
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt    `gorm:"index"`
}

func (Member) TableName() string {
	return "members"
}
