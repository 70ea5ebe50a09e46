package specification

import "gorm.io/gorm"

// ByTitleAndCategory is the upsert identity of a knowledge document
type ByTitleAndCategory struct {
	Title    string
	Category string
}

func (s ByTitleAndCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title = ? AND category = ?", s.Title, s.Category)
}

// ByCategory filters documents by topic tag
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}
