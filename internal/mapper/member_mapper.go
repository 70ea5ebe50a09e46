package mapper

import (
	"time"

	"wevysya-assistant-be/internal/entity"
	"wevysya-assistant-be/internal/model"
)

type MemberMapper struct{}

func NewMemberMapper() *MemberMapper {
	return &MemberMapper{}
}

func (m *MemberMapper) ToEntity(mm *model.Member) *entity.Member {
	if mm == nil {
		return nil
	}

	var updatedAt *time.Time
	if !mm.UpdatedAt.IsZero() {
		t := mm.UpdatedAt
		updatedAt = &t
	}

	return &entity.Member{
		Id:         mm.Id,
		FullName:   mm.FullName,
		Profession: mm.Profession,
		Location:   mm.Location,
		Firm:       mm.Firm,
		Attributes: mm.Attributes,
		CreatedAt:  mm.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *MemberMapper) ToModel(e *entity.Member) *model.Member {
	if e == nil {
		return nil
	}

	mm := &model.Member{
		Id:         e.Id,
		FullName:   e.FullName,
		Profession: e.Profession,
		Location:   e.Location,
		Firm:       e.Firm,
		Attributes: e.Attributes,
		CreatedAt:  e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		mm.UpdatedAt = *e.UpdatedAt
	}
	return mm
}

func (m *MemberMapper) ToEntities(models []*model.Member) []*entity.Member {
	entities := make([]*entity.Member, len(models))
	for i, mm := range models {
		entities[i] = m.ToEntity(mm)
	}
	return entities
}
