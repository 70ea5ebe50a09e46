package contract

import (
	"context"

	"wevysya-assistant-be/internal/entity"
	"wevysya-assistant-be/internal/repository/specification"
)

type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Member, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Search filters the directory with case-insensitive partial matches.
	// Empty filters are skipped.
	Search(ctx context.Context, profession, location string, limit int) ([]*entity.Member, error)
}
