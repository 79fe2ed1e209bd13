package contract

import (
	"context"

	"ai-curriculum-be/internal/entity"
	"ai-curriculum-be/internal/repository/specification"

	"github.com/google/uuid"
)

// SessionRepository is the project session history. Append-only from the
// pipeline's perspective: finished sessions are created once and never
// mutated afterwards.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.ProcessingSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProcessingSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcessingSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
