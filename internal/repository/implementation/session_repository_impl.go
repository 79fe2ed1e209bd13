package implementation

import (
	"context"
	"errors"

	"ai-curriculum-be/internal/entity"
	"ai-curriculum-be/internal/mapper"
	"ai-curriculum-be/internal/model"
	"ai-curriculum-be/internal/repository/contract"
	"ai-curriculum-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.ProcessingSession) error {
	m := r.mapper.ToModel(session)
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProcessingSession{}, id).Error
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProcessingSession, error) {
	var m model.ProcessingSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcessingSession, error) {
	var ms []model.ProcessingSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.ProcessingSession, 0, len(ms))
	for i := range ms {
		out = append(out, r.mapper.ToEntity(&ms[i]))
	}
	return out, nil
}

func (r *SessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ProcessingSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
