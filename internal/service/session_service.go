package service

import (
	"context"

	"ai-curriculum-be/internal/dto"
	"ai-curriculum-be/internal/entity"
	"ai-curriculum-be/internal/pkg/serverutils"
	"ai-curriculum-be/internal/repository/contract"
	"ai-curriculum-be/internal/repository/specification"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ISessionService reads and prunes archived session history. Live sessions
// never show up here; they exist only inside the in-memory index until the
// archiver moves them over.
type ISessionService interface {
	GetAll(ctx context.Context, projectId uuid.UUID) ([]*dto.SessionSummaryResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowSessionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionService struct {
	sessionRepo contract.SessionRepository
}

func NewSessionService(sessionRepo contract.SessionRepository) ISessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
	}
}

func (c *sessionService) GetAll(ctx context.Context, projectId uuid.UUID) ([]*dto.SessionSummaryResponse, error) {
	specs := []specification.Specification{specification.NewestFirst{}}
	if projectId != uuid.Nil {
		specs = append(specs, specification.ByProjectID{ProjectID: projectId})
	}

	sessions, err := c.sessionRepo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, toSummary(session))
	}
	return result, nil
}

func (c *sessionService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowSessionResponse, error) {
	session, err := c.sessionRepo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewAppError(fiber.StatusNotFound, "session not found")
	}

	entries := make([]*dto.SessionLogEntryResponse, 0, len(session.Entries))
	for _, entry := range session.Entries {
		entries = append(entries, &dto.SessionLogEntryResponse{
			Id:        entry.Id,
			Type:      string(entry.Type),
			Phase:     entry.Phase,
			Title:     entry.Title,
			Content:   entry.Content,
			Metadata:  entry.Metadata,
			CreatedAt: entry.CreatedAt,
		})
	}

	return &dto.ShowSessionResponse{
		Id:             session.Id,
		ProjectId:      session.ProjectId,
		Entries:        entries,
		ResearchReport: session.ResearchReport,
		Stats:          session.Stats,
		Syllabus:       session.Syllabus,
		FailureMessage: session.FailureMessage,
		StartedAt:      session.StartedAt,
		CompletedAt:    session.CompletedAt,
	}, nil
}

func (c *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	session, err := c.sessionRepo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if session == nil {
		return serverutils.NewAppError(fiber.StatusNotFound, "session not found")
	}
	return c.sessionRepo.Delete(ctx, id)
}

func toSummary(session *entity.ProcessingSession) *dto.SessionSummaryResponse {
	res := &dto.SessionSummaryResponse{
		Id:             session.Id,
		ProjectId:      session.ProjectId,
		FailureMessage: session.FailureMessage,
		Stats:          session.Stats,
		StartedAt:      session.StartedAt,
		CompletedAt:    session.CompletedAt,
	}
	if session.Syllabus != nil {
		res.SyllabusTitle = session.Syllabus.Title
	}
	return res
}
