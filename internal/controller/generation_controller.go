package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"log"

	"ai-curriculum-be/internal/dto"
	"ai-curriculum-be/internal/pkg/serverutils"
	"ai-curriculum-be/internal/repository/memory"
	"ai-curriculum-be/internal/service"
	"ai-curriculum-be/pkg/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type generationController struct {
	service   service.IGenerationService
	publisher service.IPublisherService
	liveIndex *memory.SessionRepository
}

func NewGenerationController(
	service service.IGenerationService,
	publisher service.IPublisherService,
	liveIndex *memory.SessionRepository,
) IGenerationController {
	return &generationController{
		service:   service,
		publisher: publisher,
		liveIndex: liveIndex,
	}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/syllabus/v1")
	h.Post("/generate", c.Generate)
}

func (c *generationController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateSyllabusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	projectId, _ := uuid.Parse(req.ProjectId)

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The request context dies with this handler, so the stream writer gets
	// its own; client disconnects surface as flush errors instead.
	runCtx := context.Background()

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		c.run(runCtx, w, &req, projectId)
	})

	return nil
}

// run drives one generation session over an open SSE stream. Every frame is
// mirrored into the live session index so history queries can see runs that
// are still in flight.
func (c *generationController) run(ctx context.Context, w *bufio.Writer, req *dto.GenerateSyllabusRequest, projectId uuid.UUID) {
	folder := stream.NewFolder(c.liveIndex)

	emit := func(event *stream.Event) error {
		frame, err := stream.Encode(event)
		if err != nil {
			return err
		}
		if _, err := w.Write(frame); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
		folder.Fold(event)
		if session := folder.Session(); session != nil {
			session.ProjectId = projectId
		}
		return nil
	}

	if err := c.service.GenerateSyllabus(ctx, req, emit); err != nil {
		log.Printf("[WARN] SSE stream aborted: %v", err)
	}

	session := folder.Session()
	if session == nil || !folder.Terminal() {
		// The client went away before a terminal frame; drop the partial
		// session rather than archiving an unfinished run.
		if session != nil {
			c.liveIndex.Delete(session.Id.String())
		}
		return
	}

	payload, err := json.Marshal(dto.SessionArchivedMessage{SessionId: session.Id})
	if err != nil {
		log.Printf("[ERROR] Failed to marshal archive message: %v", err)
		return
	}
	if err := c.publisher.Publish(ctx, payload); err != nil {
		log.Printf("[ERROR] Failed to publish archive message for session %s: %v", session.Id, err)
	}
}
