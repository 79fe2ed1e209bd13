package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-curriculum-be/internal/dto"
	"ai-curriculum-be/internal/entity"
	"ai-curriculum-be/internal/repository/contract"
	"ai-curriculum-be/internal/repository/memory"
	"ai-curriculum-be/pkg/events"
	pktNats "ai-curriculum-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IArchiverService moves finished sessions out of the live in-memory index
// into durable history. It runs in the same process as the SSE handlers and
// consumes archive messages off the internal bus.
type IArchiverService interface {
	Consume(ctx context.Context) error
}

type archiverService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	liveIndex      *memory.SessionRepository
	sessionRepo    contract.SessionRepository
	eventPublisher *pktNats.Publisher
}

func NewArchiverService(
	pubSub *gochannel.GoChannel,
	topicName string,
	liveIndex *memory.SessionRepository,
	sessionRepo contract.SessionRepository,
	eventPublisher *pktNats.Publisher,
) IArchiverService {
	return &archiverService{
		pubSub:         pubSub,
		topicName:      topicName,
		liveIndex:      liveIndex,
		sessionRepo:    sessionRepo,
		eventPublisher: eventPublisher,
	}
}

func (as *archiverService) Consume(ctx context.Context) error {
	messages, err := as.pubSub.Subscribe(ctx, as.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			as.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (as *archiverService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SessionArchivedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal archive message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	session, ok := as.liveIndex.Get(payload.SessionId.String())
	if !ok {
		// Already archived, or the process restarted in between. Ack.
		log.Printf("[WARN] Session not found in live index: %s", payload.SessionId)
		msg.Ack()
		return
	}

	if err := as.sessionRepo.Create(ctx, session); err != nil {
		log.Printf("[ERROR] Failed to archive session %s: %v", payload.SessionId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	as.publishLifecycleEvent(ctx, session)
	as.liveIndex.Delete(payload.SessionId.String())

	log.Printf("[SUCCESS] Session archived: %s (%d log entries)", payload.SessionId, len(session.Entries))
	msg.Ack()
}

func (as *archiverService) publishLifecycleEvent(ctx context.Context, session *entity.ProcessingSession) {
	if as.eventPublisher == nil {
		return
	}

	var evt events.Event
	if session.Syllabus != nil {
		evt = events.NewSessionCompleted(
			session.Id.String(),
			session.ProjectId.String(),
			session.Syllabus.ModuleCount(),
			session.Syllabus.QuestionCount(),
		)
	} else {
		evt = events.NewSessionFailed(session.Id.String(), session.ProjectId.String(), session.FailureMessage)
	}

	if err := as.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish session lifecycle event: %v", err)
	}
}
