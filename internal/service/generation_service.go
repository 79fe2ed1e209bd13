package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ai-curriculum-be/internal/config"
	"ai-curriculum-be/internal/constant"
	"ai-curriculum-be/internal/dto"
	"ai-curriculum-be/internal/entity"
	"ai-curriculum-be/internal/pkg/logger"
	"ai-curriculum-be/pkg/analysis"
	"ai-curriculum-be/pkg/fetcher"
	"ai-curriculum-be/pkg/llm"
	"ai-curriculum-be/pkg/stream"
	"ai-curriculum-be/pkg/syllabus"

	"github.com/google/uuid"
)

const readPreviewLen = 120

// IGenerationService drives the full fetch -> research -> structure ->
// finalize pipeline for one session. All output flows through emit; exactly
// one terminal event is produced. The returned error is non-nil only when
// the transport itself failed (client gone), never for pipeline failures.
type IGenerationService interface {
	GenerateSyllabus(ctx context.Context, req *dto.GenerateSyllabusRequest, emit analysis.EmitFunc) error
}

type generationService struct {
	provider    llm.Provider
	docFetcher  fetcher.DocumentFetcher
	transformer *syllabus.Transformer
	cfg         *config.Config
	log         logger.ILogger
}

func NewGenerationService(
	provider llm.Provider,
	docFetcher fetcher.DocumentFetcher,
	cfg *config.Config,
	log logger.ILogger,
) IGenerationService {
	return &generationService{
		provider:    provider,
		docFetcher:  docFetcher,
		transformer: syllabus.NewTransformer(),
		cfg:         cfg,
		log:         log,
	}
}

// emitter separates transport failures from pipeline failures. Once a send
// fails, every later send returns the same error and nothing more is
// written.
type emitter struct {
	emit analysis.EmitFunc
	err  error
}

func (e *emitter) send(event *stream.Event) error {
	if e.err != nil {
		return e.err
	}
	if err := e.emit(event); err != nil {
		e.err = err
	}
	return e.err
}

// fail emits the terminal error frame. Transport errors at this point are
// swallowed: the session is over either way.
func (e *emitter) fail(message string) error {
	_ = e.send(stream.NewError(message))
	return e.err
}

func (s *generationService) GenerateSyllabus(ctx context.Context, req *dto.GenerateSyllabusRequest, emit analysis.EmitFunc) error {
	em := &emitter{emit: emit}
	sessionId := uuid.New()
	start := time.Now()

	if err := em.send(stream.NewSessionStart(sessionId.String())); err != nil {
		return err
	}

	// Phase 1: fetching. One read event per locator at issue time, so the
	// client sees every document immediately regardless of completion order.
	if err := em.send(stream.NewStatus(stream.PhaseFetching, "Fetching documents",
		fmt.Sprintf("Retrieving %d document(s)", len(req.DocumentLocators)))); err != nil {
		return err
	}
	for _, locator := range req.DocumentLocators {
		if err := em.send(stream.NewRead(locator, truncate(locator, readPreviewLen))); err != nil {
			return err
		}
	}

	docs, err := s.docFetcher.FetchAll(ctx, req.DocumentLocators)
	if err != nil {
		// No partial syllabus: a single unreachable document ends the run.
		s.log.Error("generation", "document fetch failed", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return em.fail(fmt.Sprintf("failed to fetch documents: %v", err))
	}

	if err := em.send(stream.NewStatus(stream.PhaseDocumentsLoaded, "Documents loaded",
		fmt.Sprintf("%d document(s) ready for analysis", len(docs)))); err != nil {
		return err
	}

	// Phase 2: researching, with the one-shot fallback.
	report, searchQueries, err := s.research(ctx, em, req, docs, sessionId)
	if err != nil {
		if em.err != nil {
			return em.err
		}
		return em.fail(fmt.Sprintf("analysis failed: %v", err))
	}

	if err := em.send(stream.NewStatus(stream.PhaseResearchComplete, "Research complete",
		fmt.Sprintf("Compiled a %d character research report", len(report)))); err != nil {
		return err
	}

	// Phase 3: structuring.
	if err := em.send(stream.NewStatus(stream.PhaseStructuring, "Structuring syllabus",
		"Converting the research report into a course structure")); err != nil {
		return err
	}
	if err := em.send(stream.NewStructuring("Requesting structured syllabus from the model")); err != nil {
		return err
	}

	response, err := s.provider.Generate(ctx,
		fmt.Sprintf(constant.StructuringPromptV1, report),
		nil,
		s.modelOpts(s.cfg.Ai.Model, llm.WithTemperature(0.2))...,
	)
	if err != nil {
		s.log.Error("generation", "structuring call failed", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return em.fail(fmt.Sprintf("structuring failed: %v", err))
	}

	if err := em.send(stream.NewStructuring("Validating structure")); err != nil {
		return err
	}

	raw, err := syllabus.ParseResponse(response)
	if err != nil {
		s.log.Error("generation", "structured response unparseable", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return em.fail(fmt.Sprintf("could not parse structured response: %v", err))
	}

	// Phase 4: finalize.
	tree, err := s.transformer.Transform(raw)
	if err != nil {
		return em.fail(fmt.Sprintf("transform failed: %v", err))
	}
	for _, warning := range syllabus.Lint(tree) {
		s.log.Warn("generation", "syllabus structure warning", map[string]interface{}{
			"session_id": sessionId.String(),
			"warning":    warning,
		})
	}

	stats := &entity.SessionStats{
		SearchQueries:     searchQueries,
		DocumentsAnalyzed: len(docs),
		ProcessingTimeMs:  time.Since(start).Milliseconds(),
	}
	if err := em.send(stream.NewStats(stats)); err != nil {
		return err
	}

	s.log.Info("generation", "session complete", map[string]interface{}{
		"session_id": sessionId.String(),
		"modules":    tree.ModuleCount(),
		"questions":  tree.QuestionCount(),
		"elapsed_ms": stats.ProcessingTimeMs,
	})
	return em.send(stream.NewComplete(tree, report))
}

// research runs the incremental analysis call and falls back to a single
// non-streaming request when it fails. The fallback happens at most once;
// its failure is fatal to the session.
func (s *generationService) research(
	ctx context.Context,
	em *emitter,
	req *dto.GenerateSyllabusRequest,
	docs []*fetcher.Document,
	sessionId uuid.UUID,
) (string, int, error) {
	if err := em.send(stream.NewStatus(stream.PhaseResearching, "Analyzing documents",
		"Running incremental analysis across all sources")); err != nil {
		return "", 0, err
	}

	prompt := s.researchPrompt(req.TitleHint)
	attachments := make([]llm.Attachment, 0, len(docs))
	for _, doc := range docs {
		attachments = append(attachments, llm.Attachment{
			MIMEType: doc.MIMEType,
			Data:     doc.Data,
			Source:   doc.Source,
		})
	}

	interpreter := analysis.NewInterpreter(em.send)
	streamErr := s.provider.GenerateStream(ctx, prompt, attachments, interpreter.Consume,
		s.modelOpts(s.cfg.Ai.Model)...)
	if streamErr == nil {
		streamErr = interpreter.Finish()
	}
	if streamErr == nil && interpreter.Report() == "" {
		streamErr = fmt.Errorf("incremental analysis produced no output")
	}

	if streamErr == nil {
		return interpreter.Report(), interpreter.SearchQueries(), nil
	}
	if em.err != nil {
		// The client went away; this is a transport abort, not an analysis
		// failure, so no fallback request is issued.
		return "", 0, em.err
	}

	s.log.Warn("generation", "incremental analysis failed, using fallback", map[string]interface{}{
		"session_id": sessionId.String(),
		"error":      streamErr.Error(),
	})
	if err := em.send(stream.NewStatus(stream.PhaseFallback, "Switching to fallback analysis",
		"Incremental analysis failed; retrying with a single request")); err != nil {
		return "", 0, err
	}

	report, err := s.provider.Generate(ctx, prompt, attachments,
		s.modelOpts(s.cfg.Ai.FallbackModel)...)
	if err != nil {
		return "", 0, fmt.Errorf("fallback analysis failed: %w", err)
	}
	return report, interpreter.SearchQueries(), nil
}

// modelOpts builds the provider options shared by every call, adding the
// output token cap only when one is configured.
func (s *generationService) modelOpts(model string, extra ...llm.Option) []llm.Option {
	opts := []llm.Option{llm.WithModel(model)}
	if s.cfg.Ai.MaxOutputToken > 0 {
		opts = append(opts, llm.WithMaxTokens(s.cfg.Ai.MaxOutputToken))
	}
	return append(opts, extra...)
}

func (s *generationService) researchPrompt(titleHint string) string {
	suffix := ""
	if strings.TrimSpace(titleHint) != "" {
		suffix = fmt.Sprintf(constant.ResearchTitleHintSuffix, titleHint)
	}
	return fmt.Sprintf(constant.ResearchPromptV1, suffix)
}

// truncate cuts s to at most max bytes without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
