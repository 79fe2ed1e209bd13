package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"ai-curriculum-be/internal/entity"
	"ai-curriculum-be/internal/pkg/logger"
	"ai-curriculum-be/pkg/stream"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api/syllabus/v1"

type generateRequest struct {
	DocumentLocators []string `json:"documentLocators"`
	TitleHint        string   `json:"titleHint,omitempty"`
}

// consoleSink prints each folded event as it arrives off the wire.
type consoleSink struct {
	thought *color.Color
	search  *color.Color
	output  *color.Color
	status  *color.Color
}

func newConsoleSink() *consoleSink {
	return &consoleSink{
		thought: color.New(color.FgHiBlack),
		search:  color.New(color.FgCyan),
		output:  color.New(color.FgGreen),
		status:  color.New(color.FgYellow, color.Bold),
	}
}

func (s *consoleSink) Created(session *entity.ProcessingSession) {
	s.status.Printf("session %s started\n", session.Id)
}

func (s *consoleSink) Appended(_ *entity.ProcessingSession, entry *entity.LogEntry) {
	switch entry.Type {
	case entity.LogThought:
		s.thought.Printf("  [thought] %s\n", entry.Title)
	case entity.LogSearch:
		s.search.Printf("  [search]  %s\n", entry.Content)
	case entity.LogSection:
		s.output.Printf("  [section] %s (%d chars)\n", entry.Title, len(entry.Content))
	case entity.LogStatus:
		s.status.Printf("[%s] %s\n", entry.Phase, entry.Title)
	default:
		fmt.Printf("  [%s] %s\n", entry.Type, entry.Title)
	}
}

func (s *consoleSink) Terminated(session *entity.ProcessingSession) {
	if session.Failed() {
		color.Red("session failed: %s", session.FailureMessage)
		return
	}
	s.status.Println("session complete")
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <document-url> [document-url...]", os.Args[0])
	}

	fmt.Println("=== Syllabus Generation Stream Client ===")

	body, err := json.Marshal(generateRequest{DocumentLocators: os.Args[1:]})
	if err != nil {
		log.Fatalf("Failed to marshal request: %v", err)
	}

	start := time.Now()
	resp, err := http.Post(baseURL+"/generate", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Unexpected status: %s", resp.Status)
	}

	sysLogger := logger.NewZapLogger("logs/stream_client.log", false)
	consumer := stream.NewConsumer(resp.Body, newConsoleSink(), sysLogger)

	session, err := consumer.Run(context.Background())
	if err != nil {
		log.Fatalf("Stream consume failed: %v", err)
	}

	fmt.Printf("\nElapsed: %s\n", time.Since(start).Round(time.Millisecond))
	if session != nil && session.Syllabus != nil {
		fmt.Printf("Syllabus: %q (%d modules, %d questions)\n",
			session.Syllabus.Title,
			session.Syllabus.ModuleCount(),
			session.Syllabus.QuestionCount(),
		)
	}
}
