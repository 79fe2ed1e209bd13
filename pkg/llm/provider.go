package llm

import (
	"context"
)

// Attachment is a binary document handed to the model alongside a prompt.
type Attachment struct {
	MIMEType string
	Data     []byte
	Source   string // locator the bytes came from, for logging only
}

// Chunk is one fragment of an incremental generation response. Thought marks
// reasoning text as opposed to answer output.
type Chunk struct {
	Text    string
	Thought bool
}

// ChunkHandler receives fragments in arrival order. Returning an error aborts
// the stream.
type ChunkHandler func(chunk Chunk) error

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for the remote generative reasoning backend.
type Provider interface {
	// Generate sends a prompt plus optional attachments and returns the
	// complete text response in one shot.
	Generate(ctx context.Context, prompt string, attachments []Attachment, options ...Option) (string, error)

	// GenerateStream sends the same request but delivers the response as an
	// ordered sequence of output/reasoning fragments.
	GenerateStream(ctx context.Context, prompt string, attachments []Attachment, handler ChunkHandler, options ...Option) error
}
