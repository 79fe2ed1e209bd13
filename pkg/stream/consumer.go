package stream

import (
	"bytes"
	"context"
	"io"

	"ai-curriculum-be/internal/entity"
	"ai-curriculum-be/internal/pkg/logger"
)

// Consumer reads a frame-fragmented byte stream, decodes complete frames in
// order and folds each event into a ProcessingSession aggregate. Frames may
// arrive split at arbitrary byte offsets; the internal buffer stitches them
// back together. A single undecodable frame is skipped, never fatal.
type Consumer struct {
	reader io.Reader
	folder *Folder
	log    logger.ILogger

	buf bytes.Buffer
}

func NewConsumer(reader io.Reader, sink SessionSink, log logger.ILogger) *Consumer {
	return &Consumer{
		reader: reader,
		folder: NewFolder(sink),
		log:    log,
	}
}

// Run consumes the stream until a terminal event, EOF or context
// cancellation. On cancellation the session is left in its last-folded,
// incomplete state. The returned session is nil when no event ever decoded.
func (c *Consumer) Run(ctx context.Context) (*entity.ProcessingSession, error) {
	chunk := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return c.folder.Session(), ctx.Err()
		default:
		}

		n, err := c.reader.Read(chunk)
		if n > 0 {
			c.feed(chunk[:n])
			if c.folder.Terminal() {
				return c.folder.Session(), nil
			}
		}
		if err == io.EOF {
			c.flushTail()
			return c.folder.Session(), nil
		}
		if err != nil {
			return c.folder.Session(), err
		}
	}
}

// feed appends bytes and drains every complete frame from the buffer.
func (c *Consumer) feed(p []byte) {
	c.buf.Write(p)
	for {
		raw := c.buf.Bytes()
		idx := bytes.Index(raw, []byte(FrameTerminator))
		if idx < 0 {
			return
		}
		frame := make([]byte, idx)
		copy(frame, raw[:idx])
		c.buf.Next(idx + len(FrameTerminator))
		c.decodeAndFold(frame)
		if c.folder.Terminal() {
			return
		}
	}
}

// flushTail gives a trailing partial frame one final decode attempt after
// the stream ends, then discards it.
func (c *Consumer) flushTail() {
	tail := bytes.TrimSpace(c.buf.Bytes())
	c.buf.Reset()
	if len(tail) == 0 || c.folder.Terminal() {
		return
	}
	c.decodeAndFold(tail)
}

func (c *Consumer) decodeAndFold(frame []byte) {
	event, err := Decode(frame)
	if err != nil {
		if c.log != nil {
			c.log.Warn("stream.consumer", "skipping malformed frame", map[string]interface{}{
				"error": err.Error(),
				"size":  len(frame),
			})
		}
		return
	}
	c.folder.Fold(event)
}
