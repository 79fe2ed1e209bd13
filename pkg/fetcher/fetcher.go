// Package fetcher retrieves raw document bytes from their locators. The
// generation pipeline treats storage as "given a URL, return bytes"; this is
// the HTTP implementation of that capability.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const maxDocumentSize = 25 * 1024 * 1024 // 25MB

// Document is the fetched payload plus enough metadata to attach it to a
// generation request.
type Document struct {
	Source   string
	MIMEType string
	Data     []byte
}

type DocumentFetcher interface {
	Fetch(ctx context.Context, locator string) (*Document, error)
	FetchAll(ctx context.Context, locators []string) ([]*Document, error)
}

type HTTPFetcher struct {
	client *http.Client
	cache  *cache.Cache
}

var _ DocumentFetcher = &HTTPFetcher{}

func NewHTTPFetcher() *HTTPFetcher {
	// Re-running a session against the same documents should not re-download
	// them; entries expire after 10 minutes and are purged every 5.
	return &HTTPFetcher{
		client: &http.Client{Timeout: 2 * time.Minute},
		cache:  cache.New(10*time.Minute, 5*time.Minute),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) (*Document, error) {
	if x, found := f.cache.Get(locator); found {
		return x.(*Document), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", locator, err)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", locator, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", locator, res.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", locator, err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("fetch %s: document exceeds %d bytes", locator, maxDocumentSize)
	}

	mime := res.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}

	doc := &Document{Source: locator, MIMEType: mime, Data: data}
	f.cache.Set(locator, doc, cache.DefaultExpiration)
	return doc, nil
}

// FetchAll retrieves every locator concurrently. The result preserves input
// order regardless of completion order; the first failure cancels the rest.
func (f *HTTPFetcher) FetchAll(ctx context.Context, locators []string) ([]*Document, error) {
	docs := make([]*Document, len(locators))

	g, gctx := errgroup.WithContext(ctx)
	for i, locator := range locators {
		i, locator := i, locator
		g.Go(func() error {
			doc, err := f.Fetch(gctx, locator)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
