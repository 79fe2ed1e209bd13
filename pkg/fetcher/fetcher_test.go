package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSetsMIMEType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 content"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	doc, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.MIMEType)
	assert.Equal(t, srv.URL, doc.Source)
	assert.Equal(t, []byte("%PDF-1.4 content"), doc.Data)
}

func TestFetchSniffsMissingContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Suppress the automatic Content-Type header.
		w.Header()["Content-Type"] = nil
		w.Write([]byte("plain text body"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	doc, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, doc.MIMEType, "text/plain")
}

func TestFetchRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestFetchCachesByLocator(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte("cached body"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestFetchAllPreservesInputOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "body of %s", r.URL.Path)
	}))
	defer srv.Close()

	locators := []string{
		srv.URL + "/first",
		srv.URL + "/second",
		srv.URL + "/third",
	}

	f := NewHTTPFetcher()
	docs, err := f.FetchAll(context.Background(), locators)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "body of /first", string(docs[0].Data))
	assert.Equal(t, "body of /second", string(docs[1].Data))
	assert.Equal(t, "body of /third", string(docs[2].Data))
}

func TestFetchAllFailsOnAnyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("fine"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	_, err := f.FetchAll(context.Background(), []string{srv.URL + "/good", srv.URL + "/bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}
