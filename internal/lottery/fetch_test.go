package lottery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher(url string) *Fetcher {
	f := NewFetcher(url, parseRules, 0)
	f.retryInterval = 2 * time.Millisecond
	f.maxElapsed = 200 * time.Millisecond
	return f
}

func TestFetcher_HTMLWrappedCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><pre>" + sampleCSV + "</pre></body></html>"))
	}))
	defer srv.Close()

	f := testFetcher(srv.URL)
	h, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, h.Len())
	assert.True(t, h.Contains(NewDraw([]int{3, 17, 22, 41, 50}, []int{2, 9})))
}

func TestFetcher_PlainCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	f := testFetcher(srv.URL)
	h, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, h.Len())
}

func TestFetcher_ClientErrorIsPermanent(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := testFetcher(srv.URL)
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls, "4xx must not be retried")
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	f := testFetcher(srv.URL)
	h, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 3, calls)
}
