package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/cache"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/github"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/gitrepo"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	values map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string, dst interface{}) error {
	data, ok := c.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dst)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = data
	return nil
}

func (c *memoryCache) Close() error { return nil }

func newGithubServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/api", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{"id":101,"name":"api","owner":{"login":"octo"},"html_url":"https://github.com/octo/api"}`)
	})
	mux.HandleFunc("/repos/octo/api/issues", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		fmt.Fprint(w, `[
			{"id":1,"number":1,"title":"bug","state":"open","user":{"login":"ana"}},
			{"id":2,"number":2,"title":"feature","state":"closed","user":{"login":"ana"},"pull_request":{}}
		]`)
	})
	mux.HandleFunc("/repos/octo/api/commits", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"sha":"b2","commit":{"message":"second","author":{"name":"Ana","email":"ana@unq.edu.ar"}}}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/octo/api/commits?page=2>; rel="next", <http://%s/repos/octo/api/commits?page=2>; rel="last"`, r.Host, r.Host))
		fmt.Fprint(w, `[{"sha":"a1","commit":{"message":"first","author":{"name":"Ana","email":"ana@unq.edu.ar"}}}]`)
	})
	mux.HandleFunc("/repos/octo/api/tags", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"v1.0.0","commit":{"sha":"a1"},"zipball_url":"z","tarball_url":"t"}]`)
	})
	mux.HandleFunc("/repos/octo/api/branches", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"main","commit":{"sha":"b2"},"protected":true}]`)
	})
	mux.HandleFunc("/repos/octo/private", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &calls
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server, calls := newGithubServer(t)

	client := github.NewClient(github.Config{BaseURL: server.URL, Timeout: 2 * time.Second}, nil, logger, metrics.NewMock())

	t.Run("FetchRepository", func(t *testing.T) {
		repo, err := client.FetchRepository(ctx, "octo", "api")
		require.NoError(t, err)
		assert.Equal(t, int64(101), repo.ID)
		assert.Equal(t, "octo", repo.Owner)
		assert.Equal(t, "https://github.com/octo/api", repo.URL)
	})

	t.Run("FetchIssues_SkipsPullRequests", func(t *testing.T) {
		issues, err := client.FetchIssues(ctx, "octo", "api")
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, "bug", issues[0].Title)
		assert.Equal(t, "ana", issues[0].Author)
	})

	t.Run("FetchCommits_FollowsNextLink", func(t *testing.T) {
		commits, err := client.FetchCommits(ctx, "octo", "api")
		require.NoError(t, err)
		require.Len(t, commits, 2)
		assert.Equal(t, "a1", commits[0].SHA)
		assert.Equal(t, "b2", commits[1].SHA)
		assert.Equal(t, "ana@unq.edu.ar", commits[1].AuthorEmail)
	})

	t.Run("FetchTagsAndBranches", func(t *testing.T) {
		tags, err := client.FetchTags(ctx, "octo", "api")
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, "a1", tags[0].CommitSHA)

		branches, err := client.FetchBranches(ctx, "octo", "api")
		require.NoError(t, err)
		require.Len(t, branches, 1)
		assert.True(t, branches[0].Protected)
	})

	t.Run("UnknownRepository", func(t *testing.T) {
		_, err := client.FetchRepository(ctx, "octo", "missing")
		assert.ErrorIs(t, err, apperr.ErrExternalService)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("RateLimited", func(t *testing.T) {
		_, err := client.FetchRepository(ctx, "octo", "private")
		assert.ErrorIs(t, err, apperr.ErrExternalService)
		assert.Contains(t, err.Error(), "rate limit")
	})

	t.Run("CachedResponsesSkipTheNetwork", func(t *testing.T) {
		cached := github.NewClient(github.Config{BaseURL: server.URL, CacheTTL: time.Minute}, &memoryCache{values: map[string][]byte{}}, logger, metrics.NewMock())

		_, err := cached.FetchRepository(ctx, "octo", "api")
		require.NoError(t, err)
		before := atomic.LoadInt32(calls)

		repo, err := cached.FetchRepository(ctx, "octo", "api")
		require.NoError(t, err)
		assert.Equal(t, "api", repo.Name)
		assert.Equal(t, before, atomic.LoadInt32(calls))
	})
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	client := github.NewClient(github.Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.NewMock())

	_, err := client.FetchRepository(context.Background(), "octo", "api")
	assert.ErrorIs(t, err, apperr.ErrExternalService)
}

func TestClient_FreshReadsBypassCache(t *testing.T) {
	var title atomic.Value
	title.Store("first")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"id":1,"number":1,"title":%q,"state":"open","user":{"login":"ana"}}]`, title.Load())
	}))
	defer server.Close()

	ctx := context.Background()
	client := github.NewClient(github.Config{BaseURL: server.URL, CacheTTL: time.Minute}, &memoryCache{values: map[string][]byte{}}, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.NewMock())

	issues, err := client.FetchIssues(ctx, "octo", "api")
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "first", issues[0].Title)

	title.Store("second")

	issues, err = client.FetchIssues(ctx, "octo", "api")
	require.NoError(t, err)
	assert.Equal(t, "first", issues[0].Title, "plain reads are served from the cache")

	issues, err = client.FetchIssues(gitrepo.WithFreshReads(ctx), "octo", "api")
	require.NoError(t, err)
	assert.Equal(t, "second", issues[0].Title)

	issues, err = client.FetchIssues(ctx, "octo", "api")
	require.NoError(t, err)
	assert.Equal(t, "second", issues[0].Title, "fresh reads refresh the cache")
}

func TestClient_PageLimit(t *testing.T) {
	var pages int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&pages, 1)
		w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/octo/api/commits?page=%d>; rel="next"`, r.Host, n+1))
		fmt.Fprintf(w, `[{"sha":"c%d","commit":{"message":"m","author":{"name":"Ana","email":"ana@unq.edu.ar"}}}]`, n)
	}))
	defer server.Close()

	client := github.NewClient(github.Config{BaseURL: server.URL, MaxPages: 3}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.NewMock())

	commits, err := client.FetchCommits(context.Background(), "octo", "api")
	assert.ErrorIs(t, err, apperr.ErrExternalService)
	assert.Contains(t, err.Error(), "exceed 3 pages")
	assert.Nil(t, commits)
	assert.Equal(t, int32(3), atomic.LoadInt32(&pages))
}

func TestClient_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":1,"name":"api","description":"%s"}`, strings.Repeat("x", 17<<20))
	}))
	defer server.Close()

	client := github.NewClient(github.Config{BaseURL: server.URL, Timeout: 5 * time.Second}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.NewMock())

	_, err := client.FetchRepository(context.Background(), "octo", "api")
	assert.ErrorIs(t, err, apperr.ErrExternalService)
	assert.Contains(t, err.Error(), "exceeds")
}
