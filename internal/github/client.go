// Package github implements the read-only GitHub REST client used to mirror
// repositories. Every call is a GET bounded by the configured timeout; failures
// surface as apperr.ExternalServiceError and are never retried.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/cache"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/gitrepo"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"

	"golang.org/x/oauth2"
)

const (
	serviceName     = "github"
	defaultMaxPages = 10
	maxBodyBytes    = 16 << 20
)

var nextLinkPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

type Config struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	PerPage  int
	// MaxPages bounds each collection; a longer one fails instead of being truncated.
	MaxPages int
	CacheTTL time.Duration
}

type Client struct {
	config     Config
	httpClient *http.Client
	cache      cache.Cache
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewClient builds a client authenticated with cfg.Token when one is given.
// A nil cache disables caching.
func NewClient(cfg Config, c cache.Cache, logger *slog.Logger, m *metrics.Metrics) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.PerPage <= 0 || cfg.PerPage > 100 {
		cfg.PerPage = 100
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if c == nil {
		c = cache.Nop{}
	}

	httpClient := http.DefaultClient
	if cfg.Token != "" {
		httpClient = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		cache:      c,
		logger:     logger,
		metrics:    m,
	}
}

func (c *Client) FetchRepository(ctx context.Context, owner, name string) (*gitrepo.Repository, error) {
	var dto repositoryDTO
	if err := c.getOne(ctx, "repository", repoPath(owner, name), &dto); err != nil {
		return nil, err
	}
	return toRepository(dto), nil
}

func (c *Client) FetchIssues(ctx context.Context, owner, name string) ([]gitrepo.Issue, error) {
	var dtos []issueDTO
	if err := getAll(ctx, c, "issues", repoPath(owner, name)+"/issues?state=all", &dtos); err != nil {
		return nil, err
	}
	return toIssues(dtos), nil
}

func (c *Client) FetchPullRequests(ctx context.Context, owner, name string) ([]gitrepo.PullRequest, error) {
	var dtos []pullRequestDTO
	if err := getAll(ctx, c, "pulls", repoPath(owner, name)+"/pulls?state=all", &dtos); err != nil {
		return nil, err
	}
	return toPullRequests(dtos), nil
}

func (c *Client) FetchTags(ctx context.Context, owner, name string) ([]gitrepo.Tag, error) {
	var dtos []tagDTO
	if err := getAll(ctx, c, "tags", repoPath(owner, name)+"/tags", &dtos); err != nil {
		return nil, err
	}
	return toTags(dtos), nil
}

func (c *Client) FetchBranches(ctx context.Context, owner, name string) ([]gitrepo.Branch, error) {
	var dtos []branchDTO
	if err := getAll(ctx, c, "branches", repoPath(owner, name)+"/branches", &dtos); err != nil {
		return nil, err
	}
	return toBranches(dtos), nil
}

func (c *Client) FetchCommits(ctx context.Context, owner, name string) ([]gitrepo.Commit, error) {
	var dtos []commitDTO
	if err := getAll(ctx, c, "commits", repoPath(owner, name)+"/commits", &dtos); err != nil {
		return nil, err
	}
	return toCommits(dtos), nil
}

func repoPath(owner, name string) string {
	return fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(name))
}

// cached loads key into dst unless ctx asks for fresh reads.
func (c *Client) cached(ctx context.Context, key string, dst interface{}) bool {
	if gitrepo.FreshReads(ctx) {
		return false
	}
	return c.cache.Get(ctx, key, dst) == nil
}

func (c *Client) getOne(ctx context.Context, resource, path string, dst interface{}) error {
	key := "github:" + path
	if c.cached(ctx, key, dst) {
		return nil
	}

	if _, err := c.get(ctx, resource, c.config.BaseURL+path, dst); err != nil {
		return err
	}
	c.store(ctx, key, dst)
	return nil
}

// getAll follows rel="next" links, up to MaxPages pages.
func getAll[T any](ctx context.Context, c *Client, resource, path string, dst *[]T) error {
	key := "github:" + path
	if c.cached(ctx, key, dst) {
		return nil
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	next := c.config.BaseURL + path + sep + "per_page=" + strconv.Itoa(c.config.PerPage)

	all := make([]T, 0)
	for page := 0; next != "" && page < c.config.MaxPages; page++ {
		var batch []T
		link, err := c.get(ctx, resource, next, &batch)
		if err != nil {
			return err
		}
		all = append(all, batch...)
		next = link
	}
	if next != "" {
		c.logger.WarnContext(ctx, "github collection exceeds page limit", "resource", resource, "path", path, "max_pages", c.config.MaxPages)
		return apperr.External(serviceName, fmt.Sprintf("%s exceed %d pages", resource, c.config.MaxPages), nil)
	}

	*dst = all
	c.store(ctx, key, all)
	return nil
}

func (c *Client) store(ctx context.Context, key string, value interface{}) {
	if c.config.CacheTTL <= 0 {
		return
	}
	if err := c.cache.Set(ctx, key, value, c.config.CacheTTL); err != nil {
		c.logger.WarnContext(ctx, "failed to cache github response", "key", key, "error", err)
	}
}

// get performs one GET and returns the rel="next" link, if any.
func (c *Client) get(ctx context.Context, resource, fullURL string, dst interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", apperr.External(serviceName, "create request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordGithubRequest(ctx, resource, false)
		return "", apperr.External(serviceName, "request "+resource, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		c.metrics.RecordGithubRequest(ctx, resource, false)
		return "", apperr.External(serviceName, "read response", err)
	}
	if len(body) > maxBodyBytes {
		c.metrics.RecordGithubRequest(ctx, resource, false)
		return "", apperr.External(serviceName, fmt.Sprintf("%s response exceeds %d bytes", resource, maxBodyBytes), nil)
	}

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordGithubRequest(ctx, resource, false)
		c.logger.WarnContext(ctx, "github request failed", "resource", resource, "status", resp.StatusCode)
		return "", statusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		c.metrics.RecordGithubRequest(ctx, resource, false)
		return "", apperr.External(serviceName, "decode "+resource, err)
	}

	c.metrics.RecordGithubRequest(ctx, resource, true)
	return nextLink(resp.Header.Get("Link")), nil
}

func statusError(status int, body []byte) error {
	var dto errorDTO
	_ = json.Unmarshal(body, &dto)

	switch status {
	case http.StatusNotFound:
		return apperr.External(serviceName, "owner or repository not found", nil)
	case http.StatusUnauthorized:
		return apperr.External(serviceName, "bad credentials", nil)
	case http.StatusForbidden:
		return apperr.External(serviceName, "access forbidden or rate limited: "+dto.Message, nil)
	}
	return apperr.External(serviceName, fmt.Sprintf("unexpected status %d: %s", status, dto.Message), nil)
}

func nextLink(header string) string {
	m := nextLinkPattern.FindStringSubmatch(header)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
