package naotimes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gateway is the remote naoTimes API as seen by the rest of the client.
// It is implemented by *Client and mocked in tests.
type Gateway interface {
	FetchProjects(ctx context.Context) ([]ProjectSummary, error)
	FetchProjectDetail(ctx context.Context, id string) (*ProjectDetail, error)
	SearchProjects(ctx context.Context, query string) ([]ProjectSummary, error)
	UpdateEpisodeStatus(ctx context.Context, projectID string, episode int, roles []RoleUpdate) (*ProgressResult, error)
	UpdateReleaseStatus(ctx context.Context, projectID string, episode int, isDone bool) (MutationResult, error)
	AddEpisodes(ctx context.Context, projectID string, episodes []int) (AddEpisodesResult, error)
	RemoveEpisode(ctx context.Context, projectID string, episodes []int) (MutationResult, error)
	UpdateStaffAssignment(ctx context.Context, projectID string, role Role, userID string) (StaffResult, error)
	FetchIdentity(ctx context.Context) (*Identity, error)
}

// Ensure Client implements Gateway at compile time.
var _ Gateway = (*Client)(nil)

// Client talks to the naoTimes HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
}

const (
	defaultServerURL = "https://naoti.me/api"
	defaultUserAgent = "naotimes-cli/0.3"
	defaultTimeout   = 10 * time.Second
)

// Options configure a Client.
type Options struct {
	ServerURL string
	Token     string
	Timeout   time.Duration
}

// NewClient builds a Client for the given server.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.ServerURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		token:     strings.TrimSpace(opts.Token),
		userAgent: defaultUserAgent,
	}, nil
}

// envelope is the common response wrapper of every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Code    ErrorCode       `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// FetchProjects lists the projects shown on the dashboard.
func (c *Client) FetchProjects(ctx context.Context) ([]ProjectSummary, error) {
	var out []ProjectSummary
	if err := c.call(ctx, http.MethodGet, &url.URL{Path: "projects"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchProjectDetail retrieves a project with its staff and episodes.
func (c *Client) FetchProjectDetail(ctx context.Context, id string) (*ProjectDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("project id required")
	}
	var out ProjectDetail
	if err := c.call(ctx, http.MethodGet, projectPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchProjects queries projects by title.
func (c *Client) SearchProjects(ctx context.Context, query string) ([]ProjectSummary, error) {
	values := url.Values{}
	values.Set("q", strings.TrimSpace(query))
	rel := &url.URL{Path: "projects/search", RawQuery: values.Encode()}
	var out []ProjectSummary
	if err := c.call(ctx, http.MethodGet, rel, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateEpisodeStatus sets the completion state of every role in roles.
// A nil result with a nil error means the server accepted the call but
// returned no progress payload.
func (c *Client) UpdateEpisodeStatus(ctx context.Context, projectID string, episode int, roles []RoleUpdate) (*ProgressResult, error) {
	body := struct {
		Episode int          `json:"episode"`
		Roles   []RoleUpdate `json:"roles"`
	}{Episode: episode, Roles: roles}

	var out *ProgressResult
	if err := c.call(ctx, http.MethodPost, projectPath(projectID, "episodes", "progress"), body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateReleaseStatus marks an episode released or unreleased.
func (c *Client) UpdateReleaseStatus(ctx context.Context, projectID string, episode int, isDone bool) (MutationResult, error) {
	body := struct {
		Episode int  `json:"episode"`
		IsDone  bool `json:"is_done"`
	}{Episode: episode, IsDone: isDone}

	env, err := c.send(ctx, http.MethodPost, projectPath(projectID, "episodes", "release"), body)
	if err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Success: env.Success, Code: env.Code, Message: env.Message}, nil
}

// AddEpisodes creates the given episode numbers on a project.
func (c *Client) AddEpisodes(ctx context.Context, projectID string, episodes []int) (AddEpisodesResult, error) {
	body := struct {
		Episodes []int `json:"episodes"`
	}{Episodes: episodes}

	env, err := c.send(ctx, http.MethodPost, projectPath(projectID, "episodes"), body)
	if err != nil {
		return AddEpisodesResult{}, err
	}
	result := AddEpisodesResult{Success: env.Success, Code: env.Code}
	if env.Success && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &result.Episodes); err != nil {
			return AddEpisodesResult{}, fmt.Errorf("decode response: %w", err)
		}
	}
	return result, nil
}

// RemoveEpisode deletes the given episode numbers from a project.
func (c *Client) RemoveEpisode(ctx context.Context, projectID string, episodes []int) (MutationResult, error) {
	body := struct {
		Episodes []int `json:"episodes"`
	}{Episodes: episodes}

	env, err := c.send(ctx, http.MethodDelete, projectPath(projectID, "episodes"), body)
	if err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Success: env.Success, Code: env.Code, Message: env.Message}, nil
}

// UpdateStaffAssignment assigns userID to role on a project.
func (c *Client) UpdateStaffAssignment(ctx context.Context, projectID string, role Role, userID string) (StaffResult, error) {
	body := struct {
		Role   Role   `json:"role"`
		UserID string `json:"user_id"`
	}{Role: role, UserID: userID}

	env, err := c.send(ctx, http.MethodPost, projectPath(projectID, "staff"), body)
	if err != nil {
		return StaffResult{}, err
	}
	result := StaffResult{Success: env.Success, Code: env.Code}
	if env.Success && len(env.Data) > 0 {
		var member StaffMember
		if err := json.Unmarshal(env.Data, &member); err != nil {
			return StaffResult{}, fmt.Errorf("decode response: %w", err)
		}
		result.ID = member.ID
		result.Name = member.Name
	}
	return result, nil
}

// FetchIdentity returns the member the token belongs to.
func (c *Client) FetchIdentity(ctx context.Context) (*Identity, error) {
	var out Identity
	if err := c.call(ctx, http.MethodGet, &url.URL{Path: "users/me"}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// call performs a request and decodes the envelope data into dest. A
// success=false envelope becomes an *APIError.
func (c *Client) call(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	env, err := c.send(ctx, method, rel, body)
	if err != nil {
		return err
	}
	if !env.Success {
		return &APIError{Status: env.status, Code: env.Code, Message: env.Message}
	}
	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type response struct {
	envelope
	status int
}

// send executes the request and returns the decoded envelope. Server errors
// and bodies that are not an envelope are transport failures.
func (c *Client) send(ctx context.Context, method string, rel *url.URL, body any) (response, error) {
	if c == nil {
		return response{}, fmt.Errorf("client is nil")
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return response{}, fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return response{}, fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
		}
		return response{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 {
		env.Success = false
	}
	return response{envelope: env, status: resp.StatusCode}, nil
}

func projectPath(id string, parts ...string) *url.URL {
	id = strings.TrimSpace(id)
	tail := ""
	if len(parts) > 0 {
		tail = "/" + strings.Join(parts, "/")
	}
	return &url.URL{
		Path:    "projects/" + id + tail,
		RawPath: "projects/" + url.PathEscape(id) + tail,
	}
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		trimmed = defaultServerURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server_url %q: %w", serverURL, err)
	}
	// Relative references resolve under the base path only with a trailing slash.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
