// Package ddapi is a thin HTTP client for the devildaggers.info-style
// submission/leaderboard service, covering every endpoint in spec.md §6.
// Grounded on the plain net/http + encoding/json idiom seen in
// ehrlich-b-wingthing/cmd/wt/update.go, with a uuid.New() request-id header
// added per SPEC_FULL.md's domain-stack expansion.
package ddapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrMissingSecrets names the missing-credentials error kind (spec.md §7
// "MissingSecrets"). No Client method returns it; submission reports
// missing secrets with ddsubmit.ErrMissingSecrets.
var ErrMissingSecrets = errors.New("ddapi: missing secrets")

// ErrHTTPNon200 wraps a non-200 response, propagating its body as the error
// message (spec.md §6: "All responses non-200 must propagate the body as
// the error message").
type ErrHTTPNon200 struct {
	StatusCode int
	Body       string
}

func (e *ErrHTTPNon200) Error() string {
	return fmt.Sprintf("ddapi: non-200 response (%d): %s", e.StatusCode, e.Body)
}

// Client is a thin wrapper around an http.Client and a base URL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New constructs a Client against baseURL (e.g. "https://devildaggers.info/").
func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: http.DefaultClient}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	u := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	if query != nil {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("ddapi: build request: %w", err)
	}
	req.Header.Set("X-Request-Id", uuid.New().String())
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ddapi: %s %s: %w", method, path, err)
	}
	return resp, nil
}

// checkStatus reads and returns the body, propagating a non-200 response as
// ErrHTTPNon200 per spec.md §6.
func checkStatus(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ddapi: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return body, &ErrHTTPNon200{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func decodeJSON[T any](body []byte, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	var v T
	if unmarshalErr := json.Unmarshal(body, &v); unmarshalErr != nil {
		return zero, fmt.Errorf("ddapi: decode response: %w", unmarshalErr)
	}
	return v, nil
}

// ProcessMemoryMarker is the discovery hint returned for a block marker
// override (spec.md §6 "api/process-memory/marker").
type ProcessMemoryMarker struct {
	Value uint64 `json:"value"`
}

// ProcessMemoryMarker fetches the block-marker hint for operatingSystem
// ("Windows" or "Linux").
func (c *Client) ProcessMemoryMarker(ctx context.Context, operatingSystem string) (ProcessMemoryMarker, error) {
	q := url.Values{"operatingSystem": {operatingSystem}}
	resp, err := c.do(ctx, http.MethodGet, "api/process-memory/marker", q, nil, "")
	if err != nil {
		return ProcessMemoryMarker{}, err
	}
	body, err := checkStatus(resp)
	return decodeJSON[ProcessMemoryMarker](body, err)
}

// ToolMetadata is the payload returned for a named tool (spec.md §6
// "api/tools/<tool-name>").
type ToolMetadata struct {
	Name            string `json:"name"`
	DisplayName     string `json:"displayName"`
	VersionNumber   string `json:"versionNumber"`
	Changelog       string `json:"changelog"`
}

// ToolMetadata fetches metadata for toolName.
func (c *Client) ToolMetadata(ctx context.Context, toolName string) (ToolMetadata, error) {
	resp, err := c.do(ctx, http.MethodGet, "api/tools/"+url.PathEscape(toolName), nil, nil, "")
	if err != nil {
		return ToolMetadata{}, err
	}
	body, err := checkStatus(resp)
	return decodeJSON[ToolMetadata](body, err)
}

// IntegrationVersion is the result of api/integrations/ddstats-rust.
type IntegrationVersion struct {
	RequiredVersion string `json:"requiredVersion"`
}

// IntegrationVersion fetches the required client version for this
// integration (spec.md §6 "api/integrations/ddstats-rust").
func (c *Client) IntegrationVersion(ctx context.Context) (IntegrationVersion, error) {
	resp, err := c.do(ctx, http.MethodGet, "api/integrations/ddstats-rust", nil, nil, "")
	if err != nil {
		return IntegrationVersion{}, err
	}
	body, err := checkStatus(resp)
	return decodeJSON[IntegrationVersion](body, err)
}

// LeaderboardEntry is one row of a leaderboard payload. The service's exact
// schema is external (spec.md §6 "specified only by contract"); fields here
// cover the identity/summary data the submission and lookup flows need.
type LeaderboardEntry struct {
	ID       int64  `json:"id"`
	Rank     int64  `json:"rank"`
	Username string `json:"username"`
	Time     int64  `json:"time"`
}

// LeaderboardPage is the list response from api/leaderboards.
type LeaderboardPage struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// Leaderboard fetches leaderboard entries starting at rankStart
// (spec.md §6 "api/leaderboards?rankStart=N").
func (c *Client) Leaderboard(ctx context.Context, rankStart int64) (LeaderboardPage, error) {
	q := url.Values{"rankStart": {strconv.FormatInt(rankStart, 10)}}
	resp, err := c.do(ctx, http.MethodGet, "api/leaderboards", q, nil, "")
	if err != nil {
		return LeaderboardPage{}, err
	}
	body, err := checkStatus(resp)
	return decodeJSON[LeaderboardPage](body, err)
}

// LeaderboardEntryByID fetches a single entry by id
// (spec.md §6 "api/leaderboards/entry/by-id?id=N").
func (c *Client) LeaderboardEntryByID(ctx context.Context, id int64) (LeaderboardEntry, error) {
	q := url.Values{"id": {strconv.FormatInt(id, 10)}}
	resp, err := c.do(ctx, http.MethodGet, "api/leaderboards/entry/by-id", q, nil, "")
	if err != nil {
		return LeaderboardEntry{}, err
	}
	body, err := checkStatus(resp)
	return decodeJSON[LeaderboardEntry](body, err)
}

// LeaderboardEntryByUsername fetches a single entry by username
// (spec.md §6 "api/leaderboards/entry/by-username?username=S").
func (c *Client) LeaderboardEntryByUsername(ctx context.Context, username string) (LeaderboardEntry, error) {
	q := url.Values{"username": {username}}
	resp, err := c.do(ctx, http.MethodGet, "api/leaderboards/entry/by-username", q, nil, "")
	if err != nil {
		return LeaderboardEntry{}, err
	}
	body, err := checkStatus(resp)
	return decodeJSON[LeaderboardEntry](body, err)
}

// LeaderboardEntryByRank fetches a single entry by rank
// (spec.md §6 "api/leaderboards/entry/by-rank?rank=N").
func (c *Client) LeaderboardEntryByRank(ctx context.Context, rank int64) (LeaderboardEntry, error) {
	q := url.Values{"rank": {strconv.FormatInt(rank, 10)}}
	resp, err := c.do(ctx, http.MethodGet, "api/leaderboards/entry/by-rank", q, nil, "")
	if err != nil {
		return LeaderboardEntry{}, err
	}
	body, err := checkStatus(resp)
	return decodeJSON[LeaderboardEntry](body, err)
}

// SpawnsetDescriptor is one entry of the spawnsets listing.
type SpawnsetDescriptor struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Author string `json:"author"`
	MD5    string `json:"md5"`
}

// SpawnsetsList fetches spawnset descriptors filtered by author/name
// (spec.md §6 "api/spawnsets/ddse?authorFilter=&nameFilter=").
func (c *Client) SpawnsetsList(ctx context.Context, authorFilter, nameFilter string) ([]SpawnsetDescriptor, error) {
	q := url.Values{"authorFilter": {authorFilter}, "nameFilter": {nameFilter}}
	resp, err := c.do(ctx, http.MethodGet, "api/spawnsets/ddse", q, nil, "")
	if err != nil {
		return nil, err
	}
	body, err := checkStatus(resp)
	return decodeJSON[[]SpawnsetDescriptor](body, err)
}

// SpawnsetWithLeaderboard is the combined payload from api/spawnsets/by-hash.
type SpawnsetWithLeaderboard struct {
	Spawnset          SpawnsetDescriptor `json:"spawnset"`
	CustomLeaderboard LeaderboardPage    `json:"customLeaderboard"`
}

// encodeRawHash percent-encodes a raw-MD5 base64 string's `=`, `/`, `+`
// characters per spec.md §6's literal instruction for the by-hash query
// parameter.
func encodeRawHash(rawMD5 [16]byte) string {
	b64 := base64.StdEncoding.EncodeToString(rawMD5[:])
	replacer := strings.NewReplacer("=", "%3D", "/", "%2F", "+", "%2B")
	return replacer.Replace(b64)
}

// SpawnsetByHash fetches a spawnset and its custom-leaderboard summary by
// raw MD5 hash (spec.md §6 "api/spawnsets/by-hash?hash=...").
func (c *Client) SpawnsetByHash(ctx context.Context, rawMD5 [16]byte) (SpawnsetWithLeaderboard, error) {
	path := "api/spawnsets/by-hash?hash=" + encodeRawHash(rawMD5)
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return SpawnsetWithLeaderboard{}, err
	}
	body, err := checkStatus(resp)
	return decodeJSON[SpawnsetWithLeaderboard](body, err)
}

// CustomLeaderboardExists issues the HEAD probe for a custom leaderboard's
// existence (spec.md §6 "HEAD api/ddcl/custom-leaderboards/exists?hash=...").
func (c *Client) CustomLeaderboardExists(ctx context.Context, rawMD5 [16]byte) (bool, error) {
	path := "api/ddcl/custom-leaderboards/exists?hash=" + encodeRawHash(rawMD5)
	resp, err := c.do(ctx, http.MethodHead, path, nil, nil, "")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// CustomEntryReplay fetches the raw replay bytes for a custom-leaderboard
// entry (spec.md §6 "api/custom-entries/<id>/replay").
func (c *Client) CustomEntryReplay(ctx context.Context, id int64) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("api/custom-entries/%d/replay", id), nil, nil, "")
	if err != nil {
		return nil, err
	}
	return checkStatus(resp)
}

// SubmitRun posts a pre-built submission body (ddsubmit.SubmitRunRequest)
// to api/custom-entries/submit (spec.md §6, §4.T).
func (c *Client) SubmitRun(ctx context.Context, submission any) error {
	payload, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("ddapi: encode submission: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "api/custom-entries/submit", nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return err
	}
	_, err = checkStatus(resp)
	return err
}
