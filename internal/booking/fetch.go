package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"spotwatch/internal/config"
	appLog "spotwatch/internal/log"
)

// requestTimeout is the fixed per-request deadline applied to every
// network call in the system.
const requestTimeout = 30 * time.Second

// Client is the transport handle shared by the schedule and
// event-detail fetches. Acquire one per run and Close it on every exit
// path.
type Client struct {
	http *http.Client
	cfg  *config.Config
}

// NewClient creates a Client for the endpoints described by cfg.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		http: &http.Client{
			Timeout: requestTimeout,
		},
		cfg: cfg,
	}
}

// Close releases the underlying transport.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// schedulePage is the envelope of one schedule listing page. Results is
// kept raw so a present-but-not-an-array value can be reported as a
// malformed response instead of a generic decode error.
type schedulePage struct {
	Results json.RawMessage `json:"results"`
}

// FetchSchedule downloads the configured schedule pages for the
// inclusive date window [start, end] and concatenates their results in
// page order. A zero start defaults to today; a zero end defaults to
// start + WindowDays. The first failing page aborts the whole fetch.
func (c *Client) FetchSchedule(ctx context.Context, start, end time.Time) ([]RawScheduleEntry, error) {
	if start.IsZero() {
		start = time.Now()
	}
	if end.IsZero() {
		end = start.AddDate(0, 0, c.cfg.WindowDays)
	}

	aggregated := make([]RawScheduleEntry, 0)

	for _, page := range c.cfg.Pages {
		entries, err := c.fetchSchedulePage(ctx, page, start, end)
		if err != nil {
			return nil, err
		}
		aggregated = append(aggregated, entries...)
	}

	appLog.Info("schedule fetch done",
		"pages", len(c.cfg.Pages),
		"entries", len(aggregated),
		"date_from", start.Format("2006-01-02"),
		"date_to", end.Format("2006-01-02"),
	)

	return aggregated, nil
}

func (c *Client) fetchSchedulePage(ctx context.Context, page int, start, end time.Time) ([]RawScheduleEntry, error) {
	params := url.Values{}
	params.Set("sort", "start_time")
	params.Set("is_canceled", "false")
	params.Set("unit_list", c.cfg.UnitList)
	params.Set("activity_list", c.cfg.ActivityList)
	params.Set("timezone_from_unit", c.cfg.TimezoneFromUnit)
	params.Set("page", strconv.Itoa(page))
	params.Set("date_from", start.Format("2006-01-02"))
	params.Set("date_to", end.Format("2006-01-02"))

	reqURL := c.cfg.ScheduleURL + "?" + params.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var payload schedulePage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &MalformedResponseError{URL: c.cfg.ScheduleURL, Reason: "schedule payload is not a JSON object", Err: err}
	}

	// Absent or null results means an empty page; present but not an
	// array is a malformed response.
	raw := strings.TrimSpace(string(payload.Results))
	if raw == "" || raw == "null" {
		return nil, nil
	}
	if !strings.HasPrefix(raw, "[") {
		return nil, &MalformedResponseError{URL: c.cfg.ScheduleURL, Reason: "'results' is not a list"}
	}

	var entries []RawScheduleEntry
	if err := json.Unmarshal(payload.Results, &entries); err != nil {
		return nil, &MalformedResponseError{URL: c.cfg.ScheduleURL, Reason: "'results' entries do not decode", Err: err}
	}

	appLog.Debug("schedule page fetched", "page", page, "entries", len(entries))
	return entries, nil
}

// FetchEventDetail retrieves the full payload for one event token from
// <EventURL><token>/.
func (c *Client) FetchEventDetail(ctx context.Context, token string) (*EventDetail, error) {
	reqURL := fmt.Sprintf("%s%s/", c.cfg.EventURL, token)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var detail EventDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, &MalformedResponseError{URL: reqURL, Reason: "event payload does not decode", Err: err}
	}

	appLog.Debug("event detail fetched", "token", token, "map_spots", len(detail.MapSpots))
	return &detail, nil
}

// get issues one GET and returns the body, mapping any non-2xx status
// to a *TransportError. No retries; no caching.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &TransportError{URL: reqURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}

// RedactURL hides the path and query of a URL for logging and error
// reporting purposes.
func RedactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := strings.Index(u, "://")
	if i == -1 {
		return "https://...(redacted)"
	}

	j := strings.IndexByte(u[i+3:], '/')
	if j == -1 {
		return u
	}

	return u[:i+3+j] + redactedSuffix
}
