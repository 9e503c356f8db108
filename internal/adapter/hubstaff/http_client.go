package hubstaff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hubstaff-report/internal/domain"
)

const (
	signinPath        = "/v454/account/signin"
	organizationsPath = "/v454/institution"

	// DefaultTimeout applies to each request when none is configured.
	DefaultTimeout = 10 * time.Second
)

// Client implements ports.HubstaffClient against the Hubstaff v454 API.
// A Client belongs to a single run; the auth token it obtains is never refreshed.
type Client struct {
	creds     domain.Credentials
	http      *http.Client
	authToken string
	log       *slog.Logger
}

func NewClient(creds domain.Credentials, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		creds: creds,
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Authenticate signs in with email and password and keeps the returned token.
// POST /v454/account/signin (multipart form: email, password)
func (c *Client) Authenticate(ctx context.Context) error {
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	if err := mw.WriteField("email", c.creds.Email); err != nil {
		return err
	}
	if err := mw.WriteField("password", c.creds.Password); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}
	header := http.Header{}
	header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.do(ctx, http.MethodPost, signinPath, nil, header, &form)
	if err != nil {
		return err
	}
	var raw rawAuthToken
	if err := decode(body, &raw); err != nil {
		return err
	}
	if raw.AuthToken == "" {
		return fmt.Errorf("%w: signin response has no auth_token", domain.ErrNetwork)
	}
	c.authToken = raw.AuthToken
	return nil
}

// ListOrganizations fetches every organization visible to the account, following pagination.
// GET /v454/institution
func (c *Client) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}
	var out []domain.Organization
	err := c.paginate(ctx, organizationsPath, url.Values{}, nil, func(raw json.RawMessage) (*rawPagination, error) {
		var page rawOrganizationsPage
		if err := decode(raw, &page); err != nil {
			return nil, err
		}
		for _, o := range page.Organizations {
			out = append(out, domain.Organization{ID: o.ID, Name: o.Name})
		}
		return page.Pagination, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListDailyActivities fetches daily activities with their users and projects for [r.Start, r.End].
// GET /v454/institution/{id}/operations/by_day?include=users,projects
// The range travels in the DateStart and DateStop headers.
func (c *Client) ListDailyActivities(ctx context.Context, organizationID int64, r domain.DateRange) (domain.DailyActivities, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return domain.DailyActivities{}, err
	}
	path := fmt.Sprintf("%s/%d/operations/by_day", organizationsPath, organizationID)
	query := url.Values{}
	query.Set("include", "users,projects")
	header := http.Header{}
	header.Set("DateStart", r.StartString())
	header.Set("DateStop", r.EndString())

	var out domain.DailyActivities
	seenUser := make(map[int64]bool)
	seenProject := make(map[int64]bool)
	err := c.paginate(ctx, path, query, header, func(raw json.RawMessage) (*rawPagination, error) {
		var page rawDailyActivitiesPage
		if err := decode(raw, &page); err != nil {
			return nil, err
		}
		for _, a := range page.DailyActivities {
			var taskPtr *int64
			if a.TaskID != nil {
				id := *a.TaskID
				taskPtr = &id
			}
			out.Entries = append(out.Entries, domain.TimeEntry{
				ID:          a.ID,
				Date:        a.Date,
				UserID:      a.UserID,
				ProjectID:   a.ProjectID,
				TaskID:      taskPtr,
				TrackedSec:  a.Tracked,
				ManualSec:   a.Manual,
				BillableSec: a.Billable,
			})
		}
		for _, u := range page.Users {
			if seenUser[u.ID] {
				continue
			}
			seenUser[u.ID] = true
			out.Users = append(out.Users, domain.User{
				ID:        u.ID,
				Name:      u.Name,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Email:     u.Email,
				TimeZone:  u.TimeZone,
				Status:    u.Status,
			})
		}
		for _, p := range page.Projects {
			if seenProject[p.ID] {
				continue
			}
			seenProject[p.ID] = true
			out.Projects = append(out.Projects, domain.Project{
				ID:       p.ID,
				Name:     p.Name,
				Status:   p.Status,
				Billable: p.Billable,
			})
		}
		return page.Pagination, nil
	})
	if err != nil {
		return domain.DailyActivities{}, err
	}
	return out, nil
}

func (c *Client) ensureAuthenticated(ctx context.Context) error {
	if c.authToken != "" {
		return nil
	}
	return c.Authenticate(ctx)
}

// paginate requests path until the response carries no pagination block.
// Each following request sets page_start_id to the previous next_page_start_id.
func (c *Client) paginate(ctx context.Context, path string, query url.Values, header http.Header, page func(raw json.RawMessage) (*rawPagination, error)) error {
	seen := make(map[int64]bool)
	for {
		raw, err := c.do(ctx, http.MethodGet, path, query, header, nil)
		if err != nil {
			return err
		}
		next, err := page(raw)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		if seen[next.NextPageStartID] {
			return fmt.Errorf("%w: %s: pagination repeats page_start_id %d", domain.ErrNetwork, path, next.NextPageStartID)
		}
		seen[next.NextPageStartID] = true
		query.Set("page_start_id", strconv.FormatInt(next.NextPageStartID, 10))
	}
}

// do performs one request and returns the raw JSON body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, header http.Header, body io.Reader) (json.RawMessage, error) {
	u, err := url.Parse(c.creds.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base url %q: %v", domain.ErrConfiguration, c.creds.BaseURL, err)
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	// Logged before the token is attached.
	c.log.Info("hubstaff request",
		slog.String("method", method),
		slog.String("path", u.Path),
		slog.String("query", q.Encode()),
	)
	if c.authToken != "" {
		q.Set("auth_token", c.authToken)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("AppToken", c.creds.AppToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: hubstaff rejected credentials (status %d): %s", domain.ErrAuthentication, resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: hubstaff: unexpected status %d on %s %s: %s", domain.ErrNetwork, resp.StatusCode, method, path, strings.TrimSpace(string(excerpt)))
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s %s: decode response: %v", domain.ErrNetwork, method, path, err)
	}
	return raw, nil
}

func decode(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: malformed response: %v", domain.ErrNetwork, err)
	}
	return nil
}
