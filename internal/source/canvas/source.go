package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lms_sync/internal/domain"
)

const (
	SourceID   = "canvas"
	SourceName = "Canvas LMS"
)

// Config holds Canvas source configuration.
type Config struct {
	// Platform is the identifier stored on connections and units. Defaults
	// to SourceID.
	Platform            string
	CoursesPageSize     int
	AssignmentsPageSize int
	MaxPages            int
	Timeout             time.Duration
	MaxAttempts         int
	InitialBackoff      time.Duration
	MaxBackoff          time.Duration
	UserAgent           string
}

// Source is the Canvas REST client. One Source serves every owner; the
// credential travels with each call.
type Source struct {
	httpClient          *http.Client
	platform            string
	hosts               Allowlist
	coursesPageSize     int
	assignmentsPageSize int
	maxPages            int
	maxAttempts         int
	initialBackoff      time.Duration
	maxBackoff          time.Duration
	userAgent           string
	logger              *slog.Logger
}

// New creates a new Canvas source.
func New(cfg Config, hosts Allowlist, logger *slog.Logger) *Source {
	platform := cfg.Platform
	if platform == "" {
		platform = SourceID
	}
	s := &Source{
		platform:            platform,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			// Following a redirect would carry the token to an unchecked host.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		hosts:               hosts,
		coursesPageSize:     cfg.CoursesPageSize,
		assignmentsPageSize: cfg.AssignmentsPageSize,
		maxPages:            cfg.MaxPages,
		maxAttempts:         cfg.MaxAttempts,
		initialBackoff:      cfg.InitialBackoff,
		maxBackoff:          cfg.MaxBackoff,
		userAgent:           cfg.UserAgent,
		logger:              logger.With("source", platform),
	}
	if s.coursesPageSize <= 0 {
		s.coursesPageSize = 50
	}
	if s.assignmentsPageSize <= 0 {
		s.assignmentsPageSize = 100
	}
	if s.maxPages <= 0 {
		s.maxPages = 1000
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = 1
	}
	if s.userAgent == "" {
		s.userAgent = "LMSSync/1.0"
	}
	return s
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return s.platform
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// AllowedHost reports whether tokens may be sent to baseURL.
func (s *Source) AllowedHost(baseURL string) bool {
	return s.hosts.Allowed(baseURL)
}

// FetchProfile returns the token owner's profile. Used to verify a token.
func (s *Source) FetchProfile(ctx context.Context, cred domain.Credential) (*Profile, error) {
	u, err := s.endpoint(cred, "/api/v1/users/self/profile", nil)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if _, err := s.fetch(ctx, cred, u, &profile); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &profile, nil
}

// FetchCourses lists every course of the token owner, with enrollments,
// teachers and syllabus.
func (s *Source) FetchCourses(ctx context.Context, cred domain.Credential) ([]Course, error) {
	q := url.Values{}
	for _, include := range []string{"enrollments", "teachers", "syllabus_body"} {
		q.Add("include[]", include)
	}
	q.Set("per_page", strconv.Itoa(s.coursesPageSize))

	courses, err := Paginate[Course](ctx, s, cred, "/api/v1/courses", q)
	if err != nil {
		return nil, fmt.Errorf("fetch courses: %w", err)
	}
	return courses, nil
}

func (s *Source) FetchAssignmentGroups(ctx context.Context, cred domain.Credential, courseID string) ([]AssignmentGroup, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(s.assignmentsPageSize))

	groups, err := Paginate[AssignmentGroup](ctx, s, cred, "/api/v1/courses/"+url.PathEscape(courseID)+"/assignment_groups", q)
	if err != nil {
		return nil, fmt.Errorf("fetch assignment groups: %w", err)
	}
	return groups, nil
}

func (s *Source) FetchAssignments(ctx context.Context, cred domain.Credential, courseID string) ([]Assignment, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(s.assignmentsPageSize))

	assignments, err := Paginate[Assignment](ctx, s, cred, "/api/v1/courses/"+url.PathEscape(courseID)+"/assignments", q)
	if err != nil {
		return nil, fmt.Errorf("fetch assignments: %w", err)
	}
	return assignments, nil
}

// CountAssignments issues one per_page=1 request and reads the count off the
// rel="last" link. A nil count means the server did not say; it is never guessed.
func (s *Source) CountAssignments(ctx context.Context, cred domain.Credential, courseID string) (*int, error) {
	q := url.Values{}
	q.Set("per_page", "1")

	return s.Count(ctx, cred, "/api/v1/courses/"+url.PathEscape(courseID)+"/assignments", q)
}

// Count returns the size of a collection from pagination metadata alone.
func (s *Source) Count(ctx context.Context, cred domain.Credential, path string, query url.Values) (*int, error) {
	u, err := s.endpoint(cred, path, query)
	if err != nil {
		return nil, err
	}

	links, err := s.fetch(ctx, cred, u, nil)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", path, err)
	}
	return links.lastPage(), nil
}

// Paginate follows rel="next" links from path until none is left and returns
// every item in server order. Any failure invalidates the whole call.
func Paginate[T any](ctx context.Context, s *Source, cred domain.Credential, path string, query url.Values) ([]T, error) {
	next, err := s.endpoint(cred, path, query)
	if err != nil {
		return nil, err
	}

	all := make([]T, 0)
	seen := make(map[string]struct{})

	for page := 1; next != ""; page++ {
		if page > s.maxPages {
			return nil, fmt.Errorf("pagination exceeded %d pages", s.maxPages)
		}
		if _, dup := seen[next]; dup {
			return nil, fmt.Errorf("pagination loop at page %d", page)
		}
		seen[next] = struct{}{}

		var items []T
		links, err := s.fetch(ctx, cred, next, &items)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}

		all = append(all, items...)

		s.logger.Debug("fetched page",
			"path", path,
			"page", page,
			"items", len(items),
			"total", len(all),
		)

		next = links.Next
		if next != "" && !sameHost(cred.BaseURL, next) {
			return nil, fmt.Errorf("next link leaves %s: %w", cred.BaseURL, ErrHostNotAllowed)
		}
	}

	return all, nil
}

func (s *Source) endpoint(cred domain.Credential, path string, query url.Values) (string, error) {
	if !s.hosts.Allowed(cred.BaseURL) {
		return "", ErrHostNotAllowed
	}
	u := NormalizeBaseURL(cred.BaseURL) + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}

// fetch GETs url with retries on transient failures and decodes the body into
// out when out is non-nil.
func (s *Source) fetch(ctx context.Context, cred domain.Credential, url string, out any) (Links, error) {
	var links Links
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		links, err = s.doRequest(ctx, cred, url, out)
		if err == nil || !retryable(err) {
			return links, err
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return Links{}, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if s.maxAttempts > 1 {
		return Links{}, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
	}
	return Links{}, err
}

func (s *Source) doRequest(ctx context.Context, cred domain.Credential, url string, out any) (Links, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Links{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+cred.Token)
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Links{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Links{}, statusError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return Links{}, &decodeError{err: err}
		}
	}

	return parseLinks(resp.Header.Get("Link")), nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if s.maxBackoff > 0 && backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decode response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func retryable(err error) bool {
	if errors.Is(err, ErrCredentialExpired) || errors.Is(err, context.Canceled) {
		return false
	}
	var de *decodeError
	if errors.As(err, &de) {
		return false
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Temporary()
	}
	return true
}
