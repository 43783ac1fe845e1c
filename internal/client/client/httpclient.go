package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/logging"
	"github.com/sony/gobreaker"
)

// Options tunes an HTTPClient. Zero values fall back to defaults.
type Options struct {
	Timeout        time.Duration
	BreakerTimeout time.Duration
	// HTTPClient replaces the default client; its Timeout wins over Timeout.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// HTTPClient implements Client over the TrackMate REST API. Transport-class
// failures trip a circuit breaker so an unreachable API fails fast.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     logging.Logger
}

// NewHTTPClient builds a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, opts Options) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 15 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		log:     opts.Logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "trackmate-api",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures >= 5 || (counts.Requests >= 3 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if c.log != nil {
				c.log.Warn(context.Background(), "api circuit state changed", "from", from.String(), "to", to.String())
			}
		},
	})
	return c
}

// Available reports whether requests are currently let through.
func (c *HTTPClient) Available() bool {
	return c.breaker.State() != gobreaker.StateOpen
}

type response struct {
	status int
	body   []byte
}

// errServerStatus marks a 5xx answer inside the breaker so it counts as a failure.
type errServerStatus struct {
	resp *response
}

func (e *errServerStatus) Error() string {
	return fmt.Sprintf("server error: status=%d", e.resp.status)
}

// do sends one JSON request and classifies the outcome. On success the
// returned response has a 2xx status.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) (*response, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.roundTrip(ctx, method, path, payload)
		if err != nil {
			return nil, err
		}
		if resp.status >= http.StatusInternalServerError {
			return nil, &errServerStatus{resp: resp}
		}
		return resp, nil
	})

	if err != nil {
		var se *errServerStatus
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, common.NewError(common.KindTransport, "service temporarily unavailable", ErrUnavailable)
		case errors.As(err, &se):
			c.debug(ctx, method, path, se.resp.status)
			msg := apiMessage(se.resp.body)
			return nil, common.NewError(common.KindTransport, msg, fmt.Errorf("%w: status %d", ErrUnavailable, se.resp.status))
		default:
			return nil, common.NewError(common.KindTransport, "", fmt.Errorf("%w: %v", ErrUnavailable, err))
		}
	}

	resp := out.(*response)
	c.debug(ctx, method, path, resp.status)

	switch {
	case resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden:
		return nil, common.NewError(common.KindAuth, apiMessage(resp.body), ErrUnauthorized)
	case resp.status >= http.StatusBadRequest:
		return nil, common.NewError(common.KindRemote, apiMessage(resp.body), fmt.Errorf("status %d", resp.status))
	}
	return resp, nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, payload any) (*response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &response{status: resp.StatusCode, body: b}, nil
}

func (c *HTTPClient) debug(ctx context.Context, method, path string, status int) {
	if c.log != nil {
		c.log.Debug(ctx, "api call", "method", method, "path", path, "status", status)
	}
}

// apiMessage extracts the human-readable text of an API answer, preferring
// "message" over "error". It returns "" when the body has neither.
func apiMessage(body []byte) string {
	var m struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return common.NewError(common.KindDataShape, "", fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}

type grantResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	User    *struct {
		ID string `json:"_id"`
	} `json:"user"`
}

func (g grantResponse) grant() models.SessionGrant {
	out := models.SessionGrant{Token: g.Token, UserID: g.UserID, Message: g.Message}
	if out.UserID == "" && g.User != nil {
		out.UserID = g.User.ID
	}
	return out
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (models.SessionGrant, error) {
	payload := map[string]string{
		"email":    creds.Email,
		"password": string(creds.Password),
		"role":     string(creds.Role),
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", payload)
	if err != nil {
		return models.SessionGrant{}, err
	}

	var gr grantResponse
	if err := decode(resp.body, &gr); err != nil {
		return models.SessionGrant{}, err
	}
	return gr.grant(), nil
}

func (c *HTTPClient) RequestOTP(ctx context.Context, purpose models.Purpose, email string) (string, error) {
	path := "/api/auth/send-otp"
	if purpose == models.PurposeReset {
		path = "/api/auth/forgot-password"
	}
	resp, err := c.do(ctx, http.MethodPost, path, map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	return apiMessage(resp.body), nil
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, code string) (models.OTPVerification, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": email, "otp": code})
	if err != nil {
		return models.OTPVerification{}, err
	}

	var gr grantResponse
	if err := decode(resp.body, &gr); err != nil {
		return models.OTPVerification{}, err
	}
	if gr.Success == nil {
		return models.OTPVerification{}, common.NewError(common.KindDataShape, "", fmt.Errorf("%w: missing success flag", ErrMalformedResponse))
	}
	return models.OTPVerification{Success: *gr.Success, Message: gr.Message, Grant: gr.grant()}, nil
}

func (c *HTTPClient) VerifyResetOTP(ctx context.Context, email, code string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/verify-reset-otp", map[string]string{"email": email, "otp": code})
	if err != nil {
		return "", err
	}
	return apiMessage(resp.body), nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email string, newPassword []byte) (string, error) {
	payload := map[string]string{"email": email, "newPassword": string(newPassword)}
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/reset-password", payload)
	if err != nil {
		return "", err
	}
	return apiMessage(resp.body), nil
}

func (c *HTTPClient) ListEmployees(ctx context.Context) ([]*models.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/auth/employees", nil)
	if err != nil {
		return nil, err
	}

	var users []*models.User
	if err := decode(resp.body, &users); err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}

// compactUsers drops null entries of a roster answer.
func compactUsers(users []*models.User) []*models.User {
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u != nil {
			out = append(out, u)
		}
	}
	return out
}

func (c *HTTPClient) UpdateDepartment(ctx context.Context, employeeID string, department models.Department) (*models.User, error) {
	path := "/api/auth/employees/" + escape(employeeID) + "/department"
	resp, err := c.do(ctx, http.MethodPut, path, map[string]string{"department": string(department)})
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := decode(resp.body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, employeeID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/auth/users/"+escape(employeeID), nil)
	return err
}

func (c *HTTPClient) ListTasks(ctx context.Context, employeeID string) ([]models.Task, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/tasks/"+escape(employeeID), nil)
	if err != nil {
		return nil, err
	}
	return decodeTasks(resp.body)
}

// decodeTasks accepts a bare array or a {"data": [...]} envelope. An object
// carrying only "error" is a rejection even under a 2xx status.
func decodeTasks(body []byte) ([]models.Task, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tasks []models.Task
		if err := decode(trimmed, &tasks); err != nil {
			return nil, err
		}
		return tasks, nil
	}

	var envelope struct {
		Data  *[]models.Task `json:"data"`
		Error string         `json:"error"`
	}
	if err := decode(trimmed, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data != nil {
		return *envelope.Data, nil
	}
	if envelope.Error != "" {
		return nil, common.NewError(common.KindRemote, envelope.Error, nil)
	}
	return nil, common.NewError(common.KindDataShape, "", fmt.Errorf("%w: no task list", ErrMalformedResponse))
}

func (c *HTTPClient) AssignTask(ctx context.Context, employeeID string, draft models.TaskDraft) (*models.Task, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/tasks/"+escape(employeeID), draft)
	if err != nil {
		return nil, err
	}

	var t models.Task
	if err := decode(resp.body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, taskID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/tasks/"+escape(taskID), nil)
	return err
}
