package facade

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	appconfig "github.com/karagozeren/akademiknet/config"
	"github.com/karagozeren/akademiknet/internal/server"
)

// SearchParams describes one researcher search.
type SearchParams struct {
	Name         string
	Email        string
	FieldID      int
	SpecialtyIDs []string
}

// Client talks to the orchestration API. Collaborator calls get a
// longer per-attempt timeout than searches because they may block on
// the full phase-2 poll window server-side.
type Client struct {
	cfg  appconfig.FacadeConfig
	http *resty.Client
	Log  *log.Logger
}

func NewClient(cfg appconfig.FacadeConfig) *Client {
	http := resty.New()
	http.SetBaseURL(cfg.BaseURL)
	http.SetHeader("content-type", "application/json")
	return &Client{
		cfg:  cfg,
		http: http,
		Log:  log.New(log.Writer(), "[FACADE] ", log.LstdFlags),
	}
}

// Search runs a researcher search and waits for the profile set.
func (c *Client) Search(ctx context.Context, params SearchParams) (*server.SearchResponse, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, validationErr("name is required")
	}
	body := server.SearchRequest{
		Name:         params.Name,
		Email:        params.Email,
		FieldID:      params.FieldID,
		SpecialtyIDs: params.SpecialtyIDs,
	}
	var out server.SearchResponse
	if err := c.post(ctx, "/api/search", body, &out, c.cfg.Timeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// Collaborators fetches (or launches and waits for) the collaborator
// set of a session. profileID selects which discovered profile to
// expand; nil returns current state only.
func (c *Client) Collaborators(ctx context.Context, sessionID string, profileID *int) (*server.CollaboratorsResponse, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, validationErr("sessionID is required")
	}
	body := server.CollaboratorsRequest{ProfileID: profileID}
	var out server.CollaboratorsResponse
	if err := c.post(ctx, "/api/collaborators/"+sessionID, body, &out, c.cfg.CollabTimeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// apiError is the error envelope the orchestration API emits.
type apiError struct {
	Error string `json:"error"`
}

// post retries on timeout and transport failure only; an HTTP status
// error is a definitive answer and returns immediately. Backoff is a
// fixed delay, no growth.
func (c *Client) post(ctx context.Context, path string, body, out interface{}, timeout time.Duration) error {
	var last *Error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 1 {
			c.Log.Printf("retrying %s (attempt %d/%d): %s", path, attempt, c.cfg.MaxRetries, last.Message)
			select {
			case <-ctx.Done():
				return &Error{Type: ErrTimeout, Message: ctx.Err().Error()}
			case <-time.After(c.cfg.RetryDelay):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		var envelope apiError
		res, err := c.http.R().
			SetContext(attemptCtx).
			SetBody(body).
			SetResult(out).
			SetError(&envelope).
			Post(path)
		deadlineHit := attemptCtx.Err() == context.DeadlineExceeded
		cancel()

		if err != nil {
			if deadlineHit || errors.Is(err, context.DeadlineExceeded) {
				last = &Error{Type: ErrTimeout, Message: fmt.Sprintf("%s exceeded %s", path, timeout)}
			} else {
				last = &Error{Type: ErrUnexpected, Message: err.Error()}
			}
			continue
		}
		if res.IsError() {
			msg := envelope.Error
			if msg == "" {
				msg = res.Status()
			}
			return &Error{
				Type:    ErrHTTP,
				Message: fmt.Sprintf("%s returned %d: %s", path, res.StatusCode(), msg),
			}
		}
		return nil
	}
	return last
}
