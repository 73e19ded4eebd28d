package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/okian/scoring/internal/domain/auth"
	"github.com/okian/scoring/internal/domain/model"
)

// Reply is the decoded response envelope.
type Reply struct {
	Code      int             `json:"code"`
	Response  json.RawMessage `json:"response,omitempty"`
	Error     string          `json:"error,omitempty"`
	RequestID string          `json:"-"`
}

// Err returns nil for a 200 reply and ErrMethodError otherwise.
func (r *Reply) Err() error {
	if r.Code == http.StatusOK {
		return nil
	}
	return fmt.Errorf("%w: %d %s", ErrMethodError, r.Code, r.Error)
}

// ScoreArgs are the online_score arguments. Empty strings and a nil
// Gender are left out of the request.
type ScoreArgs struct {
	Phone     string
	Email     string
	FirstName string
	LastName  string
	Birthday  string
	Gender    *int
}

func (a ScoreArgs) object() *model.Object {
	o := model.NewObject()
	set := func(k, v string) {
		if v != "" {
			o.Set(k, v)
		}
	}
	set("phone", a.Phone)
	set("email", a.Email)
	set("first_name", a.FirstName)
	set("last_name", a.LastName)
	set("birthday", a.Birthday)
	if a.Gender != nil {
		o.Set("gender", *a.Gender)
	}
	return o
}

// ClientInterests is one entry of a clients_interests reply.
type ClientInterests struct {
	ID        string
	Interests []string
}

// Client calls the scoring API with signed envelopes.
type Client struct {
	cfg     Config
	http    *http.Client
	checker *auth.Checker
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClock sets the clock used for admin tokens and generated arguments.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
			c.checker = newChecker(c.cfg, now)
		}
	}
}

// New creates a Client.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		checker: newChecker(cfg, time.Now),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newChecker(cfg Config, now func() time.Time) *auth.Checker {
	return auth.NewChecker(
		auth.WithSalt(cfg.Salt),
		auth.WithAdminSalt(cfg.AdminSalt),
		auth.WithAdminLogin(cfg.AdminLogin),
		auth.WithClock(now),
	)
}

// Token returns the token the service expects for the configured caller.
func (c *Client) Token() string {
	return c.checker.ExpectedToken(model.Envelope{Account: c.cfg.Account, Login: c.cfg.Login})
}

// Envelope builds a signed request body.
func (c *Client) Envelope(method string, args *model.Object) *model.Object {
	if args == nil {
		args = model.NewObject()
	}
	o := model.NewObject()
	o.Set(model.KeyAccount, c.cfg.Account)
	o.Set(model.KeyLogin, c.cfg.Login)
	o.Set(model.KeyMethod, method)
	o.Set(model.KeyToken, c.Token())
	o.Set(model.KeyArguments, args)
	return o
}

// Call posts a signed envelope to /method.
func (c *Client) Call(ctx context.Context, method string, args *model.Object) (*Reply, error) {
	return c.post(ctx, c.Envelope(method, args))
}

func (c *Client) post(ctx context.Context, body any) (*Reply, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/method", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", newRequestID())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var reply Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadReply, err)
	}
	if reply.Code != resp.StatusCode {
		return nil, fmt.Errorf("%w: status %d carries code %d", ErrBadReply, resp.StatusCode, reply.Code)
	}
	reply.RequestID = resp.Header.Get("X-Request-ID")
	return &reply, nil
}

// Score calls online_score and returns the score.
func (c *Client) Score(ctx context.Context, args ScoreArgs) (float64, *Reply, error) {
	reply, err := c.Call(ctx, "online_score", args.object())
	if err != nil {
		return 0, nil, err
	}
	if err := reply.Err(); err != nil {
		return 0, reply, err
	}
	var out model.ScoreResponse
	if err := json.Unmarshal(reply.Response, &out); err != nil {
		return 0, reply, fmt.Errorf("%w: %w", ErrBadReply, err)
	}
	return out.Score, reply, nil
}

// Interests calls clients_interests and returns entries in reply order.
func (c *Client) Interests(ctx context.Context, ids []int, date string) ([]ClientInterests, *Reply, error) {
	args := model.NewObject()
	args.Set("client_ids", ids)
	if date != "" {
		args.Set("date", date)
	}
	reply, err := c.Call(ctx, "clients_interests", args)
	if err != nil {
		return nil, nil, err
	}
	if err := reply.Err(); err != nil {
		return nil, reply, err
	}

	obj := model.NewObject()
	if err := obj.UnmarshalJSON(reply.Response); err != nil {
		return nil, reply, fmt.Errorf("%w: %w", ErrBadReply, err)
	}
	out := make([]ClientInterests, 0, obj.Len())
	for _, id := range obj.Keys() {
		v, _ := obj.Get(id)
		list, ok := v.([]any)
		if !ok {
			return nil, reply, fmt.Errorf("%w: interests of %s are %T", ErrBadReply, id, v)
		}
		entry := ClientInterests{ID: id, Interests: make([]string, 0, len(list))}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, reply, fmt.Errorf("%w: interest of %s is %T", ErrBadReply, id, item)
			}
			entry.Interests = append(entry.Interests, s)
		}
		out = append(out, entry)
	}
	return out, reply, nil
}

// Health checks /healthz.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

func newRequestID() string {
	u := uuid.New()
	return fmt.Sprintf("%x", u[:])
}
