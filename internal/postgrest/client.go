package postgrest

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
	apierr "github.com/saforex/saforex-go/internal/errors"
	"github.com/saforex/saforex-go/internal/logger"
)

const (
	// Transport retry policy applied uniformly beneath every call:
	// up to 3 attempts, delay doubling from 1 second.
	maxRetries        = 2 // retries after the first attempt
	initialRetryDelay = 1 * time.Second
	maxRetryDelay     = 2 * time.Second

	requestTimeout = 15 * time.Second
)

// Client talks to the hosted table API. It is an explicit handle passed to
// every store constructor; nothing in this package holds global state.
type Client struct {
	http *resty.Client
}

// NewClient creates a table API client for the given platform URL and key.
func NewClient(baseURL, anonKey string) *Client {
	http := resty.New().
		SetBaseURL(baseURL+"/rest/v1").
		SetTimeout(requestTimeout).
		SetHeader("apikey", anonKey).
		SetHeader("Authorization", "Bearer "+anonKey).
		SetHeader("Cache-Control", "no-cache").
		SetHeader("X-Client-Info", "saforex-go").
		SetRetryCount(maxRetries).
		SetRetryWaitTime(initialRetryDelay).
		SetRetryMaxWaitTime(maxRetryDelay).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	http.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Log.Debug("table API request: " + req.Method + " " + req.URL)
		return nil
	})

	return &Client{http: http}
}

// Ping verifies that the table API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Head("/")
	if err != nil {
		return apierr.Network(err)
	}
	if resp.StatusCode() >= 500 {
		return apierr.Remote(resp.StatusCode(), "platform unavailable")
	}
	return nil
}

// request returns a prepared request bound to ctx.
func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// pgError is the error body the table API returns.
type pgError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// checkResponse converts a transport error or non-2xx response into a typed
// platform error. A unique-constraint violation is always a Conflict, even
// when the API reports it with a different status.
func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return apierr.Network(err)
	}
	if resp.IsSuccess() {
		return nil
	}

	var body pgError
	if uerr := json.Unmarshal(resp.Body(), &body); uerr == nil && body.Message != "" {
		if body.Code == "23505" {
			return apierr.Conflict(body.Message)
		}
		return apierr.Remote(resp.StatusCode(), body.Message)
	}
	return apierr.Remote(resp.StatusCode(), fmt.Sprintf("unexpected response: %s", resp.Status()))
}
