package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/ryadom/ryadom/internal/apperrors"
	"github.com/ryadom/ryadom/internal/config"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Client forwards requests to backend services. One pooled http.Client is
// shared for the process lifetime; every call carries a bounded timeout on
// top of the caller's context. A per-backend circuit breaker sheds load when
// a downstream keeps failing at the transport level.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	breakers   map[string]*gobreaker.CircuitBreaker[*backendResponse]
	logger     *logrus.Logger
}

type backendResponse struct {
	status int
	body   []byte
}

func NewClient(cfg *config.DownstreamConfig, logger *logrus.Logger) *Client {
	c := &Client{
		httpClient: &http.Client{},
		timeout:    cfg.CallTimeout,
		breakers:   make(map[string]*gobreaker.CircuitBreaker[*backendResponse]),
		logger:     logger,
	}

	for _, baseURL := range []string{cfg.UsersBaseURL, cfg.EventsBaseURL, cfg.MapsBaseURL} {
		c.breakers[baseURL] = c.newBreaker(baseURL)
	}

	return c
}

func (c *Client) newBreaker(name string) *gobreaker.CircuitBreaker[*backendResponse] {
	return gobreaker.NewCircuitBreaker[*backendResponse](gobreaker.Settings{
		Name:     name,
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 10 &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.WithFields(logrus.Fields{
				"backend": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
}

// Do forwards one request and returns the downstream status and body.
// Transport failures and an open circuit surface as UpstreamUnavailable;
// downstream error statuses are translated so 400/401/404 keep their
// meaning and everything else collapses to a generic upstream error.
func (c *Client) Do(ctx context.Context, method, baseURL, path string, body interface{}) (int, []byte, error) {
	breaker, ok := c.breakers[baseURL]
	if !ok {
		return 0, nil, apperrors.Internal(fmt.Errorf("no downstream configured for %s", baseURL))
	}

	resp, err := breaker.Execute(func() (*backendResponse, error) {
		return c.roundTrip(ctx, method, baseURL, path, body)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, nil, apperrors.UpstreamUnavailable(err, false)
		}

		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return 0, nil, err
		}

		c.logger.WithError(err).WithField("backend", baseURL).Error("Downstream call failed")
		return 0, nil, apperrors.UpstreamUnavailable(err, isTimeout(err))
	}

	if resp.status >= 400 {
		return 0, nil, translateStatus(resp.status, resp.body)
	}

	return resp.status, resp.body, nil
}

// DoJSON forwards a request and decodes a successful JSON response into out.
func (c *Client) DoJSON(ctx context.Context, method, baseURL, path string, body, out interface{}) (int, error) {
	status, respBody, err := c.Do(ctx, method, baseURL, path, body)
	if err != nil {
		return 0, err
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return 0, apperrors.Upstream(http.StatusBadGateway, "Invalid response from upstream service")
		}
	}

	return status, nil
}

func (c *Client) roundTrip(ctx context.Context, method, baseURL, path string, body interface{}) (*backendResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Internal(fmt.Errorf("failed to marshal request body: %w", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reqBody)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to build downstream request: %w", err))
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &backendResponse{status: resp.StatusCode, body: respBody}, nil
}

// errorEnvelope is the shape backend services use for error responses.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func translateStatus(status int, body []byte) error {
	message := ""
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		message = envelope.Error.Message
	}

	switch status {
	case http.StatusNotFound:
		if message == "" {
			message = "Resource not found"
		}
		return apperrors.NotFound(message)
	case http.StatusBadRequest:
		if message == "" {
			message = "Invalid request"
		}
		return apperrors.Validation(message)
	case http.StatusUnauthorized:
		if message == "" {
			message = "Unauthorized"
		}
		return apperrors.InvalidToken(message)
	default:
		// Never leak downstream internals for other statuses.
		return apperrors.Upstream(http.StatusBadGateway, "Upstream service error")
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
