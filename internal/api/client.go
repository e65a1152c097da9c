// AngelaMos | 2026
// client.go

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/skadri1601/TradeSignal-sub000/internal/config"
	"github.com/skadri1601/TradeSignal-sub000/internal/core"
)

const tracerName = "tradesignal/api"

// TokenSource supplies the bearer token attached to outgoing requests.
// The session manager is the only implementation; nothing else reads
// the persisted token pair.
type TokenSource func() string

type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource TokenSource
	logger      *slog.Logger
	tracer      trace.Tracer
}

func NewClient(cfg config.APIConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

func (c *Client) SetTokenSource(src TokenSource) {
	c.tokenSource = src
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a JSON request and decodes a 2xx response body into out.
// Non-2xx responses and transport failures come back as *core.AppError.
func (c *Client) Do(
	ctx context.Context,
	method, path string,
	body, out any,
) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// PostForm sends a form-encoded request, used only by the login
// endpoint which the collaborator exposes as a form post.
func (c *Client) PostForm(
	ctx context.Context,
	path string,
	form url.Values,
	out any,
) error {
	req, err := c.newRequest(
		ctx,
		http.MethodPost,
		path,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.send(req, out)
}

func (c *Client) newRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	ctx, span := c.tracer.Start(
		req.Context(),
		fmt.Sprintf("%s %s", req.Method, req.URL.Path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
		),
	)
	defer span.End()

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.logger.Warn("request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
		)
		return core.NetworkError(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		appErr := core.ClassifyStatus(resp.StatusCode, readDetail(resp.Body))
		span.SetStatus(codes.Error, appErr.Kind.String())
		c.logger.Debug("request rejected",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"kind", appErr.Kind.String(),
		)
		return appErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return core.NewAppError(
				core.KindServer,
				resp.StatusCode,
				"the server returned an unreadable response",
				err,
			)
		}
	}

	return nil
}

type errorBody struct {
	Detail string `json:"detail"`
}

// readDetail pulls the backend's `detail` message out of an error body.
// Bodies that are not JSON, or JSON without a detail field, yield "".
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil {
		return ""
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	return body.Detail
}
