// Package client talks to the upstream REST API that owns sales, the
// catalog and user accounts.
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
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/sangkips/ventapett-pos/internal/config"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/metrics"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

// TokenSource supplies the upstream bearer token for the request's user.
// An empty token sends the request unauthenticated.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client is the upstream API client. It implements the sales, catalog,
// staff and auth gateways.
type Client struct {
	baseURL string
	base    *http.Client
	tokens  TokenSource
	metrics *metrics.Metrics
	log     *logrus.Logger
}

// New creates a client. tokens may be nil for unauthenticated use.
func New(cfg config.UpstreamConfig, tokens TokenSource, m *metrics.Metrics, log *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		base:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		metrics: m,
		log:     log,
	}
}

// SetTokenSource swaps the token source; used when the source is built after the client.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

func (c *Client) httpClient(ctx context.Context) (*http.Client, error) {
	if c.tokens == nil {
		return c.base, nil
	}
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return c.base, nil
	}

	baseTransport := c.base.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	return &http.Client{
		Timeout: c.base.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   baseTransport,
		},
	}, nil
}

// do sends one request. out may be nil; it otherwise receives the decoded
// body with numbers kept as json.Number.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, out any) error {
	started := time.Now()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode %s body: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("client: build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient, err := c.httpClient(ctx)
	if err != nil {
		return err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(op, "error", started)
		c.log.WithFields(logrus.Fields{"operation": op, "url": target}).WithError(err).Warn("upstream request failed")
		return apperror.ErrConnection
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveUpstream(op, "error", started)
		return apperror.ErrConnection
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.metrics.ObserveUpstream(op, "rejected", started)
		msg := errorMessage(payload)
		c.log.WithFields(logrus.Fields{"operation": op, "status": resp.StatusCode, "message": msg}).Warn("upstream rejected request")
		return apperror.NewUpstreamError(resp.StatusCode, msg)
	}

	c.metrics.ObserveUpstream(op, "ok", started)

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return apperror.NewUpstreamError(http.StatusBadGateway, "Unexpected response from the server")
	}
	return nil
}

// errorMessage pulls {message} out of an error body. NestJS-style bodies
// carry a list of messages.
func errorMessage(payload []byte) string {
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}

	switch m := body["message"].(type) {
	case string:
		return strings.TrimSpace(m)
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			if s, ok := p.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, "; ")
	}
	if s, ok := body["error"].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// records extracts the list of objects from a response that is either an
// array or an envelope around one. Non-object entries become empty records
// so the count is preserved.
func records(body any) []map[string]any {
	switch v := body.(type) {
	case []any:
		out := make([]map[string]any, len(v))
		for i, el := range v {
			if m, ok := el.(map[string]any); ok {
				out[i] = m
			} else {
				out[i] = map[string]any{}
			}
		}
		return out
	case map[string]any:
		for _, k := range []string{"data", "ventas", "transactions", "items", "productos", "categorias", "users", "usuarios"} {
			if inner, ok := v[k]; ok {
				if _, isList := inner.([]any); isList {
					return records(inner)
				}
				if _, isMap := inner.(map[string]any); isMap && k == "data" {
					return records(inner)
				}
			}
		}
		if summary, ok := utils.AsMap(v["resumen"]); ok {
			if list, ok := summary["transactions"].([]any); ok {
				return records(list)
			}
		}
	}
	return []map[string]any{}
}

// object unwraps {data: {...}} envelopes around a single resource.
func object(body any) map[string]any {
	m, ok := body.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	if inner, ok := utils.AsMap(m["data"]); ok {
		return inner
	}
	return m
}

// idValue sends numeric ids as numbers, the way the upstream stores them.
func idValue(id string) any {
	if id == "" {
		return nil
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

func resourcePath(collection, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", errors.New("client: empty resource id")
	}
	return collection + "/" + url.PathEscape(id), nil
}
