package finscreener

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Params carries the caller-supplied parameters for one call. Path values
// fill {name} segments of the descriptor's path template, Query is encoded
// into the URL, and Body is serialized as JSON for POST/PUT requests.
type Params struct {
	Path  map[string]string
	Query url.Values
	Body  any
}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeAuthExpired
	outcomeQuotaExceeded
	outcomeTimeout
	outcomeTransient
	outcomeFatal
)

// outcome is the dispatcher's classification of one executed call.
type outcome struct {
	kind    outcomeKind
	body    []byte
	status  int
	resetAt time.Time
	err     error
}

// execute builds and runs one HTTP call against the remote API and
// classifies the result. The response body is passed through untouched.
func (c *Client) execute(ctx context.Context, desc *EndpointDescriptor, params Params, token *oauth2.Token) *outcome {
	req, err := c.newRequest(ctx, desc, params, token)
	if err != nil {
		return &outcome{kind: outcomeFatal, err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, desc.Timeout)
	defer cancel()

	c.logger.Debug("dispatching request",
		zap.String("tool", desc.Tool),
		zap.String("method", desc.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return classifyTransportError(err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(err)
	}

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return &outcome{kind: outcomeSuccess, body: body, status: resp.StatusCode}
	case resp.StatusCode == http.StatusUnauthorized:
		return &outcome{kind: outcomeAuthExpired, status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &outcome{kind: outcomeQuotaExceeded, status: resp.StatusCode, resetAt: parseResetHint(body)}
	default:
		return &outcome{kind: outcomeFatal, status: resp.StatusCode, body: body}
	}
}

func (c *Client) newRequest(ctx context.Context, desc *EndpointDescriptor, params Params, token *oauth2.Token) (*http.Request, error) {
	path, err := expandPath(desc.Path, params.Path)
	if err != nil {
		return nil, err
	}

	u := c.url + apiRoot + path
	if len(params.Query) > 0 {
		u += "?" + params.Query.Encode()
	}

	var body io.Reader

	if params.Body != nil {
		b, err := json.Marshal(params.Body)
		if err != nil {
			return nil, err
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, u, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	return req, nil
}

// expandPath substitutes {name} segments with escaped values from the
// bound path parameters.
func expandPath(template string, values map[string]string) (string, error) {
	if !strings.Contains(template, "{") {
		return template, nil
	}

	segments := strings.Split(template, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}

		name := seg[1 : len(seg)-1]

		v, ok := values[name]
		if !ok || v == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingPathParam, name)
		}

		segments[i] = url.PathEscape(v)
	}

	return strings.Join(segments, "/"), nil
}

func classifyTransportError(err error) *outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return &outcome{kind: outcomeTimeout, err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &outcome{kind: outcomeTimeout, err: err}
	}

	return &outcome{kind: outcomeTransient, err: err}
}

// parseResetHint pulls the quota reset time out of a remote 429 body when
// the API provides one.
func parseResetHint(body []byte) time.Time {
	hint := struct {
		Detail struct {
			ResetsAt string `json:"resets_at"`
		} `json:"detail"`
	}{}

	if err := json.Unmarshal(body, &hint); err != nil {
		return time.Time{}
	}

	if hint.Detail.ResetsAt == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, hint.Detail.ResetsAt)
	if err != nil {
		return time.Time{}
	}

	return t
}
