package hypothesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RequestOptions are the per-call overrides for Fetch.
type RequestOptions struct {
	// Method defaults to GET
	Method string
	// Body is sent as-is with a JSON content type
	Body []byte
	// Headers override the connection headers for this call
	Headers map[string]string
}

// Response is a successful (200 or 204) response.
type Response struct {
	StatusCode int
	Body       []byte

	readErr error
}

// Value decodes the body on a best-effort basis: true for 204, the parsed
// JSON value when the body is JSON, the raw text otherwise, and nil when the
// body could not be read at all. It never fails.
func (r *Response) Value() any {
	if r.StatusCode == http.StatusNoContent {
		return true
	}
	if r.readErr != nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(r.Body, &v); err == nil {
		return v
	}
	return string(r.Body)
}

// Fetch performs exactly one request to {BaseURL}/{path} and classifies the
// response. Any status other than 200 or 204 yields an *APIError.
func Fetch(ctx context.Context, conn ConnectionOptions, path string, opts *RequestOptions) (*Response, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	return do(ctx, conn, path, opts)
}

// do is Fetch without the connection check, for callers that already ran it.
func do(ctx context.Context, conn ConnectionOptions, path string, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	headers := requestHeaders(conn, method, opts)

	requestURL := conn.BaseURL + "/" + path
	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := applyHeaders(req, headers); err != nil {
		return nil, err
	}

	logger := conn.logger()
	start := time.Now()

	resp, err := conn.httpClient().Do(req)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)

	logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Hypothesis API request")

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return &Response{StatusCode: resp.StatusCode, Body: data, readErr: readErr}, nil
	default:
		return nil, newAPIError(resp.StatusCode, data, readErr)
	}
}

// requestHeaders merges the connection headers with the per-call overrides.
// POST and PATCH bodies get a Content-Length unless the caller set one.
func requestHeaders(conn ConnectionOptions, method string, opts *RequestOptions) map[string]string {
	headers := make(map[string]string, len(conn.Headers)+len(opts.Headers)+1)
	for k, v := range conn.Headers {
		headers[k] = v
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}
	if (method == http.MethodPost || method == http.MethodPatch) && len(opts.Body) > 0 {
		if _, ok := opts.Headers[HeaderContentLength]; !ok {
			headers[HeaderContentLength] = strconv.Itoa(len(opts.Body))
		}
	}
	return headers
}

// applyHeaders copies headers onto req. Host and Content-Length are request
// fields rather than plain headers in net/http.
func applyHeaders(req *http.Request, headers map[string]string) error {
	for k, v := range headers {
		switch k {
		case HeaderHost:
			req.Host = v
		case HeaderContentLength:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return &ValidationError{Target: "headers", Err: fmt.Errorf("%s: %w", HeaderContentLength, err)}
			}
			req.ContentLength = n
		default:
			req.Header.Set(k, v)
		}
	}
	return nil
}

// apiErrorBody is the documented error envelope.
type apiErrorBody struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// newAPIError extracts a reason from the error body: the structured reason
// first, then the raw text, then the generic status text.
func newAPIError(status int, body []byte, readErr error) *APIError {
	apiErr := &APIError{StatusCode: status, Title: StatusTitle(status)}

	var envelope apiErrorBody
	switch {
	case readErr == nil && decodeStrict(body, &envelope) == nil && envelope.Status == "failure":
		apiErr.Reason = envelope.Reason
	case readErr == nil && len(strings.TrimSpace(string(body))) > 0:
		apiErr.Reason = string(body)
	default:
		apiErr.Reason = http.StatusText(status)
		if apiErr.Reason == "" {
			apiErr.Reason = "status " + strconv.Itoa(status)
		}
	}

	return apiErr
}

// decode validates a successful response body as T.
func decode[T any](target string, resp *Response) (*T, error) {
	out, err := validateOutput[T](target, resp.Body)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// marshalBody serializes a validated request payload.
func marshalBody(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, nil
}
