package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// apiCall describes one round trip to the service.
type apiCall struct {
	method string
	path   string
	query  url.Values

	// At most one of form and body is set. body is sent as JSON.
	form url.Values
	body any

	// basicUser/basicPass are sent with HTTP Basic when basicUser is set.
	basicUser, basicPass string
	bearer               string

	// status is the success status; 200 when zero.
	status int
	// out receives the decoded success body. Nil discards it.
	out any
}

func (a apiCall) target(base string) string {
	if len(a.query) == 0 {
		return base + a.path
	}
	return base + a.path + "?" + a.query.Encode()
}

func (a apiCall) payload() (io.Reader, string, error) {
	switch {
	case a.form != nil:
		return strings.NewReader(a.form.Encode()), formContentType, nil
	case a.body != nil:
		raw, err := json.Marshal(a.body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request: %w", err)
		}
		return bytes.NewReader(raw), "application/json", nil
	default:
		return nil, "", nil
	}
}

// send performs call and decodes the answer. Any status other than the
// expected one comes back as an *OAuth2Error.
func (c *SDKClient) send(ctx context.Context, call apiCall) error {
	payload, contentType, err := call.payload()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, call.method, call.target(c.BaseURL), payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if call.basicUser != "" {
		req.SetBasicAuth(call.basicUser, call.basicPass)
	}
	if call.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+call.bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", call.method, call.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	want := call.status
	if want == 0 {
		want = http.StatusOK
	}
	if resp.StatusCode != want {
		return parseErrorResponse(resp, raw)
	}

	if call.out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, call.out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// send attaches the session token, renewing it first when due. Calls are
// refused locally when the token carries none of anyOf.
func (s *Session) send(ctx context.Context, call apiCall, anyOf ...string) error {
	if err := s.checkScopes(anyOf...); err != nil {
		return err
	}

	token, err := s.getValidToken(ctx)
	if err != nil {
		return err
	}
	call.bearer = token

	return s.client.send(ctx, call)
}
