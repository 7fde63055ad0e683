package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/otienod/zonedash/internal/profile"
)

const (
	signinPath  = "/api/auth/signin"
	graphqlPath = "/api/graphql-engine/v1/graphql"
)

// ErrUnauthorized is returned when the platform rejects the
// credentials or the bearer token. Callers should clear the stored
// session and re-prompt.
var ErrUnauthorized = errors.New("api: unauthorized")

// Client talks to the platform: a Basic-Auth signin exchange and one
// GraphQL endpoint. Transient failures (5xx, network) retry with
// exponential backoff; auth failures do not.
type Client struct {
	base string
	http *http.Client
	log  *logrus.Entry
}

func New(base string, log *logrus.Entry) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log,
	}
}

// SignIn exchanges credentials for a bearer token. The platform
// answers with either a bare JSON string or {"token": "..."}; both are
// accepted.
func (c *Client) SignIn(ctx context.Context, username, password string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+signinPath, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(username, password)
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("signin: %w", err)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return "", ErrUnauthorized
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("signin: unexpected status %d", status)
	}

	token := parseToken(body)
	if token == "" {
		return "", fmt.Errorf("signin: no token in response")
	}
	c.log.WithField("user", username).Info("signed in")
	return token, nil
}

// gqlEnvelope is the transport-level GraphQL response.
type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

type gqlError struct {
	Message string `json:"message"`
}

// FetchProfile runs the aliased profile query and decodes the raw
// collections. JWT errors surface as ErrUnauthorized so the caller can
// drop the stored token.
func (c *Client) FetchProfile(ctx context.Context, token, campus string) (profile.RawProfile, error) {
	payload, err := json.Marshal(map[string]string{"query": ProfileQuery(campus)})
	if err != nil {
		return profile.RawProfile{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+graphqlPath, bytes.NewReader(payload))
	if err != nil {
		return profile.RawProfile{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	body, status, err := c.do(req)
	if err != nil {
		return profile.RawProfile{}, fmt.Errorf("graphql: %w", err)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return profile.RawProfile{}, ErrUnauthorized
	}
	if status != http.StatusOK {
		return profile.RawProfile{}, fmt.Errorf("graphql: unexpected status %d", status)
	}

	var envelope gqlEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return profile.RawProfile{}, fmt.Errorf("graphql: decode envelope: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msg := envelope.Errors[0].Message
		if strings.Contains(msg, "JWT") || strings.Contains(strings.ToLower(msg), "token") {
			return profile.RawProfile{}, fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return profile.RawProfile{}, fmt.Errorf("graphql: %s", msg)
	}
	if len(envelope.Data) == 0 {
		// No data and no errors: treat as an intentionally empty
		// payload; the aggregation core tolerates it.
		return profile.RawProfile{}, nil
	}

	raw, err := profile.DecodeProfile(envelope.Data)
	if err != nil {
		return profile.RawProfile{}, fmt.Errorf("graphql: %w", err)
	}
	return raw, nil
}

// do executes the request, retrying network errors and 5xx responses.
// Requests without a body are safe to replay as-is; the GraphQL POST
// carries a bytes.Reader rebuilt via GetBody on each attempt.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	reqID := uuid.New().String()
	log := c.log.WithFields(logrus.Fields{"req_id": reqID, "url": req.URL.Path})

	var body []byte
	var status int

	attempt := func() error {
		r := req
		if req.GetBody != nil {
			rc, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(err)
			}
			clone := req.Clone(req.Context())
			clone.Body = rc
			r = clone
		}

		resp, err := c.http.Do(r)
		if err != nil {
			log.WithError(err).Warn("request failed")
			return err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			log.WithField("status", resp.StatusCode).Warn("server error")
			return fmt.Errorf("server error: %d", resp.StatusCode)
		}

		body = b
		status = resp.StatusCode
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 20 * time.Second
	if err := backoff.Retry(attempt, backoff.WithContext(bo, req.Context())); err != nil {
		return nil, 0, err
	}
	return body, status, nil
}

// parseToken handles both signin response shapes.
func parseToken(body []byte) string {
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}
	var obj struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &obj); err == nil && obj.Token != "" {
		return obj.Token
	}
	// Some deployments return the raw JWT as text.
	trimmed := strings.TrimSpace(string(body))
	if strings.Count(trimmed, ".") == 2 && !strings.ContainsAny(trimmed, " \n{") {
		return trimmed
	}
	return ""
}
