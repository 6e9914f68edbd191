// Package e2e drives a running server through its HTTP API with godog.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"contactledger/e2e/steps/common"
)

// Config locates the server under test.
type Config struct {
	BaseURL    string
	AdminToken string
	SigningKey string
}

// ConfigFromEnv reads E2E_BASE_URL, E2E_ADMIN_TOKEN and E2E_JWT_SIGNING_KEY.
func ConfigFromEnv() Config {
	return Config{
		BaseURL:    strings.TrimRight(os.Getenv("E2E_BASE_URL"), "/"),
		AdminToken: os.Getenv("E2E_ADMIN_TOKEN"),
		SigningKey: os.Getenv("E2E_JWT_SIGNING_KEY"),
	}
}

// TestContext carries per-scenario state shared by the step packages.
type TestContext struct {
	cfg        Config
	client     *http.Client
	identities map[string]common.Identity

	lastStatus  int
	lastBody    []byte
	lastHeaders http.Header
}

func NewTestContext(cfg Config) *TestContext {
	return &TestContext{
		cfg:        cfg,
		client:     &http.Client{Timeout: 10 * time.Second},
		identities: map[string]common.Identity{},
	}
}

// Reset clears state between scenarios.
func (tc *TestContext) Reset() {
	tc.identities = map[string]common.Identity{}
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.lastHeaders = nil
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, path, nil, headers)
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body, nil)
}

// SignedPOST posts a command signed by account.
func (tc *TestContext) SignedPOST(account, path string, body any) error {
	token, err := tc.signerToken(account)
	if err != nil {
		return err
	}
	return tc.do(http.MethodPost, path, body, map[string]string{"Authorization": "Bearer " + token})
}

// AdminPOST posts with the operator token.
func (tc *TestContext) AdminPOST(path string, body any) error {
	return tc.do(http.MethodPost, path, body, map[string]string{"X-Admin-Token": tc.cfg.AdminToken})
}

func (tc *TestContext) do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	tc.lastStatus = resp.StatusCode
	tc.lastHeaders = resp.Header
	return nil
}

// signerToken mints a token the server accepts as a command signature.
func (tc *TestContext) signerToken(account string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"account_id": account,
		"iss":        "contactledger",
		"aud":        "contactledger",
		"iat":        now.Unix(),
		"exp":        now.Add(5 * time.Minute).Unix(),
		"jti":        fmt.Sprintf("e2e-%d", now.UnixNano()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(tc.cfg.SigningKey))
}

func (tc *TestContext) GetLastResponseStatus() int  { return tc.lastStatus }
func (tc *TestContext) GetLastResponseBody() []byte { return tc.lastBody }
func (tc *TestContext) GetLastResponseHeader(k string) string {
	if tc.lastHeaders == nil {
		return ""
	}
	return tc.lastHeaders.Get(k)
}

// GetResponseField reads a top-level field of the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var body map[string]any
	if err := json.Unmarshal(tc.lastBody, &body); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	v, ok := body[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response %s", field, tc.lastBody)
	}
	return v, nil
}

func (tc *TestContext) RememberIdentity(alias string, ident common.Identity) {
	tc.identities[alias] = ident
}

func (tc *TestContext) LookupIdentity(alias string) (common.Identity, error) {
	ident, ok := tc.identities[alias]
	if !ok {
		return common.Identity{}, fmt.Errorf("identity %q was not registered in this scenario", alias)
	}
	return ident, nil
}
