package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	jwttoken "healthledger/internal/jwt_token"
	"healthledger/internal/ledger/handler"
	"healthledger/internal/ledger/service"
	"healthledger/internal/ledger/store"
	"healthledger/internal/platform/config"
	"healthledger/internal/platform/health"
	httptransport "healthledger/internal/transport/http"
	"healthledger/pkg/platform/middleware/auth"
	"healthledger/pkg/platform/middleware/request"
)

// e2eSigningKey signs caller tokens for the in-process server.
const e2eSigningKey = "e2e-signing-key"

// TestContext holds state between test steps
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte
	AccessToken      string

	server *httptest.Server
	jwt    *jwttoken.JWTService
}

// NewTestContext creates a new test context. With BASE_URL set the steps run
// against that server; otherwise each scenario starts a fresh in-process one.
func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL: os.Getenv("BASE_URL"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		jwt: jwttoken.NewJWTService(e2eSigningKey, config.TokenIssuer, config.TokenAudience, time.Hour),
	}
}

// Start boots an in-process server over an empty in-memory ledger.
// requireAuth selects RequireCaller instead of OptionalCaller.
func (tc *TestContext) Start(requireAuth bool) error {
	if os.Getenv("BASE_URL") != "" {
		return nil
	}
	tc.Stop()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(service.NewStoreTx(store.NewInMemory(), time.Second), logger)
	validator := jwttoken.NewJWTServiceAdapter(tc.jwt)

	authMW := auth.OptionalCaller(validator, logger)
	if requireAuth {
		authMW = auth.RequireCaller(validator, logger)
	}

	tc.server = httptest.NewServer(httptransport.NewRouter(httptransport.RouterDeps{
		Logger:  logger,
		Ledger:  handler.New(svc, logger),
		Health:  health.New("e2e"),
		Metrics: request.NewMetrics(prometheus.NewRegistry()),
		Auth:    authMW,
	}))
	tc.BaseURL = tc.server.URL
	return nil
}

// Stop shuts the in-process server down.
func (tc *TestContext) Stop() {
	if tc.server != nil {
		tc.server.Close()
		tc.server = nil
	}
}

// IssueToken mints a caller token accepted by the in-process server.
func (tc *TestContext) IssueToken(subject, role string) error {
	token, err := tc.jwt.IssueToken(context.Background(), subject, role)
	if err != nil {
		return err
	}
	tc.AccessToken = token
	return nil
}

// POST makes a POST request and stores the response. A nil body sends no body.
func (tc *TestContext) POST(path string, body interface{}) error {
	var reader io.Reader
	headers := map[string]string{}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
		headers["Content-Type"] = "application/json"
	}
	return tc.do(http.MethodPost, path, reader, headers)
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, path, nil, headers)
}

func (tc *TestContext) do(method, path string, body io.Reader, headers map[string]string) error {
	req, err := http.NewRequestWithContext(context.Background(), method, tc.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if tc.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.AccessToken)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// GetResponseField extracts a field from the JSON response
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}
	return value, nil
}

// GetLastResponseStatus returns the status code of the last response
func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

// GetLastResponseBody returns the body of the last response
func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}
