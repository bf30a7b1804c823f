// Package pesapal integrates the Pesapal v3 payment gateway.
package pesapal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jayrweg/afya-plus/internal/config"
	"github.com/jayrweg/afya-plus/internal/lib/sl"
)

// PesapalService talks to the Pesapal v3 API. The access token and the IPN
// registration id are cached for reuse across checkouts within the process
// lifetime.
type PesapalService struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	ipnURL         string
	callbackURL    string

	httpClient *http.Client
	log        *slog.Logger

	mu             sync.Mutex
	accessToken    string
	tokenExpiresIn time.Time
	ipnID          string
}

// NewPesapalService creates the gateway client, or nil when no consumer
// credentials are configured.
func NewPesapalService(conf *config.Config, log *slog.Logger) *PesapalService {
	if conf.Pesapal.ConsumerKey == "" || conf.Pesapal.ConsumerSecret == "" {
		return nil
	}

	timeout := time.Duration(conf.Pesapal.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &PesapalService{
		baseURL:        conf.Pesapal.BaseURL,
		consumerKey:    conf.Pesapal.ConsumerKey,
		consumerSecret: conf.Pesapal.ConsumerSecret,
		ipnURL:         conf.Pesapal.IPNUrl,
		callbackURL:    conf.Pesapal.CallbackURL,
		httpClient:     &http.Client{Timeout: timeout},
		log:            log.With(sl.Module("pesapal")),
	}
}

// post sends a JSON POST to a Pesapal endpoint, optionally with a bearer
// token, and decodes the JSON response into out.
func (s *PesapalService) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := s.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if path != pathRequestToken {
		token, err := s.ensureToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := s.log.With(
		slog.String("url", url),
		slog.String("method", req.Method),
	)

	t := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error("pesapal request", sl.Err(err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	log.With(slog.Duration("duration", time.Since(t))).Debug("pesapal request")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pesapal status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

const (
	pathRequestToken = "/api/Auth/RequestToken"
	pathRegisterIPN  = "/api/URLSetup/RegisterIPN"
	pathSubmitOrder  = "/api/Transactions/SubmitOrderRequest"
)

// tokenValidFor is used when the gateway's expiryDate is absent or
// unparseable. Pesapal tokens live for five minutes.
const tokenValidFor = 5 * time.Minute

// ensureToken returns a cached access token, refreshing it when it is about
// to expire. Callers must NOT hold s.mu.
func (s *PesapalService) ensureToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Now().Before(s.tokenExpiresIn.Add(-30*time.Second)) {
		return s.accessToken, nil
	}
	if err := s.refreshTokenCall(ctx); err != nil {
		return "", err
	}
	return s.accessToken, nil
}

// refreshTokenCall requests a fresh access token. Caller holds s.mu.
func (s *PesapalService) refreshTokenCall(ctx context.Context) error {
	payload := map[string]string{
		"consumer_key":    s.consumerKey,
		"consumer_secret": s.consumerSecret,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+pathRequestToken, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read token response: %w", err)
	}

	var result struct {
		Token      string `json:"token"`
		ExpiryDate string `json:"expiryDate"`
		Status     string `json:"status"`
		Message    string `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return fmt.Errorf("unmarshal token response: %w", err)
	}

	if result.Token == "" {
		return fmt.Errorf("pesapal authentication failed: status=%s message=%s", result.Status, result.Message)
	}

	expires := time.Now().Add(tokenValidFor)
	if t, err := time.Parse(time.RFC3339, result.ExpiryDate); err == nil {
		expires = t
	}

	s.accessToken = result.Token
	s.tokenExpiresIn = expires
	s.log.With(sl.Secret("token", result.Token)).Debug("pesapal token refreshed")
	return nil
}

// ensureIPN registers the IPN notification URL once and caches its id.
func (s *PesapalService) ensureIPN(ctx context.Context) (string, error) {
	s.mu.Lock()
	cached := s.ipnID
	s.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	payload := map[string]string{
		"url":                   s.ipnURL,
		"ipn_notification_type": "POST",
	}

	var result struct {
		IPNID   string `json:"ipn_id"`
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := s.post(ctx, pathRegisterIPN, payload, &result); err != nil {
		return "", fmt.Errorf("register ipn: %w", err)
	}
	if result.IPNID == "" {
		return "", fmt.Errorf("register ipn: empty ipn_id, status=%s message=%s", result.Status, result.Message)
	}

	s.mu.Lock()
	s.ipnID = result.IPNID
	s.mu.Unlock()

	s.log.Info("pesapal ipn registered", slog.String("ipn_id", result.IPNID))
	return result.IPNID, nil
}
