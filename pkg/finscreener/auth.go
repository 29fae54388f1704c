package finscreener

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	// APIKeyPrefix marks a Finscreener developer API key. A key without
	// the prefix is treated as a pre-issued bearer token.
	APIKeyPrefix = "fsk_"

	loginPath = "/auth/api-key/login"

	// tokens are refreshed this long before their recorded expiry so a
	// call never goes out with a token about to lapse in flight
	tokenExpiryMargin = 30 * time.Second

	// lifetime assumed when the login response carries no expiry
	defaultTokenLifetime = time.Hour

	loginTimeout = 30 * time.Second
)

// tokenSource owns the API key and the cached bearer token. At most one
// token is live at a time and refreshes are single-flight: concurrent
// callers that find the token expired share one exchange rather than each
// hitting the login endpoint.
type tokenSource struct {
	apiKey     string
	url        string
	httpClient HTTPDoer
	logger     *zap.Logger
	now        func() time.Time
	metrics    *clientMetrics

	mu    sync.RWMutex
	token *oauth2.Token

	group singleflight.Group
}

func newTokenSource(apiKey, url string, httpClient HTTPDoer, logger *zap.Logger, now func() time.Time, metrics *clientMetrics) *tokenSource {
	s := &tokenSource{
		apiKey:     apiKey,
		url:        url,
		httpClient: httpClient,
		logger:     logger,
		now:        now,
		metrics:    metrics,
	}

	if !strings.HasPrefix(apiKey, APIKeyPrefix) {
		// pre-issued bearer token, no exchange and no expiry tracking
		s.token = &oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}
	}

	return s
}

// Token returns a valid bearer token, exchanging the API key when the cache
// is empty or within the expiry margin.
func (s *tokenSource) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if s.valid(token) {
		return token, nil
	}

	return s.refresh(ctx)
}

// ForceRefresh discards the cached token and performs a new exchange. Used
// when the remote API rejects a token before its recorded expiry.
func (s *tokenSource) ForceRefresh(ctx context.Context) (*oauth2.Token, error) {
	if !strings.HasPrefix(s.apiKey, APIKeyPrefix) {
		// nothing to exchange for a pre-issued token
		s.mu.RLock()
		defer s.mu.RUnlock()

		return s.token, nil
	}

	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()

	return s.refresh(ctx)
}

func (s *tokenSource) valid(token *oauth2.Token) bool {
	if token == nil {
		return false
	}

	if token.Expiry.IsZero() {
		return true
	}

	return s.now().Add(tokenExpiryMargin).Before(token.Expiry)
}

func (s *tokenSource) refresh(ctx context.Context) (*oauth2.Token, error) {
	v, err, _ := s.group.Do("login", func() (any, error) {
		s.mu.RLock()
		token := s.token
		s.mu.RUnlock()

		// a concurrent flight may already have refreshed
		if s.valid(token) {
			return token, nil
		}

		// other callers wait on this exchange, so it must survive the
		// initiating caller's cancellation
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loginTimeout)
		defer cancel()

		fresh, err := s.exchange(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.token = fresh
		s.mu.Unlock()

		return fresh, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*oauth2.Token), nil
}

type loginToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type loginResponse struct {
	loginToken
	Token *loginToken `json:"token"`
}

func (s *tokenSource) exchange(ctx context.Context) (*oauth2.Token, error) {
	s.logger.Debug("exchanging api key for bearer token")

	body, err := json.Marshal(map[string]string{"api_key": s.apiKey})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+apiRoot+loginPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.metrics.observeExchange(false)
		return nil, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusBadRequest:
		s.metrics.observeExchange(false)
		s.logger.Warn("api key rejected by login endpoint", zap.Int("status", resp.StatusCode))

		return nil, ErrInvalidAPIKey
	default:
		s.metrics.observeExchange(false)
		return nil, fmt.Errorf("%w: login returned status %d", ErrAuthUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		s.metrics.observeExchange(false)
		return nil, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}

	out := loginResponse{}
	if err := json.Unmarshal(raw, &out); err != nil {
		s.metrics.observeExchange(false)
		return nil, fmt.Errorf("%w: bad login response: %v", ErrAuthUnavailable, err)
	}

	payload := out.loginToken
	if out.Token != nil {
		payload = *out.Token
	}

	if payload.AccessToken == "" {
		s.metrics.observeExchange(false)
		return nil, fmt.Errorf("%w: login response missing access token", ErrAuthUnavailable)
	}

	lifetime := defaultTokenLifetime
	if payload.ExpiresIn > 0 {
		lifetime = time.Duration(payload.ExpiresIn) * time.Second
	}

	s.metrics.observeExchange(true)
	s.logger.Debug("obtained bearer token", zap.Duration("lifetime", lifetime))

	return &oauth2.Token{
		AccessToken: payload.AccessToken,
		TokenType:   "Bearer",
		Expiry:      s.now().Add(lifetime),
	}, nil
}
