package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/relay/internal/cache"
	"github.com/Additional-Code/relay/internal/config"
	"github.com/Additional-Code/relay/pkg/errorbank"
)

// Client issues inventory operations against the commerce backend. Each call
// is an independent network operation; the caller decides how failures fan out.
type Client interface {
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

// Module wires the commerce client.
var Module = fx.Provide(NewClient)

// NewClient builds a commerce client based on configuration.
func NewClient(cfg config.Config, store cache.Store, logger *zap.Logger) (Client, error) {
	switch cfg.Commerce.Driver {
	case "noop":
		logger.Info("commerce backend disabled; using noop client")

		return noopClient{}, nil
	case "http":
		return &httpClient{
			cfg:    cfg.Commerce,
			http:   &http.Client{Timeout: cfg.Commerce.Timeout},
			tokens: store,
			logger: logger,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported commerce driver: %s", cfg.Commerce.Driver)
	}
}

// noopClient is used in local runs without commerce credentials.
type noopClient struct{}

func (noopClient) DecrementStock(context.Context, string, int) error { return nil }

// httpClient talks to the commerce REST API with a client-credentials token.
type httpClient struct {
	cfg    config.Commerce
	http   *http.Client
	tokens cache.Store
	logger *zap.Logger
}

const tokenCacheKey = "commerce:access_token"

// DecrementStock posts a decrement transaction for one product.
func (c *httpClient) DecrementStock(ctx context.Context, productID string, quantity int) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("acquire access token: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"data": map[string]any{
			"type":     "stock-transaction",
			"action":   "decrement",
			"quantity": quantity,
		},
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v2/inventories/%s/transactions",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errorbank.Unavailable("decrement stock failed",
			errorbank.WithDetail("product_id", productID),
			errorbank.WithDetail("status", resp.StatusCode),
			errorbank.WithDetail("body", string(snippet)))
	}

	return nil
}

// accessToken returns a cached token or requests a fresh one.
func (c *httpClient) accessToken(ctx context.Context) (string, error) {
	if cached, err := c.tokens.Get(ctx, tokenCacheKey); err == nil && len(cached) > 0 {
		return string(cached), nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/oauth/access_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errorbank.Unavailable("token request failed",
			errorbank.WithDetail("status", resp.StatusCode),
			errorbank.WithDetail("body", string(snippet)))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token request: empty access_token")
	}

	ttl := time.Duration(payload.ExpiresIn) * time.Second
	if ttl > time.Minute {
		// Expire slightly early so an in-flight call never uses a stale token.
		ttl -= time.Minute
	}
	if err := c.tokens.Set(ctx, tokenCacheKey, []byte(payload.AccessToken), ttl); err != nil {
		c.logger.Warn("commerce token cache write failed", zap.Error(err))
	}

	return payload.AccessToken, nil
}
