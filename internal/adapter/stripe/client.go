package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/courierly/courierd/internal/domain/errors"
	"github.com/courierly/courierd/internal/domain/model"
)

// Client exposes the subset of the provider API the orchestrators need.
type Client interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*model.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*SessionState, error)
}

// CheckoutParams describes a single-line-item hosted checkout session.
type CheckoutParams struct {
	AmountMinor int64
	Currency    string
	Name        string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// SessionState mirrors the provider's view of an existing checkout session.
type SessionState struct {
	ID            string
	Status        string
	PaymentStatus string
	PaymentIntent string
}

// Session statuses reported by the provider.
const (
	SessionStatusOpen     = "open"
	SessionStatusComplete = "complete"
	SessionStatusExpired  = "expired"

	PaymentStatusPaid = "paid"
)

// HTTPClient implements Client against the provider's REST API.
type HTTPClient struct {
	baseURL    *url.URL
	secretKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

// sessionResponse mirrors the JSON payload of a checkout session object.
type sessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	PaymentIntent string `json:"payment_intent"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewHTTPClient creates a provider client with default timeout.
func NewHTTPClient(baseURL, secretKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse provider url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("provider url must be absolute")
	}
	if secretKey == "" {
		return nil, fmt.Errorf("provider secret key must be provided")
	}
	return &HTTPClient{
		baseURL:   parsed,
		secretKey: secretKey,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// CreateCheckoutSession opens a hosted checkout page for a single line item.
func (c *HTTPClient) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*model.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountMinor, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.Name)
	if params.Description != "" {
		form.Set("line_items[0][price_data][product_data][description]", params.Description)
	}
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	var data sessionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &data); err != nil {
		return nil, err
	}
	return &model.CheckoutSession{ID: data.ID, URL: data.URL}, nil
}

// GetCheckoutSession fetches current state of a previously opened session.
func (c *HTTPClient) GetCheckoutSession(ctx context.Context, id string) (*SessionState, error) {
	var data sessionResponse
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(id), nil, &data); err != nil {
		return nil, err
	}
	return &SessionState{
		ID:            data.ID,
		Status:        data.Status,
		PaymentStatus: data.PaymentStatus,
		PaymentIntent: data.PaymentIntent,
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, form url.Values, out any) error {
	target := c.baseURL.JoinPath(endpoint)

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domainErrors.ProviderError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domainErrors.ProviderError{Message: err.Error()}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr errorResponse
		message := resp.Status
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
		c.logger.Error("provider request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("message", message),
		)
		return &domainErrors.ProviderError{Message: message}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &domainErrors.ProviderError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
