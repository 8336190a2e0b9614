package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"conftix/internal/infra"
	"conftix/internal/pkg/config"
	"conftix/internal/pkg/errs"
	"conftix/internal/usecase/commands"
)

// Client talks to the hosted payment processor's REST API. Amounts are minor
// units throughout; the processor is the sole authority on payment status.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	secretKey     string
	webhookSecret string
	callbackURL   string
}

func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		baseURL:       cfg.BaseURL,
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		callbackURL:   cfg.CallbackURL,
	}
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type transactionData struct {
	Status    string            `json:"status"`
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	PaidAt    *time.Time        `json:"paid_at"`
	Metadata  map[string]string `json:"metadata"`
	Customer  customerData      `json:"customer"`
}

type customerData struct {
	Email        string `json:"email"`
	CustomerCode string `json:"customer_code"`
}

type customerEnvelope struct {
	Status bool         `json:"status"`
	Data   customerData `json:"data"`
}

// EnsureCustomer looks up the processor customer for an email, creating it
// when absent, and returns the processor's customer code.
func (c *Client) EnsureCustomer(ctx context.Context, email string) (string, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/customer/"+url.PathEscape(email), nil)
	if err != nil {
		return "", err
	}

	if status == http.StatusOK {
		var env customerEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return "", errs.Wrap(err, "failed to decode customer response")
		}
		if env.Status && env.Data.CustomerCode != "" {
			return env.Data.CustomerCode, nil
		}
	}
	if status != http.StatusNotFound && status != http.StatusOK {
		return "", c.apiError(status, body)
	}

	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return "", errs.Wrap(err, "failed to encode customer request")
	}
	body, status, err = c.do(ctx, http.MethodPost, "/customer", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return "", c.apiError(status, body)
	}

	var env customerEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", errs.Wrap(err, "failed to decode customer response")
	}
	if !env.Status || env.Data.CustomerCode == "" {
		return "", errs.Mark(errs.New("customer creation rejected"), errs.ErrProcessorUnreachable)
	}
	return env.Data.CustomerCode, nil
}

func (c *Client) InitializeTransaction(ctx context.Context, params commands.SessionParams) (*commands.SessionHandle, error) {
	if params.CallbackURL == "" {
		params.CallbackURL = c.callbackURL
	}
	payload, err := json.Marshal(initializeRequest{
		Email:       params.Email,
		Amount:      params.AmountCents,
		Currency:    params.Currency,
		Reference:   params.Reference,
		CallbackURL: params.CallbackURL,
		Metadata:    params.Metadata,
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode initialize request")
	}

	body, status, err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.apiError(status, body)
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errs.Wrap(err, "failed to decode initialize response")
	}
	if !env.Status {
		return nil, errs.Mark(errs.New("transaction initialization rejected: "+env.Message), errs.ErrProcessorUnreachable)
	}

	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, errs.Wrap(err, "failed to decode initialize data")
	}

	return &commands.SessionHandle{
		Reference:        data.Reference,
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
	}, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*commands.SessionState, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.apiError(status, body)
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errs.Wrap(err, "failed to decode verify response")
	}
	if !env.Status {
		return nil, errs.Mark(errs.New("transaction verification rejected: "+env.Message), errs.ErrProcessorUnreachable)
	}

	var data transactionData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, errs.Wrap(err, "failed to decode verify data")
	}

	return &commands.SessionState{
		Reference:     data.Reference,
		Status:        data.Status,
		AmountCents:   data.Amount,
		Currency:      data.Currency,
		CustomerEmail: data.Customer.Email,
		Metadata:      data.Metadata,
		PaidAt:        data.PaidAt,
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA512 hex signature the processor
// puts on webhook deliveries.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, errs.Wrap(err, "failed to build processor request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("payment processor unreachable",
			errs.Mark(err, errs.ErrProcessorUnreachable), infra.KindUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errs.Wrap(err, "failed to read processor response")
	}
	return body, resp.StatusCode, nil
}

func (c *Client) apiError(status int, body []byte) error {
	var env apiEnvelope
	msg := ""
	if err := json.Unmarshal(body, &env); err == nil {
		msg = env.Message
	}
	err := errs.New(fmt.Sprintf("processor returned %d: %s", status, msg))
	if status >= http.StatusInternalServerError {
		return infra.WrapRepoErr("payment processor error", errs.Mark(err, errs.ErrProcessorUnreachable), infra.KindUnavailable)
	}
	return errs.Mark(err, errs.ErrProcessorUnreachable)
}
