package lib

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"pgme/src/config"
	"pgme/src/types"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// PayPalPaymentIntent is the processor's pending-approval object. It is
// never persisted locally; the payer must visit ApprovalURL before the
// payment can be executed.
type PayPalPaymentIntent struct {
	PaymentID   string `json:"payment_id"`
	ApprovalURL string `json:"approval_url"`
}

// ExecutePaymentResult carries everything the engine needs to rebuild a
// payment record from the processor's own response, so execution can be
// resumed even when nothing about the intent survived locally.
type ExecutePaymentResult struct {
	PaymentID  string
	State      string
	PayerID    string
	PayerEmail string
	PayerName  string
	Amount     string
	Currency   string
	Raw        types.JSONB
}

type PaymentGateway interface {
	CreatePayment(ctx context.Context, amount float64, currency, description, returnURL, cancelURL string) (*PayPalPaymentIntent, error)
	ExecutePayment(ctx context.Context, paymentID, payerID string) (*ExecutePaymentResult, error)
}

// PayPalClient talks to the processor's two-call payment protocol. It
// keeps no local state beyond its credentials and HTTP client.
type PayPalClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	http         *http.Client
}

var paypalGateway PaymentGateway

func GetPayPalGateway() PaymentGateway {
	return paypalGateway
}

// NewPayPalGateway replaces the gateway instance with a custom implementation
func NewPayPalGateway(g PaymentGateway) PaymentGateway {
	paypalGateway = g
	return paypalGateway
}

func NewPayPalClient(cfg *config.Config) *PayPalClient {
	return &PayPalClient{
		clientID:     cfg.PayPalClientID,
		clientSecret: cfg.PayPalClientSecret,
		baseURL:      strings.TrimSuffix(cfg.PayPalBaseURL, "/"),
		http:         &http.Client{Timeout: cfg.PayPalTimeout},
	}
}

func (p *PayPalClient) getAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &types.AuthError{Message: "failed to build token request", Err: err}
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", &types.AuthError{Message: "failed to get PayPal access token", Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &types.AuthError{Message: "failed to read token response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &types.AuthError{Message: fmt.Sprintf("PayPal rejected credentials with status %d", resp.StatusCode)}
	}
	token := gjson.GetBytes(body, "access_token")
	if !token.Exists() || token.String() == "" {
		return "", &types.AuthError{Message: "no access token in PayPal response"}
	}
	return token.String(), nil
}

// FormatAmount renders an amount with exactly two decimal places,
// rounding half up, the way the processor expects it on the wire.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

func (p *PayPalClient) CreatePayment(ctx context.Context, amount float64, currency, description, returnURL, cancelURL string) (*PayPalPaymentIntent, error) {
	if amount <= 0 {
		return nil, types.NewValidationError("amount must be greater than 0")
	}
	if strings.TrimSpace(currency) == "" {
		return nil, types.NewValidationError("currency cannot be empty")
	}
	if strings.TrimSpace(description) == "" {
		return nil, types.NewValidationError("description cannot be empty")
	}
	if strings.TrimSpace(returnURL) == "" {
		return nil, types.NewValidationError("return URL cannot be empty")
	}
	if strings.TrimSpace(cancelURL) == "" {
		return nil, types.NewValidationError("cancel URL cannot be empty")
	}

	accessToken, err := p.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := types.JSONB{
		"intent": "sale",
		"payer":  types.JSONB{"payment_method": "paypal"},
		"transactions": types.JSONBArray{
			types.JSONB{
				"amount": types.JSONB{
					"total":    FormatAmount(amount),
					"currency": currency,
				},
				"description": description,
			},
		},
		"redirect_urls": types.JSONB{
			"return_url": returnURL,
			"cancel_url": cancelURL,
		},
	}

	body, err := p.postJSON(ctx, "/v1/payments/payment", accessToken, payload)
	if err != nil {
		return nil, err
	}

	id := gjson.GetBytes(body, "id")
	if !id.Exists() || id.String() == "" {
		return nil, &types.ProcessorError{Message: "no payment ID in PayPal response"}
	}
	approvalURL := ""
	for _, link := range gjson.GetBytes(body, "links").Array() {
		if link.Get("rel").String() == "approval_url" {
			approvalURL = link.Get("href").String()
			break
		}
	}
	if approvalURL == "" {
		return nil, &types.ProcessorError{Message: "no approval URL in PayPal response"}
	}

	log.Printf("PayPal payment created with ID: %s\n", id.String())
	return &PayPalPaymentIntent{PaymentID: id.String(), ApprovalURL: approvalURL}, nil
}

func (p *PayPalClient) ExecutePayment(ctx context.Context, paymentID, payerID string) (*ExecutePaymentResult, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, types.NewValidationError("payment ID cannot be empty")
	}
	if strings.TrimSpace(payerID) == "" {
		return nil, types.NewValidationError("payer ID cannot be empty")
	}

	accessToken, err := p.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := p.postJSON(ctx, "/v1/payments/payment/"+paymentID+"/execute", accessToken, types.JSONB{"payer_id": payerID})
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, &types.ProcessorError{Message: "empty response body from PayPal"}
	}
	state := gjson.GetBytes(body, "state").String()
	if strings.EqualFold(state, "failed") {
		return nil, &types.ProcessorError{Message: fmt.Sprintf("PayPal reported payment state %q", state)}
	}

	var raw types.JSONB
	if err := raw.Scan(body); err != nil {
		return nil, &types.ProcessorError{Message: "malformed response body from PayPal", Err: err}
	}

	payerInfo := gjson.GetBytes(body, "payer.payer_info")
	payerName := strings.TrimSpace(payerInfo.Get("first_name").String() + " " + payerInfo.Get("last_name").String())
	result := &ExecutePaymentResult{
		PaymentID:  gjson.GetBytes(body, "id").String(),
		State:      state,
		PayerID:    payerInfo.Get("payer_id").String(),
		PayerEmail: payerInfo.Get("email").String(),
		PayerName:  payerName,
		Amount:     gjson.GetBytes(body, "transactions.0.amount.total").String(),
		Currency:   gjson.GetBytes(body, "transactions.0.amount.currency").String(),
		Raw:        raw,
	}
	if result.PaymentID == "" {
		result.PaymentID = paymentID
	}
	if result.PayerID == "" {
		result.PayerID = payerID
	}
	log.Printf("PayPal payment %s executed, state=%s\n", result.PaymentID, state)
	return result, nil
}

func (p *PayPalClient) postJSON(ctx context.Context, path, accessToken string, payload types.JSONB) ([]byte, error) {
	encoded, err := payload.Value()
	if err != nil {
		return nil, &types.ProcessorError{Message: "failed to encode request body", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, strings.NewReader(encoded.(string)))
	if err != nil {
		return nil, &types.ProcessorError{Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, &types.ProcessorError{Message: "PayPal request failed", Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.ProcessorError{Message: "failed to read PayPal response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.ProcessorError{Message: fmt.Sprintf("PayPal returned status %d: %s", resp.StatusCode, string(body))}
	}
	return body, nil
}
