package lib

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pgme/src/config"
	"pgme/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

const (
	testClientID     = "client-id"
	testClientSecret = "client-secret"
)

func fakeProcessor(t *testing.T, createResponse, executeResponse string) (*httptest.Server, *[]byte) {
	t.Helper()
	var lastCreateBody []byte
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != testClientID || pass != testClientSecret {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer"}`))
	})
	mux.HandleFunc("/v1/payments/payment", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastCreateBody = body
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(createResponse))
	})
	mux.HandleFunc("/v1/payments/payment/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(executeResponse))
	})
	return httptest.NewServer(mux), &lastCreateBody
}

func testClient(baseURL string) *PayPalClient {
	return NewPayPalClient(&config.Config{
		PayPalClientID:     testClientID,
		PayPalClientSecret: testClientSecret,
		PayPalBaseURL:      baseURL,
		PayPalTimeout:      5 * time.Second,
	})
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "20.00", FormatAmount(19.995))
	assert.Equal(t, "19.99", FormatAmount(19.994))
	assert.Equal(t, "10.00", FormatAmount(10))
	assert.Equal(t, "0.01", FormatAmount(0.005))
}

func TestCreatePaymentValidation(t *testing.T) {
	client := testClient("http://paypal.invalid")
	var validationErr *types.ValidationError

	_, err := client.CreatePayment(context.Background(), 0, "USD", "stay", "https://ret", "https://can")
	assert.ErrorAs(t, err, &validationErr)

	_, err = client.CreatePayment(context.Background(), 100, "", "stay", "https://ret", "https://can")
	assert.ErrorAs(t, err, &validationErr)

	_, err = client.CreatePayment(context.Background(), 100, "USD", "", "https://ret", "https://can")
	assert.ErrorAs(t, err, &validationErr)

	_, err = client.CreatePayment(context.Background(), 100, "USD", "stay", "", "https://can")
	assert.ErrorAs(t, err, &validationErr)

	_, err = client.CreatePayment(context.Background(), 100, "USD", "stay", "https://ret", "")
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreatePaymentFormatsAmountOnTheWire(t *testing.T) {
	srv, createBody := fakeProcessor(t,
		`{"id":"PAY-123","links":[{"rel":"self","href":"https://x"},{"rel":"approval_url","href":"https://paypal.test/approve?token=EC-1"}]}`,
		`{}`,
	)
	defer srv.Close()
	client := testClient(srv.URL)

	intent, err := client.CreatePayment(context.Background(), 19.995, "USD", "monthly rent", "https://ret", "https://can")
	assert.NoError(t, err)
	assert.Equal(t, "PAY-123", intent.PaymentID)
	assert.Equal(t, "https://paypal.test/approve?token=EC-1", intent.ApprovalURL)

	sent := string(*createBody)
	assert.Equal(t, "20.00", gjson.Get(sent, "transactions.0.amount.total").String())
	assert.Equal(t, "USD", gjson.Get(sent, "transactions.0.amount.currency").String())
	assert.Equal(t, "sale", gjson.Get(sent, "intent").String())
	assert.Equal(t, "paypal", gjson.Get(sent, "payer.payment_method").String())
}

func TestCreatePaymentWithoutApprovalURL(t *testing.T) {
	srv, _ := fakeProcessor(t, `{"id":"PAY-123","links":[{"rel":"self","href":"https://x"}]}`, `{}`)
	defer srv.Close()
	client := testClient(srv.URL)

	var processorErr *types.ProcessorError
	_, err := client.CreatePayment(context.Background(), 100, "USD", "stay", "https://ret", "https://can")
	assert.ErrorAs(t, err, &processorErr)
}

func TestCreatePaymentWithBadCredentials(t *testing.T) {
	srv, _ := fakeProcessor(t, `{}`, `{}`)
	defer srv.Close()
	client := NewPayPalClient(&config.Config{
		PayPalClientID:     "wrong",
		PayPalClientSecret: "also wrong",
		PayPalBaseURL:      srv.URL,
		PayPalTimeout:      5 * time.Second,
	})

	var authErr *types.AuthError
	_, err := client.CreatePayment(context.Background(), 100, "USD", "stay", "https://ret", "https://can")
	assert.ErrorAs(t, err, &authErr)
}

func TestExecutePaymentValidation(t *testing.T) {
	client := testClient("http://paypal.invalid")
	var validationErr *types.ValidationError

	_, err := client.ExecutePayment(context.Background(), "", "PAYER-1")
	assert.ErrorAs(t, err, &validationErr)

	_, err = client.ExecutePayment(context.Background(), "PAY-123", " ")
	assert.ErrorAs(t, err, &validationErr)
}

func TestExecutePaymentFailedState(t *testing.T) {
	srv, _ := fakeProcessor(t, `{}`, `{"id":"PAY-123","state":"failed"}`)
	defer srv.Close()
	client := testClient(srv.URL)

	var processorErr *types.ProcessorError
	_, err := client.ExecutePayment(context.Background(), "PAY-123", "PAYER-1")
	assert.ErrorAs(t, err, &processorErr)
}

func TestExecutePaymentEmptyBody(t *testing.T) {
	srv, _ := fakeProcessor(t, `{}`, ``)
	defer srv.Close()
	client := testClient(srv.URL)

	var processorErr *types.ProcessorError
	_, err := client.ExecutePayment(context.Background(), "PAY-123", "PAYER-1")
	assert.ErrorAs(t, err, &processorErr)
}

func TestExecutePaymentParsesPayer(t *testing.T) {
	srv, _ := fakeProcessor(t, `{}`, `{
		"id": "PAY-123",
		"state": "approved",
		"payer": {"payer_info": {"payer_id": "PAYER-1", "email": "payer@example.com", "first_name": "Pay", "last_name": "Er"}},
		"transactions": [{"amount": {"total": "500.00", "currency": "USD"}}]
	}`)
	defer srv.Close()
	client := testClient(srv.URL)

	result, err := client.ExecutePayment(context.Background(), "PAY-123", "PAYER-1")
	assert.NoError(t, err)
	assert.Equal(t, "PAY-123", result.PaymentID)
	assert.Equal(t, "approved", result.State)
	assert.Equal(t, "PAYER-1", result.PayerID)
	assert.Equal(t, "payer@example.com", result.PayerEmail)
	assert.Equal(t, "Pay Er", result.PayerName)
	assert.Equal(t, "500.00", result.Amount)
	assert.Equal(t, "USD", result.Currency)
}
