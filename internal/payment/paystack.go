package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"velora-be/internal/logger"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.paystack.co"

var ErrInvalidSignature = errors.New("invalid webhook signature")

type Options struct {
	SecretKey   string
	BaseURL     string // defaults to the live Paystack API; tests inject httptest servers
	CallbackURL string
}

type paystackGateway struct {
	secretKey   string
	baseURL     string
	callbackURL string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker[[]byte]
}

// NewPaystackGateway builds the Paystack client. Calls run behind a
// circuit breaker so a dead provider fails fast instead of holding user
// requests until the client timeout on every attempt.
func NewPaystackGateway(opts Options) Gateway {
	if opts.SecretKey == "" {
		logger.L().Warn("Paystack secret key is empty")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "paystack",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &paystackGateway{
		secretKey:   opts.SecretKey,
		baseURL:     opts.BaseURL,
		callbackURL: opts.CallbackURL,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
	}
}

// ----------------- Initialize -----------------

func (p *paystackGateway) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("gateway", "paystack"),
		zap.Int64("amount", req.Amount),
		zap.Uint("user_id", req.Metadata.UserID),
	)

	body := map[string]interface{}{
		"email":        req.Email,
		"amount":       req.Amount,
		"metadata":     req.Metadata,
		"callback_url": p.callbackURL,
	}

	log.Info("initializing transaction")

	data, err := p.do(ctx, http.MethodPost, "/transaction/initialize", body)
	if err != nil {
		log.Error("transaction initialize failed", zap.Error(err))
		return nil, err
	}

	var res InitializeResponse
	if err := json.Unmarshal(data, &res); err != nil {
		log.Error("failed decoding initialize response", zap.Error(err))
		return nil, err
	}

	log.Info("transaction initialized",
		zap.String("reference", res.Reference),
	)

	return &res, nil
}

// ----------------- Verify -----------------

func (p *paystackGateway) Verify(ctx context.Context, reference string) (*VerifyData, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("gateway", "paystack"),
		zap.String("reference", reference),
	)

	log.Info("verifying transaction")

	data, err := p.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		log.Error("transaction verify failed", zap.Error(err))
		return nil, err
	}

	var res VerifyData
	if err := json.Unmarshal(data, &res); err != nil {
		log.Error("failed decoding verify response", zap.Error(err))
		return nil, err
	}

	log.Info("transaction verified",
		zap.String("status", res.Status),
		zap.Int64("amount", res.Amount),
	)

	return &res, nil
}

// ----------------- Verify Signature -----------------

// VerifySignature checks the x-paystack-signature header: an HMAC-SHA512
// of the raw body keyed with the secret key.
func (p *paystackGateway) VerifySignature(r *http.Request, body []byte) error {
	sig := r.Header.Get("x-paystack-signature")
	if sig == "" {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha512.New, []byte(p.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// ----------------- transport -----------------

// envelope is the outer shape of every Paystack response.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do performs one provider call through the breaker and returns the
// inner data payload.
func (p *paystackGateway) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal paystack request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build paystack request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	bodyBytes, err := p.breaker.Execute(func() ([]byte, error) {
		resp, err := p.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read paystack response: %w", err)
		}

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return nil, fmt.Errorf("paystack error (%d): %s", resp.StatusCode, string(b))
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return nil, fmt.Errorf("decode paystack envelope: %w", err)
	}
	if !env.Status {
		return nil, fmt.Errorf("paystack rejected request: %s", env.Message)
	}

	return env.Data, nil
}
