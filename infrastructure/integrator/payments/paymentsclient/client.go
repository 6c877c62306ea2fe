package paymentsclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-engine/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ChargeRequest struct {
	IdempotencyKey string          `json:"-"`
	MerchantID     string          `json:"merchant_id"`
	Description    string          `json:"description"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Reference      string          `json:"reference"`
}

type ChargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

//go:generate mockgen -source=client.go -destination=../mocks/client.go -package=mocks

// Client cobra blocos de excedente no provedor de billing
type Client interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
}

type PaymentsClient struct {
	Cfg        *config.Config
	HTTPClient *http.Client
}

// NewClient devolve um cliente no-op quando não há URL de billing configurada
func NewClient(cfg *config.Config) Client {
	if cfg.Billing.URL == "" {
		return &noopClient{}
	}
	return &PaymentsClient{
		Cfg:        cfg,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *PaymentsClient) Charge(ctx context.Context, charge ChargeRequest) (*ChargeResponse, error) {
	payload, err := json.Marshal(charge)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar cobrança: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Cfg.Billing.URL+"/charges", bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", charge.IdempotencyKey)
	if c.Cfg.Billing.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.Cfg.Billing.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp ErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("billing retornou %d: %s (%s)", resp.StatusCode, errResp.Error.Message, errResp.Error.Code)
		}
		return nil, fmt.Errorf("billing retornou status %d", resp.StatusCode)
	}

	var response ChargeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return nil, err
	}

	return &response, nil
}

type noopClient struct{}

func (n *noopClient) Charge(_ context.Context, charge ChargeRequest) (*ChargeResponse, error) {
	logrus.WithFields(logrus.Fields{
		"merchant_id": charge.MerchantID,
		"reference":   charge.Reference,
		"amount":      charge.Amount.String(),
	}).Info("Billing não configurado, cobrança registrada apenas em log")
	return &ChargeResponse{ID: "noop-" + charge.IdempotencyKey, Status: "skipped"}, nil
}
