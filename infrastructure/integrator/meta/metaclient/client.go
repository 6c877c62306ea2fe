package metaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/profit-engine/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/profit-engine/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrTokenExpired = errors.New("meta access token expired")
	ErrMissingToken = errors.New("meta access token not configured")
)

// maxPages limita a paginação de uma consulta
const maxPages = 50

//go:generate mockgen -source=client.go -destination=../mocks/client.go -package=mocks

type Client interface {
	GetDailyCampaignSpend(ctx context.Context, accountID string, since, until time.Time) ([]metadomain.CampaignInsight, error)
}

type MetaClient struct {
	Cfg        config.Meta
	HTTPClient *http.Client
}

func NewClient(cfg config.Meta) Client {
	return &MetaClient{
		Cfg:        cfg,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetDailyCampaignSpend busca o gasto diário de cada campanha da conta, seguindo a paginação
func (c *MetaClient) GetDailyCampaignSpend(ctx context.Context, accountID string, since, until time.Time) ([]metadomain.CampaignInsight, error) {
	if c.Cfg.AccessToken == "" {
		return nil, ErrMissingToken
	}

	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}", since.Format(time.DateOnly), until.Format(time.DateOnly))

	params := url.Values{}
	params.Add("level", "campaign")
	params.Add("time_increment", "1")
	params.Add("fields", "account_id,account_currency,campaign_id,campaign_name,spend")
	params.Add("time_range", timeRange)
	params.Add("limit", "500")
	params.Add("access_token", c.Cfg.AccessToken)

	next := fmt.Sprintf("%s/act_%s/insights?%s", c.Cfg.URL, accountID, params.Encode())

	insights := make([]metadomain.CampaignInsight, 0)
	for page := 0; next != "" && page < maxPages; page++ {
		var response metadomain.ResponseCampaignInsights
		if err := c.get(ctx, next, &response); err != nil {
			return nil, err
		}
		insights = append(insights, response.Data...)
		next = response.Paging.Next
	}

	return insights, nil
}

func (c *MetaClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return err
	}
	defer resp.Body.Close()

	body, err := handleResponse(resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return err
	}

	return nil
}

// handleResponse devolve o corpo em caso de sucesso e traduz os erros da API do Meta
func handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	var errorResponse metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResponse); err != nil {
		return nil, fmt.Errorf("erro na API do Meta: status %d", resp.StatusCode)
	}

	if errorResponse.IsTokenExpired() {
		logrus.WithField("fbtrace_id", errorResponse.Error.FBTraceID).Warn("Token do Meta expirado")
		return nil, fmt.Errorf("%w: %s", ErrTokenExpired, errorResponse.Error.Message)
	}

	return nil, errors.New(errorResponse.String())
}
