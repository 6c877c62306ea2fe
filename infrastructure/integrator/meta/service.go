package meta

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-engine/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/profit-engine/internal/domain"
)

type MetaIntegrator struct {
	Client metaclient.Client
}

func New(client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		Client: client,
	}
}

// GetDailySpend devolve um fato de gasto por campanha e dia, sem loja definida.
// Linhas com data ou gasto inválidos são descartadas.
func (s *MetaIntegrator) GetDailySpend(ctx context.Context, accountID string, since, until time.Time) ([]domain.AdSpendFact, error) {
	insights, err := s.Client.GetDailyCampaignSpend(ctx, strings.TrimPrefix(accountID, "act_"), since, until)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("insights: failed to get campaign spend from API")
		return nil, err
	}

	facts := make([]domain.AdSpendFact, 0, len(insights))
	for _, insight := range insights {
		date, err := time.Parse(time.DateOnly, insight.DateStart)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"campaign_id": insight.CampaignID,
				"date_start":  insight.DateStart,
			}).Warn("insights: invalid campaign insight date")
			continue
		}

		spend, err := decimal.NewFromString(strings.TrimSpace(insight.Spend))
		if err != nil || spend.IsNegative() {
			logrus.WithFields(logrus.Fields{
				"campaign_id": insight.CampaignID,
				"spend_value": insight.Spend,
			}).Warn("insights: error converting spend to decimal")
			continue
		}

		facts = append(facts, domain.AdSpendFact{
			Provider:     domain.ProviderMeta,
			CampaignID:   insight.CampaignID,
			CampaignName: insight.CampaignName,
			Date:         date,
			Spend:        spend,
			Currency:     strings.ToUpper(insight.AccountCurrency),
		})
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"rows":       len(facts),
	}).Debug("insights: successfully retrieved campaign spend")

	return facts, nil
}
