package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/profit-engine/internal/domain"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func demoOrder() (domain.Order, []domain.LineItem) {
	order := domain.Order{
		StoreID:         "store-demo",
		ExternalID:      "1001",
		Channel:         domain.ChannelOnlineStore,
		Currency:        "USD",
		Gateway:         "stripe",
		Subtotal:        dec("420"),
		Discount:        dec("15"),
		ShippingRevenue: dec("35"),
		Tax:             dec("28.5"),
		Revenue:         dec("468.5"),
	}
	items := []domain.LineItem{
		{SKU: "SKU-A", Quantity: 2, UnitPrice: dec("120"), Revenue: dec("240")},
		{SKU: "SKU-B", Quantity: 1, UnitPrice: dec("180"), Revenue: dec("180")},
	}
	return order, items
}

func TestCostResolver_Resolve(t *testing.T) {
	formulas, err := NewFormulaEvaluator()
	require.NoError(t, err)
	resolver := NewCostResolver(formulas)

	stripeTemplate := domain.CostTemplate{
		ID:            "tpl-stripe",
		StoreID:       "store-demo",
		Name:          "Stripe",
		Type:          domain.CostTypePaymentFee,
		GatewayFilter: []string{"Stripe"},
		Lines: []domain.CostTemplateLine{
			{Label: "taxa", FlatAmount: dec("0.30"), PercentageRate: dec("2.9"), AppliesTo: domain.AppliesToOrderTotal},
		},
	}

	tests := []struct {
		name      string
		skuCosts  map[string]decimal.Decimal
		templates []domain.CostTemplate
		fee       decimal.Decimal
		validate  func(t *testing.T, r CostResolution)
	}{
		{
			name:      "Pedido demo - COGS 150 e taxa do gateway 13.89",
			skuCosts:  map[string]decimal.Decimal{"SKU-A": dec("40"), "SKU-B": dec("70")},
			templates: []domain.CostTemplate{stripeTemplate},
			validate: func(t *testing.T, r CostResolution) {
				assert.True(t, domain.SumCosts(r.Costs, domain.CostTypeCOGS).Equal(dec("150")))
				assert.True(t, domain.SumCosts(r.Costs, domain.CostTypePaymentFee).Equal(dec("13.89")))
				assert.Equal(t, 0, r.MissingSkuCostCount)
				require.Len(t, r.LineItems, 2)
				assert.True(t, r.LineItems[0].Cogs.Equal(dec("80")))
				assert.True(t, r.LineItems[1].Cogs.Equal(dec("70")))
			},
		},
		{
			name:     "SKU sem custo cadastrado - conta como ausente e COGS zero",
			skuCosts: map[string]decimal.Decimal{"SKU-A": dec("40")},
			validate: func(t *testing.T, r CostResolution) {
				assert.Equal(t, 1, r.MissingSkuCostCount)
				assert.True(t, domain.SumCosts(r.Costs, domain.CostTypeCOGS).Equal(dec("80")))
				assert.True(t, r.LineItems[1].Cogs.IsZero())
			},
		},
		{
			name:     "Filtro de gateway não casa - template ignorado",
			skuCosts: map[string]decimal.Decimal{},
			templates: []domain.CostTemplate{
				func() domain.CostTemplate {
					tpl := stripeTemplate
					tpl.GatewayFilter = []string{"paypal"}
					return tpl
				}(),
			},
			validate: func(t *testing.T, r CostResolution) {
				assert.True(t, domain.SumCosts(r.Costs, domain.CostTypePaymentFee).IsZero())
			},
		},
		{
			name: "Filtro de canal diferente do pedido - template ignorado",
			templates: []domain.CostTemplate{
				{
					Name:          "POS",
					Type:          domain.CostTypePlatformFee,
					ChannelFilter: []domain.Channel{domain.ChannelPOS},
					Lines:         []domain.CostTemplateLine{{FlatAmount: dec("5")}},
				},
			},
			validate: func(t *testing.T, r CostResolution) {
				assert.Empty(t, r.Costs)
			},
		},
		{
			name: "Fórmula CEL sobre unidades",
			templates: []domain.CostTemplate{
				{
					Name: "Embalagem",
					Type: domain.CostTypeCustom,
					Lines: []domain.CostTemplateLine{
						{Label: "caixa", Formula: "units * 1.5 + 2.0"},
					},
				},
			},
			validate: func(t *testing.T, r CostResolution) {
				require.Len(t, r.Costs, 1)
				assert.Equal(t, "Embalagem: caixa", r.Costs[0].Label)
				assert.True(t, r.Costs[0].Amount.Equal(dec("6.5")))
			},
		},
		{
			name: "Fórmula inválida contribui zero sem derrubar os demais custos",
			templates: []domain.CostTemplate{
				{
					Name: "Quebrada",
					Type: domain.CostTypeCustom,
					Lines: []domain.CostTemplateLine{
						{Formula: "units +"},
						{FlatAmount: dec("1"), PercentageRate: dec("10"), AppliesTo: domain.AppliesToShippingRevenue},
					},
				},
			},
			validate: func(t *testing.T, r CostResolution) {
				require.Len(t, r.Costs, 1)
				assert.True(t, r.Costs[0].Amount.Equal(dec("4.5")))
			},
		},
		{
			name: "Taxa informada pelo gateway vira PAYMENT_FEE",
			fee:  dec("12.345"),
			validate: func(t *testing.T, r CostResolution) {
				require.Len(t, r.Costs, 1)
				assert.Equal(t, domain.CostSourceGateway, r.Costs[0].Source)
				assert.True(t, r.Costs[0].Amount.Equal(dec("12.35")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, items := demoOrder()
			result := resolver.Resolve(order, items, tt.skuCosts, tt.templates, tt.fee)
			tt.validate(t, result)
		})
	}
}

func TestCostResolver_SubtotalBase(t *testing.T) {
	resolver := NewCostResolver(nil)
	order, items := demoOrder()

	result := resolver.Resolve(order, items, nil, []domain.CostTemplate{
		{
			Name:  "Marketplace",
			Type:  domain.CostTypePlatformFee,
			Lines: []domain.CostTemplateLine{{PercentageRate: dec("10"), AppliesTo: domain.AppliesToSubtotal}},
		},
	}, decimal.Zero)

	require.Len(t, result.Costs, 1)
	assert.True(t, result.Costs[0].Amount.Equal(dec("42")))
	assert.Equal(t, 2, result.MissingSkuCostCount)
}

func TestCostResolver_ItemSemSkuNaoContaComoAusente(t *testing.T) {
	resolver := NewCostResolver(nil)
	order, items := demoOrder()
	items = append(items, domain.LineItem{Title: "Gorjeta", Quantity: 1, UnitPrice: dec("5"), Revenue: dec("5")})

	result := resolver.Resolve(order, items, map[string]decimal.Decimal{"SKU-A": dec("40"), "SKU-B": dec("70")}, nil, decimal.Zero)

	assert.Equal(t, 0, result.MissingSkuCostCount)
	require.Len(t, result.LineItems, 3)
	assert.True(t, result.LineItems[2].Cogs.IsZero())
	assert.True(t, domain.SumCosts(result.Costs, domain.CostTypeCOGS).Equal(dec("150")))
}

func TestCostResolver_FormulaNaoFinitaIgnorada(t *testing.T) {
	formulas, err := NewFormulaEvaluator()
	require.NoError(t, err)
	resolver := NewCostResolver(formulas)
	order, _ := demoOrder()

	var result CostResolution
	require.NotPanics(t, func() {
		result = resolver.Resolve(order, nil, nil, []domain.CostTemplate{
			{
				Name: "Rateio",
				Type: domain.CostTypeCustom,
				Lines: []domain.CostTemplateLine{
					{Label: "por unidade", Formula: "base / units"},
					{Label: "fixo", FlatAmount: dec("2")},
				},
			},
		}, decimal.Zero)
	})

	require.Len(t, result.Costs, 1)
	assert.Equal(t, "Rateio: fixo", result.Costs[0].Label)
	assert.True(t, result.Costs[0].Amount.Equal(dec("2")))
}
