package parsing

import (
	"errors"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/pkg/utils"
)

// UseNumber preserva ids numéricos longos e valores monetários sem passar por float64
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

var (
	ErrEmptyPayload   = errors.New("payload is empty")
	ErrInvalidPayload = errors.New("payload is not a JSON object")
	ErrMissingOrderID = errors.New("order id is missing from payload")
)

var gramsPerKg = decimal.NewFromInt(1000)

type Parser struct {
	classifier ChannelClassifier
	now        func() time.Time
}

func NewParser(classifier ChannelClassifier) *Parser {
	return &Parser{
		classifier: classifier,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Decode transforma o corpo bruto do webhook em um mapa genérico
func (p *Parser) Decode(raw []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, ErrEmptyPayload
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
		return nil, ErrInvalidPayload
	}

	// alguns emissores embrulham o pedido em {"order": {...}}
	if inner := utils.ToMap(payload["order"]); inner != nil && payload["id"] == nil {
		return inner, nil
	}

	return payload, nil
}

// Parse normaliza o payload. Campos numéricos malformados viram zero; só a
// ausência do id do pedido é erro.
func (p *Parser) Parse(storeID string, payload map[string]any, defaultCurrency string) (*domain.ParsedOrder, error) {
	externalID := utils.ToString(utils.First(payload, "id", "order_id"))
	if externalID == "" {
		return nil, ErrMissingOrderID
	}

	order := domain.Order{
		StoreID:         storeID,
		ExternalID:      externalID,
		Name:            utils.ToString(utils.First(payload, "name", "order_number")),
		FinancialStatus: strings.ToLower(utils.ToString(payload["financial_status"])),
		SourceName:      utils.ToString(utils.First(payload, "source_name", "source")),
		Currency:        strings.ToUpper(utils.ToString(utils.First(payload, "currency", "presentment_currency"))),
		Gateway:         parseGateway(payload),
	}
	if order.Currency == "" {
		order.Currency = strings.ToUpper(defaultCurrency)
	}

	if processedAt, ok := utils.ToTime(utils.First(payload, "processed_at", "created_at", "updated_at")); ok {
		order.ProcessedAt = processedAt
	} else {
		order.ProcessedAt = p.now()
	}

	order.CustomerID, order.CustomerEmail = parseCustomer(payload)

	address := utils.ToMap(utils.First(payload, "shipping_address", "billing_address"))
	if address != nil {
		order.ShippingCountry = strings.ToUpper(utils.ToString(utils.First(address, "country_code", "country")))
		order.ShippingRegion = strings.ToUpper(utils.ToString(utils.First(address, "province_code", "province", "region")))
	}

	order.ShippingCarrier = parseShippingCarrier(payload)

	lineItems, grossSubtotal, weightGrams := parseLineItems(payload)

	if len(lineItems) > 0 {
		order.Subtotal = grossSubtotal
	} else {
		order.Subtotal = utils.ToDecimal(utils.First(payload, "subtotal_price", "subtotal")).Abs()
	}

	order.Discount = utils.ToDecimal(utils.First(payload, "total_discounts", "discount")).Abs()
	order.ShippingRevenue = parseShippingRevenue(payload)
	order.Tax = utils.ToDecimal(utils.First(payload, "total_tax", "tax")).Abs()

	netSubtotal := order.Subtotal
	if !utils.ToBool(payload["subtotal_includes_discount"]) {
		netSubtotal = netSubtotal.Sub(order.Discount)
	}
	order.Revenue = netSubtotal.Add(order.ShippingRevenue).Add(order.Tax)

	if order.Subtotal.IsZero() && len(lineItems) == 0 {
		if total := utils.ToDecimal(payload["total_price"]); total.IsPositive() {
			order.Revenue = total
		}
	}
	if order.Revenue.IsNegative() {
		order.Revenue = decimal.Zero
	}

	// total informado pela loja, mantido para auditoria; a receita é sempre a derivada
	order.Total = utils.ToDecimal(payload["total_price"]).Abs()
	if order.Total.IsZero() {
		order.Total = order.Revenue
	}

	if weightGrams == 0 {
		weightGrams = utils.ToInt64(payload["total_weight"])
	}
	order.TotalWeightKg = decimal.NewFromInt(weightGrams).Div(gramsPerKg)

	order.Channel = p.classifier.Classify(ChannelSignals{
		SourceName:    order.SourceName,
		ReferringSite: utils.ToString(payload["referring_site"]),
		LandingSite:   utils.ToString(payload["landing_site"]),
		Tags:          utils.ToString(payload["tags"]),
	})

	refunds := make([]map[string]any, 0)
	for _, raw := range utils.ToSlice(payload["refunds"]) {
		if refund := utils.ToMap(raw); refund != nil {
			refunds = append(refunds, refund)
		}
	}

	return &domain.ParsedOrder{
		Order:      order,
		LineItems:  lineItems,
		RawRefunds: refunds,
		GatewayFee: parseGatewayFee(payload),
	}, nil
}

func parseGateway(payload map[string]any) string {
	if gateway := utils.ToString(payload["gateway"]); gateway != "" {
		return strings.ToLower(gateway)
	}
	for _, name := range utils.ToSlice(payload["payment_gateway_names"]) {
		if gateway := utils.ToString(name); gateway != "" {
			return strings.ToLower(gateway)
		}
	}
	return ""
}

func parseCustomer(payload map[string]any) (string, string) {
	customer := utils.ToMap(payload["customer"])
	if customer == nil {
		return "", ""
	}
	if utils.ToBool(customer["anonymized"]) || utils.ToBool(customer["redacted"]) {
		return "", ""
	}
	email := utils.ToString(customer["email"])
	if email == "" {
		email = utils.ToString(payload["email"])
	}
	return utils.ToString(customer["id"]), strings.ToLower(email)
}

func parseLineItems(payload map[string]any) ([]domain.LineItem, decimal.Decimal, int64) {
	items := make([]domain.LineItem, 0)
	subtotal := decimal.Zero
	var weightGrams int64

	for _, raw := range utils.ToSlice(payload["line_items"]) {
		entry := utils.ToMap(raw)
		if entry == nil {
			continue
		}

		quantity := utils.ToInt64(entry["quantity"])
		if quantity < 0 {
			quantity = 0
		}
		qty := decimal.NewFromInt(quantity)

		unitPrice := utils.ToDecimal(entry["price"]).Abs()
		discount := utils.ToDecimal(entry["total_discount"]).Abs()
		if discount.IsZero() {
			for _, allocation := range utils.ToSlice(entry["discount_allocations"]) {
				discount = discount.Add(utils.ToDecimal(utils.ToMap(allocation)["amount"]).Abs())
			}
		}

		gross := unitPrice.Mul(qty)
		revenue := gross.Sub(discount)
		if revenue.IsNegative() {
			revenue = decimal.Zero
		}

		grams := utils.ToInt64(entry["grams"])
		if grams < 0 {
			grams = 0
		}

		items = append(items, domain.LineItem{
			SKU:         utils.ToString(entry["sku"]),
			VariantID:   utils.ToString(entry["variant_id"]),
			Title:       utils.ToString(utils.First(entry, "title", "name")),
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Discount:    discount,
			Revenue:     revenue,
			WeightGrams: grams,
		})

		subtotal = subtotal.Add(gross)
		weightGrams += grams * quantity
	}

	return items, subtotal, weightGrams
}

func parseShippingRevenue(payload map[string]any) decimal.Decimal {
	if set := utils.Dig(payload, "total_shipping_price_set", "shop_money", "amount"); set != nil {
		return utils.ToDecimal(set).Abs()
	}

	lines := utils.ToSlice(payload["shipping_lines"])
	if len(lines) > 0 {
		total := decimal.Zero
		for _, raw := range lines {
			line := utils.ToMap(raw)
			if line == nil {
				continue
			}
			total = total.Add(utils.ToDecimal(utils.First(line, "discounted_price", "price")).Abs())
		}
		return total
	}

	return utils.ToDecimal(utils.First(payload, "shipping", "shipping_price")).Abs()
}

func parseShippingCarrier(payload map[string]any) string {
	for _, raw := range utils.ToSlice(payload["shipping_lines"]) {
		line := utils.ToMap(raw)
		if line == nil {
			continue
		}
		if carrier := utils.ToString(utils.First(line, "carrier_identifier", "source", "code", "title")); carrier != "" {
			return strings.ToLower(carrier)
		}
	}
	return ""
}

// parseGatewayFee soma as taxas informadas nas transações de venda/captura bem-sucedidas
func parseGatewayFee(payload map[string]any) decimal.Decimal {
	total := decimal.Zero
	for _, raw := range utils.ToSlice(payload["transactions"]) {
		tx := utils.ToMap(raw)
		if tx == nil {
			continue
		}
		kind := strings.ToLower(utils.ToString(tx["kind"]))
		status := strings.ToLower(utils.ToString(tx["status"]))
		if (kind != "sale" && kind != "capture") || (status != "" && status != "success") {
			continue
		}

		fee := utils.ToDecimal(tx["fee"]).Abs()
		if fee.IsZero() {
			for _, f := range utils.ToSlice(tx["fees"]) {
				fee = fee.Add(utils.ToDecimal(utils.ToMap(f)["amount"]).Abs())
			}
		}
		total = total.Add(fee)
	}
	return total
}
