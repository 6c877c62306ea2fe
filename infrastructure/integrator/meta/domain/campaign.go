package metadomain

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

// CampaignInsight é uma linha de insights no nível de campanha com time_increment=1,
// ou seja, um dia de uma campanha
type CampaignInsight struct {
	AccountID       string `json:"account_id"`
	AccountCurrency string `json:"account_currency"`
	CampaignID      string `json:"campaign_id"`
	CampaignName    string `json:"campaign_name"`
	DateStart       string `json:"date_start"`
	DateStop        string `json:"date_stop"`
	Spend           string `json:"spend"`
}

type ResponseCampaignInsights struct {
	Data   []CampaignInsight `json:"data"`
	Paging Paging            `json:"paging"`
}
