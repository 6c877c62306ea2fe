package domain

import "strings"

// Channel identifica a origem de venda de um pedido. TOTAL e PRODUCT são
// sentinelas reservadas das células do ledger e nunca são atribuídas a pedidos.
type Channel string

const (
	ChannelOnlineStore Channel = "ONLINE_STORE"
	ChannelPOS         Channel = "POS"
	ChannelMetaAds     Channel = "META_ADS"
	ChannelGoogleAds   Channel = "GOOGLE_ADS"
	ChannelTikTokAds   Channel = "TIKTOK_ADS"
	ChannelMarketplace Channel = "MARKETPLACE"
	ChannelWholesale   Channel = "WHOLESALE"

	ChannelTotal   Channel = "TOTAL"
	ChannelProduct Channel = "PRODUCT"
)

const (
	ProviderMeta   = "meta"
	ProviderGoogle = "google"
	ProviderTikTok = "tiktok"
)

var orderChannels = map[Channel]struct{}{
	ChannelOnlineStore: {},
	ChannelPOS:         {},
	ChannelMetaAds:     {},
	ChannelGoogleAds:   {},
	ChannelTikTokAds:   {},
	ChannelMarketplace: {},
	ChannelWholesale:   {},
}

var adProviders = map[Channel]string{
	ChannelMetaAds:   ProviderMeta,
	ChannelGoogleAds: ProviderGoogle,
	ChannelTikTokAds: ProviderTikTok,
}

// ParseChannel aceita apenas canais atribuíveis a pedidos
func ParseChannel(value string) (Channel, bool) {
	c := Channel(strings.ToUpper(strings.TrimSpace(value)))
	_, ok := orderChannels[c]
	return c, ok
}

func (c Channel) IsReserved() bool {
	return c == ChannelTotal || c == ChannelProduct
}

// AdProvider retorna o provedor de mídia associado ao canal, vazio quando não é canal de anúncio
func (c Channel) AdProvider() string {
	return adProviders[c]
}

func ChannelForProvider(provider string) (Channel, bool) {
	p := strings.ToLower(strings.TrimSpace(provider))
	for channel, name := range adProviders {
		if name == p {
			return channel, true
		}
	}
	return "", false
}
