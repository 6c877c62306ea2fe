package parsing

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/vfg2006/profit-engine/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	FieldSourceName    = "source_name"
	FieldReferringSite = "referring_site"
	FieldLandingSite   = "landing_site"
	FieldTags          = "tags"
	FieldAny           = "any"
)

// ChannelSignals reúne os campos do payload usados na classificação de canal
type ChannelSignals struct {
	SourceName    string
	ReferringSite string
	LandingSite   string
	Tags          string
}

func (s ChannelSignals) field(name string) []string {
	switch name {
	case FieldSourceName:
		return []string{s.SourceName}
	case FieldReferringSite:
		return []string{s.ReferringSite}
	case FieldLandingSite:
		return []string{s.LandingSite}
	case FieldTags:
		return []string{s.Tags}
	default:
		return []string{s.SourceName, s.ReferringSite, s.LandingSite, s.Tags}
	}
}

type ChannelClassifier interface {
	Classify(signals ChannelSignals) domain.Channel
}

type ChannelRule struct {
	Field   string `yaml:"field"`
	Pattern string `yaml:"pattern"`
	Channel string `yaml:"channel"`
}

type ChannelRuleSet struct {
	Default string        `yaml:"default"`
	Rules   []ChannelRule `yaml:"rules"`
}

type compiledRule struct {
	field   string
	pattern *regexp.Regexp
	channel domain.Channel
}

// RuleClassifier aplica as regras em ordem; a primeira que casar define o canal
type RuleClassifier struct {
	rules    []compiledRule
	fallback domain.Channel
}

func DefaultChannelRuleSet() ChannelRuleSet {
	return ChannelRuleSet{
		Default: string(domain.ChannelOnlineStore),
		Rules: []ChannelRule{
			{Field: FieldSourceName, Pattern: `^(pos|point[ _-]?of[ _-]?sale)$`, Channel: string(domain.ChannelPOS)},
			{Field: FieldSourceName, Pattern: `(amazon|mercado ?livre|ebay|shopee|marketplace)`, Channel: string(domain.ChannelMarketplace)},
			{Field: FieldSourceName, Pattern: `(wholesale|b2b)`, Channel: string(domain.ChannelWholesale)},
			{Field: FieldAny, Pattern: `(facebook|instagram|fbclid|utm_source=(fb|ig|meta))`, Channel: string(domain.ChannelMetaAds)},
			{Field: FieldAny, Pattern: `(gclid|utm_source=google|googleads)`, Channel: string(domain.ChannelGoogleAds)},
			{Field: FieldAny, Pattern: `(tiktok|ttclid)`, Channel: string(domain.ChannelTikTokAds)},
		},
	}
}

func NewRuleClassifier(set ChannelRuleSet) (*RuleClassifier, error) {
	fallback := domain.ChannelOnlineStore
	if set.Default != "" {
		c, ok := domain.ParseChannel(set.Default)
		if !ok {
			return nil, fmt.Errorf("canal padrão inválido: %s", set.Default)
		}
		fallback = c
	}

	compiled := make([]compiledRule, 0, len(set.Rules))
	for i, rule := range set.Rules {
		channel, ok := domain.ParseChannel(rule.Channel)
		if !ok {
			return nil, fmt.Errorf("regra %d: canal inválido %q", i, rule.Channel)
		}
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("regra %d: padrão inválido: %w", i, err)
		}
		field := strings.ToLower(rule.Field)
		if field == "" {
			field = FieldAny
		}
		compiled = append(compiled, compiledRule{field: field, pattern: re, channel: channel})
	}

	return &RuleClassifier{rules: compiled, fallback: fallback}, nil
}

// LoadChannelRuleSet lê as regras de um arquivo YAML; caminho vazio usa as regras padrão
func LoadChannelRuleSet(path string) (ChannelRuleSet, error) {
	if path == "" {
		return DefaultChannelRuleSet(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return ChannelRuleSet{}, fmt.Errorf("erro ao ler regras de canal: %w", err)
	}

	var set ChannelRuleSet
	if err := yaml.Unmarshal(content, &set); err != nil {
		return ChannelRuleSet{}, fmt.Errorf("erro ao interpretar regras de canal: %w", err)
	}

	return set, nil
}

func (c *RuleClassifier) Classify(signals ChannelSignals) domain.Channel {
	for _, rule := range c.rules {
		for _, value := range signals.field(rule.field) {
			if value != "" && rule.pattern.MatchString(value) {
				return rule.channel
			}
		}
	}
	return c.fallback
}
