package yieldsource

import (
	"context"

	"github.com/shopspring/decimal"
)

// PlaceholderSource is the source name reported by the placeholder provider
const PlaceholderSource = "placeholder"

// Config is the configuration of the APY provider
type Config struct {
	// PlaceholderAPY is the percent returned until a real yield source is available
	PlaceholderAPY float64 `mapstructure:"PlaceholderAPY"`
}

// Quote is an APY value in percent
type Quote struct {
	Value decimal.Decimal
	// Placeholder is true when Value is not computed from on-chain data
	Placeholder bool
	Source      string
}

// Provider returns the current vault APY
type Provider interface {
	APY(ctx context.Context) (Quote, error)
}

// Placeholder always returns the same APY, flagged as a placeholder
type Placeholder struct {
	value decimal.Decimal
}

// NewPlaceholder creates a placeholder provider returning apy percent
func NewPlaceholder(apy float64) *Placeholder {
	return &Placeholder{value: decimal.NewFromFloat(apy)}
}

// APY returns the configured value
func (p *Placeholder) APY(context.Context) (Quote, error) {
	return Quote{
		Value:       p.value,
		Placeholder: true,
		Source:      PlaceholderSource,
	}, nil
}
