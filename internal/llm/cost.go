package llm

import "go-hiring-ingest/internal/domain"

// Pricing holds the per-1,000-token rates for the configured model plus a
// fixed multiplier converting into the organization's display currency.
type Pricing struct {
	PromptPer1K        float64
	CompletionPer1K    float64
	CurrencyMultiplier float64
	Currency           string
}

// Cost computes the approximate cost of one extraction from the returned
// token counts. Logged for observability, not persisted by this core.
func (p Pricing) Cost(u domain.TokenUsage) float64 {
	multiplier := p.CurrencyMultiplier
	if multiplier == 0 {
		multiplier = 1
	}
	base := float64(u.PromptTokens)/1000*p.PromptPer1K + float64(u.CompletionTokens)/1000*p.CompletionPer1K
	return base * multiplier
}
