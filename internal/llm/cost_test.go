package llm_test

import (
	"testing"

	"go-hiring-ingest/internal/domain"
	"go-hiring-ingest/internal/llm"

	"github.com/stretchr/testify/assert"
)

func TestPricingCost(t *testing.T) {
	t.Run("Should combine prompt and completion rates per thousand tokens", func(t *testing.T) {
		p := llm.Pricing{PromptPer1K: 0.15, CompletionPer1K: 0.60, CurrencyMultiplier: 1}
		cost := p.Cost(domain.TokenUsage{PromptTokens: 2000, CompletionTokens: 500})
		assert.InDelta(t, 0.60, cost, 1e-9)
	})

	t.Run("Should apply the currency multiplier", func(t *testing.T) {
		p := llm.Pricing{PromptPer1K: 1, CompletionPer1K: 1, CurrencyMultiplier: 15000, Currency: "IDR"}
		cost := p.Cost(domain.TokenUsage{PromptTokens: 1000, CompletionTokens: 1000})
		assert.InDelta(t, 30000, cost, 1e-6)
	})

	t.Run("Should treat a zero multiplier as identity", func(t *testing.T) {
		p := llm.Pricing{PromptPer1K: 1}
		cost := p.Cost(domain.TokenUsage{PromptTokens: 1000})
		assert.InDelta(t, 1, cost, 1e-9)
	})
}
