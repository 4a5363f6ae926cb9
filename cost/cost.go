// Package cost tracks the token spend of investigations. A token is
// approximated by one character of tool output.
package cost

import (
	"math"
	"sync"
)

// TokenCost is the USD price of a single token.
const TokenCost = 0.000002

// Summary is a snapshot of a Tracker.
type Summary struct {
	Tokens int     `json:"tokens"`
	USD    float64 `json:"usd"`
}

// Tracker accumulates token counts. The zero value is ready to use and
// safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	tokens    int
	tokenCost float64
}

// NewTracker creates a Tracker priced at tokenCost USD per token. A
// non-positive tokenCost selects TokenCost.
func NewTracker(tokenCost float64) *Tracker {
	return &Tracker{tokenCost: tokenCost}
}

// AddTokens adds n tokens. Negative values are ignored.
func (t *Tracker) AddTokens(n int) {
	if n <= 0 {
		return
	}

	t.mu.Lock()
	t.tokens += n
	t.mu.Unlock()
}

// AddText adds the token estimate of s.
func (t *Tracker) AddText(s string) { t.AddTokens(EstimateTokens(s)) }

// Summary returns the current totals with the cost rounded to 6 decimals.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	price := t.tokenCost
	if price <= 0 {
		price = TokenCost
	}

	return Summary{Tokens: t.tokens, USD: Round(float64(t.tokens) * price)}
}

// EstimateTokens approximates the token count of s as its length in bytes.
func EstimateTokens(s string) int { return len(s) }

// Round rounds usd to 6 decimal places.
func Round(usd float64) float64 {
	return math.Round(usd*1e6) / 1e6
}
