package portfoliov1

import "fmt"

// Trader ties an identity to a portfolio. Traders must be registered before
// orders are submitted on their behalf, otherwise settlement for their side
// of a trade is skipped.
type Trader struct {
	ID        string
	Name      string
	Portfolio *Portfolio
}

// NewTrader creates a trader with the given portfolio.
func NewTrader(id, name string, portfolio *Portfolio) *Trader {
	return &Trader{ID: id, Name: name, Portfolio: portfolio}
}

func (t *Trader) String() string {
	return fmt.Sprintf("Trader{%s:%s}", t.ID, t.Name)
}
