package backtest

import (
	"github.com/shopspring/decimal"
)

// portfolio is the isolated bookkeeping state of a single evaluation. Every
// Evaluate call constructs its own portfolio, so concurrent evaluations
// never share mutable state.
type portfolio struct {
	cash     decimal.Decimal
	quantity decimal.Decimal
	cost     decimal.Decimal

	initialCapital decimal.Decimal
	peakEquity     decimal.Decimal
	maxDrawdown    decimal.Decimal

	wins        int
	losses      int
	grossProfit decimal.Decimal
	grossLoss   decimal.Decimal
}

func newPortfolio(initialCapital decimal.Decimal) *portfolio {
	return &portfolio{
		cash:           initialCapital,
		quantity:       decimal.Zero,
		cost:           decimal.Zero,
		initialCapital: initialCapital,
		peakEquity:     initialCapital,
		maxDrawdown:    decimal.Zero,
		wins:           0,
		losses:         0,
		grossProfit:    decimal.Zero,
		grossLoss:      decimal.Zero,
	}
}

func (p *portfolio) holding() bool {
	return p.quantity.IsPositive()
}

// buy converts all available cash into a position at the given price.
func (p *portfolio) buy(price decimal.Decimal) {
	if p.holding() || !p.cash.IsPositive() || !price.IsPositive() {
		return
	}

	p.quantity = p.cash.Div(price)
	p.cost = p.cash
	p.cash = decimal.Zero
}

// sell liquidates the position at the given price and records the trade.
func (p *portfolio) sell(price decimal.Decimal) {
	if !p.holding() {
		return
	}

	proceeds := p.quantity.Mul(price)
	pnl := proceeds.Sub(p.cost)

	if pnl.IsPositive() {
		p.wins++
		p.grossProfit = p.grossProfit.Add(pnl)
	} else {
		p.losses++
		p.grossLoss = p.grossLoss.Add(pnl.Neg())
	}

	p.cash = proceeds
	p.quantity = decimal.Zero
	p.cost = decimal.Zero
}

// markToMarket updates the equity peak and max drawdown at the given price.
func (p *portfolio) markToMarket(price decimal.Decimal) {
	equity := p.equity(price)

	if equity.GreaterThan(p.peakEquity) {
		p.peakEquity = equity

		return
	}

	if !p.peakEquity.IsPositive() {
		return
	}

	drawdown := p.peakEquity.Sub(equity).Div(p.peakEquity)
	if drawdown.GreaterThan(p.maxDrawdown) {
		p.maxDrawdown = drawdown
	}
}

func (p *portfolio) equity(price decimal.Decimal) decimal.Decimal {
	return p.cash.Add(p.quantity.Mul(price))
}

func (p *portfolio) tradeCount() int {
	return p.wins + p.losses
}

func (p *portfolio) winRate() decimal.Decimal {
	total := p.tradeCount()
	if total == 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(int64(p.wins)).Div(decimal.NewFromInt(int64(total)))
}

func (p *portfolio) profitFactor() decimal.Decimal {
	if !p.grossLoss.IsPositive() {
		if p.grossProfit.IsPositive() {
			return p.grossProfit
		}

		return decimal.Zero
	}

	return p.grossProfit.Div(p.grossLoss)
}

func (p *portfolio) totalReturn(price decimal.Decimal) decimal.Decimal {
	if !p.initialCapital.IsPositive() {
		return decimal.Zero
	}

	return p.equity(price).Sub(p.initialCapital).Div(p.initialCapital)
}
