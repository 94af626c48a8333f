package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/types"
)

// CandleGenerator generates realistic candle series for testing and
// benchmarking.
type CandleGenerator struct {
	rng *rand.Rand
}

// NewCandleGenerator creates a new CandleGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewCandleGenerator(seed int64) *CandleGenerator {
	return &CandleGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how candle data is generated.
type GeneratorConfig struct {
	// Symbol is the trading symbol (e.g., "AAPL", "SPY")
	Symbol string
	// StartTime is the beginning of the data series
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of candles to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the total drift across the series (-1.0 to 1.0)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          1000,
		InitialPrice:   100.0,
		Volatility:     0.002, // 0.2% per bar
		Trend:          0.0,   // neutral
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a candle series based on the configuration. Per-bar
// returns are drawn from a normal distribution around the drift, so the
// series behaves like geometric Brownian motion.
func (g *CandleGenerator) Generate(config GeneratorConfig) []types.Candle {
	candles := make([]types.Candle, config.Count)
	drift := config.Trend / float64(config.Count)

	price := config.InitialPrice
	ts := config.StartTime

	for i := range candles {
		open := price

		close := open * (1 + drift + config.Volatility*g.rng.NormFloat64())
		if close <= 0 {
			close = open * 0.99
		}

		// Wicks extend beyond the body by a random fraction of half a
		// bar's typical move
		wick := config.Volatility * open * 0.5
		high := math.Max(open, close) + g.rng.Float64()*wick

		low := math.Min(open, close) - g.rng.Float64()*wick
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volume := config.VolumeBase * (1 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		candles[i] = types.Candle{
			Symbol: config.Symbol,
			Time:   ts,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(close, 4),
			Volume: roundToDecimals(volume, 2),
		}

		price = close
		ts = ts.Add(config.Interval)
	}

	return candles
}

// GenerateTrending is a convenience function for a reproducible trending
// series, which gives crossover strategies something to trade.
func GenerateTrending(symbol string, count int) []types.Candle {
	gen := NewCandleGenerator(42)
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = count
	config.Trend = 0.5

	return gen.Generate(config)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))

	return math.Round(val*factor) / factor
}
