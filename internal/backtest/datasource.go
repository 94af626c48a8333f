package backtest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// LoadCandles reads an OHLCV candle series from a CSV or parquet file
// through DuckDB, ordered by time. Expected columns: time, open, high,
// low, close, volume.
func LoadCandles(path string, symbol string, log *logger.Logger) ([]types.Candle, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataNotFound, "failed to open duckdb", err)
	}
	defer db.Close()

	var reader string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		reader = "read_csv_auto"
	case ".parquet":
		reader = "read_parquet"
	default:
		return nil, errors.Newf(errors.ErrCodeDataNotFound,
			"unsupported data file %q, expected .csv or .parquet", path)
	}

	// File readers are not expressible through squirrel; raw SQL with the
	// path bound as a parameter, never interpolated.
	query := fmt.Sprintf(`
		SELECT time, open, high, low, close, volume
		FROM %s(?)
		ORDER BY time;
	`, reader)

	rows, err := db.Query(query, path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read candles from %s", path)
	}
	defer rows.Close()

	var candles []types.Candle

	for rows.Next() {
		candle := types.Candle{Symbol: symbol}

		if err := rows.Scan(&candle.Time, &candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataNotFound, "failed to scan candle row", err)
		}

		candles = append(candles, candle)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataNotFound, "failed to iterate candle rows", err)
	}

	if len(candles) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no candles found in %s", path)
	}

	log.Info("loaded candles",
		zap.String("path", path),
		zap.String("symbol", symbol),
		zap.Int("count", len(candles)),
	)

	return candles, nil
}
