package sweep

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// storeSchemaVersion is the on-disk schema version of the DuckDB store.
// Major or minor bumps make old store files unreadable; patch bumps do not.
const storeSchemaVersion = "1.0.0"

// DuckDBStore is a durable ResultStore backed by a DuckDB database file.
// Saves run inside a single transaction, so a crash mid-save leaves the
// previously stored result set (or its absence) intact.
type DuckDBStore struct {
	db  *sql.DB
	sq  squirrel.StatementBuilderType
	log *logger.Logger
}

// NewDuckDBStore opens (or creates) the store at the given path and checks
// schema-version compatibility. Use ":memory:" for an ephemeral store.
func NewDuckDBStore(path string, log *logger.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to open result store", err)
	}

	store := &DuckDBStore{
		db:  db,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		log: log,
	}

	if err := store.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return store, nil
}

func (s *DuckDBStore) initialize() error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS sweep_store_meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sweeps (
			identity TEXT PRIMARY KEY,
			status TEXT,
			result_count INTEGER,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sweep_results (
			identity TEXT,
			position INTEGER,
			combination TEXT,
			metrics TEXT,
			duration_ns BIGINT,
			error TEXT
		)`,
	}

	for _, stmt := range ddl {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create store tables", err)
		}
	}

	return s.checkSchemaVersion()
}

// checkSchemaVersion stamps new store files with the current schema version
// and rejects existing files whose major or minor version differs.
func (s *DuckDBStore) checkSchemaVersion() error {
	var stored string

	query := s.sq.Select("value").From("sweep_store_meta").Where(squirrel.Eq{"key": "schema_version"})

	err := query.RunWith(s.db).QueryRow().Scan(&stored)
	if err == sql.ErrNoRows {
		insert := s.sq.Insert("sweep_store_meta").
			Columns("key", "value").
			Values("schema_version", storeSchemaVersion)

		if _, err := insert.RunWith(s.db).Exec(); err != nil {
			return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to stamp schema version", err)
		}

		return nil
	}

	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to read schema version", err)
	}

	storedVersion, err := semver.NewVersion(stored)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStoreCorrupt, err, "invalid stored schema version %q", stored)
	}

	currentVersion := semver.MustParse(storeSchemaVersion)

	if storedVersion.Major() != currentVersion.Major() || storedVersion.Minor() != currentVersion.Minor() {
		return errors.Newf(errors.ErrCodeStoreVersion,
			"store schema version %s is incompatible with %s", stored, storeSchemaVersion)
	}

	return nil
}

// Load implements ResultStore.
func (s *DuckDBStore) Load(identity Identity) (optional.Option[*ResultSet], error) {
	none := optional.None[*ResultSet]()

	var status string

	query := s.sq.Select("status").From("sweeps").Where(squirrel.Eq{"identity": string(identity)})

	err := query.RunWith(s.db).QueryRow().Scan(&status)
	if err == sql.ErrNoRows {
		return none, nil
	}

	if err != nil {
		return none, errors.Wrap(errors.ErrCodeQueryFailed, "failed to load sweep", err)
	}

	rowsQuery := s.sq.Select("combination", "metrics", "duration_ns", "error").
		From("sweep_results").
		Where(squirrel.Eq{"identity": string(identity)}).
		OrderBy("position")

	rows, err := rowsQuery.RunWith(s.db).Query()
	if err != nil {
		return none, errors.Wrap(errors.ErrCodeQueryFailed, "failed to load sweep results", err)
	}
	defer rows.Close()

	var results []Result

	for rows.Next() {
		var (
			combinationJSON string
			metricsJSON     sql.NullString
			durationNs      int64
			errDetail       string
		)

		if err := rows.Scan(&combinationJSON, &metricsJSON, &durationNs, &errDetail); err != nil {
			return none, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan sweep result", err)
		}

		var combination Combination
		if err := json.Unmarshal([]byte(combinationJSON), &combination); err != nil {
			return none, errors.Wrap(errors.ErrCodeStoreCorrupt, "failed to decode stored combination", err)
		}

		metrics := optional.None[Output]()

		if metricsJSON.Valid {
			var m Output
			if err := json.Unmarshal([]byte(metricsJSON.String), &m); err != nil {
				return none, errors.Wrap(errors.ErrCodeStoreCorrupt, "failed to decode stored metrics", err)
			}

			metrics = optional.Some(m)
		}

		results = append(results, Result{
			Combination: combination,
			Metrics:     metrics,
			Duration:    time.Duration(durationNs),
			Error:       errDetail,
		})
	}

	if err := rows.Err(); err != nil {
		return none, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate sweep results", err)
	}

	set := NewResultSet(identity, SweepStatus(status), results)

	s.log.Debug("loaded cached sweep",
		zap.String("identity", string(identity)),
		zap.Int("results", set.Len()),
	)

	return optional.Some(set), nil
}

// Save implements ResultStore. The delete-then-insert runs in one
// transaction, which is the atomicity contract.
func (s *DuckDBStore) Save(identity Identity, set *ResultSet) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin save transaction", err)
	}
	defer tx.Rollback()

	deleteResults := s.sq.Delete("sweep_results").Where(squirrel.Eq{"identity": string(identity)})
	if _, err := deleteResults.RunWith(tx).Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to clear previous results", err)
	}

	deleteSweep := s.sq.Delete("sweeps").Where(squirrel.Eq{"identity": string(identity)})
	if _, err := deleteSweep.RunWith(tx).Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to clear previous sweep", err)
	}

	insertSweep := s.sq.Insert("sweeps").
		Columns("identity", "status", "result_count", "created_at").
		Values(string(identity), string(set.Status), set.Len(), time.Now().UTC())

	if _, err := insertSweep.RunWith(tx).Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert sweep", err)
	}

	for i, r := range set.Results {
		combinationJSON, err := json.Marshal(r.Combination)
		if err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to encode combination", err)
		}

		metricsJSON := sql.NullString{}

		if r.Metrics.IsSome() {
			encoded, err := json.Marshal(r.Metrics.Unwrap())
			if err != nil {
				return errors.Wrap(errors.ErrCodeQueryFailed, "failed to encode metrics", err)
			}

			metricsJSON = sql.NullString{String: string(encoded), Valid: true}
		}

		insertResult := s.sq.Insert("sweep_results").
			Columns("identity", "position", "combination", "metrics", "duration_ns", "error").
			Values(string(identity), i, string(combinationJSON), metricsJSON, int64(r.Duration), r.Error)

		if _, err := insertResult.RunWith(tx).Exec(); err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert result", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit save transaction", err)
	}

	s.log.Debug("persisted sweep results",
		zap.String("identity", string(identity)),
		zap.Int("results", set.Len()),
	)

	return nil
}

// Close implements ResultStore.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}
