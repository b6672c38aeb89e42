// Package store persists simulation runs and validation reports in SQLite.
// Trajectories are stored as little-endian float64 BLOBs alongside the
// summary columns the inspect command reads.
package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cochisestarks-web/EARA---Darwish/internal/capacity"
	"github.com/cochisestarks-web/EARA---Darwish/internal/schedule"
)

// #region errors
// ErrNotFound is returned when a run or report ID does not exist.
var ErrNotFound = errors.New("not found")

// #endregion errors

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id               TEXT PRIMARY KEY,
	worker_id            TEXT NOT NULL,
	created_at           TEXT NOT NULL,
	config_json          TEXT NOT NULL,
	schedule_json        TEXT NOT NULL,
	ticks                INTEGER NOT NULL,
	mean_capacity        REAL NOT NULL,
	mean_performance     REAL NOT NULL,
	min_capacity         REAL NOT NULL,
	max_fatigue          REAL NOT NULL,
	final_capacity       REAL NOT NULL,
	total_work_time      REAL NOT NULL,
	total_rest_time      REAL NOT NULL,
	time_in_critical     REAL NOT NULL,
	emergency_shutdowns  INTEGER NOT NULL,
	violated_min         INTEGER NOT NULL,
	capacity_series      BLOB NOT NULL,
	fatigue_series       BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS validation_reports (
	report_id        TEXT PRIMARY KEY,
	run_id           TEXT,
	scenario         TEXT NOT NULL,
	created_at       TEXT NOT NULL,
	mae              REAL NOT NULL,
	rmse             REAL NOT NULL,
	max_error        REAL NOT NULL,
	max_error_index  INTEGER NOT NULL,
	data_points      INTEGER NOT NULL,
	passed           INTEGER NOT NULL,
	reason           TEXT NOT NULL,
	error_series     BLOB NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// #endregion schema

// #region records
// RunRecord is one stored simulation run.
type RunRecord struct {
	RunID     string
	WorkerID  string
	CreatedAt time.Time
	Config    capacity.Config
	Schedule  schedule.Schedule
	Summary   capacity.Summary
	Capacity  []float64
	Fatigue   []float64
}

// ReportRecord is one stored validation report. RunID may be empty when the
// validated run was not itself saved.
type ReportRecord struct {
	ReportID      string
	RunID         string
	Scenario      string
	CreatedAt     time.Time
	MAE           float64
	RMSE          float64
	MaxError      float64
	MaxErrorIndex int
	DataPoints    int
	Passed        bool
	Reason        string
	Errors        []float64
}

// #endregion records

// #region store
// Store manages runs and validation reports in one SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion store

// #region save-run
// SaveRun inserts one run transactionally.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) error {
	cfgJSON, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	schedJSON, err := json.Marshal(rec.Schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, worker_id, created_at, config_json, schedule_json, ticks,
			mean_capacity, mean_performance, min_capacity, max_fatigue, final_capacity,
			total_work_time, total_rest_time, time_in_critical, emergency_shutdowns,
			violated_min, capacity_series, fatigue_series)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.WorkerID, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(cfgJSON), string(schedJSON), rec.Summary.Ticks,
		rec.Summary.MeanCapacity, rec.Summary.MeanPerformance,
		rec.Summary.MinObservedCapacity, rec.Summary.MaxObservedFatigue,
		rec.Summary.FinalCapacity, rec.Summary.TotalWorkTime, rec.Summary.TotalRestTime,
		rec.Summary.TimeInCriticalZone, rec.Summary.EmergencyShutdowns,
		boolToInt(rec.Summary.ViolatedMinCapacity),
		encodeSeries(rec.Capacity), encodeSeries(rec.Fatigue),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return tx.Commit()
}

// #endregion save-run

// #region get-run
// GetRun retrieves one run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	var rec RunRecord
	var createdStr, cfgJSON, schedJSON string
	var violated int
	var capBlob, fatBlob []byte

	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, worker_id, created_at, config_json, schedule_json, ticks,
			mean_capacity, mean_performance, min_capacity, max_fatigue, final_capacity,
			total_work_time, total_rest_time, time_in_critical, emergency_shutdowns,
			violated_min, capacity_series, fatigue_series
		 FROM runs WHERE run_id = ?`, runID,
	).Scan(&rec.RunID, &rec.WorkerID, &createdStr, &cfgJSON, &schedJSON, &rec.Summary.Ticks,
		&rec.Summary.MeanCapacity, &rec.Summary.MeanPerformance,
		&rec.Summary.MinObservedCapacity, &rec.Summary.MaxObservedFatigue,
		&rec.Summary.FinalCapacity, &rec.Summary.TotalWorkTime, &rec.Summary.TotalRestTime,
		&rec.Summary.TimeInCriticalZone, &rec.Summary.EmergencyShutdowns,
		&violated, &capBlob, &fatBlob)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: run %s", ErrNotFound, runID)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", runID, err)
	}

	if err := json.Unmarshal([]byte(cfgJSON), &rec.Config); err != nil {
		return RunRecord{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := json.Unmarshal([]byte(schedJSON), &rec.Schedule); err != nil {
		return RunRecord{}, fmt.Errorf("unmarshal schedule: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	rec.Summary.ViolatedMinCapacity = violated != 0
	rec.Summary.FinalFatigue = 1 - rec.Summary.FinalCapacity
	rec.Capacity = decodeSeries(capBlob)
	rec.Fatigue = decodeSeries(fatBlob)
	if n := len(rec.Fatigue); n > 0 {
		rec.Summary.FinalFatigue = rec.Fatigue[n-1]
	}
	return rec, nil
}

// #endregion get-run

// #region list-runs
// ListRuns returns the most recent runs without their series BLOBs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, worker_id, created_at, schedule_json, ticks, mean_capacity,
			min_capacity, final_capacity, emergency_shutdowns, violated_min
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var createdStr, schedJSON string
		var violated int
		if err := rows.Scan(&rec.RunID, &rec.WorkerID, &createdStr, &schedJSON,
			&rec.Summary.Ticks, &rec.Summary.MeanCapacity, &rec.Summary.MinObservedCapacity,
			&rec.Summary.FinalCapacity, &rec.Summary.EmergencyShutdowns, &violated); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(schedJSON), &rec.Schedule); err != nil {
			return nil, fmt.Errorf("unmarshal schedule: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		rec.Summary.ViolatedMinCapacity = violated != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-runs

// #region reports
// SaveReport inserts one validation report.
func (s *Store) SaveReport(ctx context.Context, rec ReportRecord) error {
	var runID any
	if rec.RunID != "" {
		runID = rec.RunID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO validation_reports (report_id, run_id, scenario, created_at, mae, rmse,
			max_error, max_error_index, data_points, passed, reason, error_series)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ReportID, runID, rec.Scenario, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		rec.MAE, rec.RMSE, rec.MaxError, rec.MaxErrorIndex, rec.DataPoints,
		boolToInt(rec.Passed), rec.Reason, encodeSeries(rec.Errors))
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetReport retrieves one validation report by ID.
func (s *Store) GetReport(ctx context.Context, reportID string) (ReportRecord, error) {
	var rec ReportRecord
	var runID sql.NullString
	var createdStr string
	var passed int
	var errBlob []byte

	err := s.db.QueryRowContext(ctx,
		`SELECT report_id, run_id, scenario, created_at, mae, rmse, max_error,
			max_error_index, data_points, passed, reason, error_series
		 FROM validation_reports WHERE report_id = ?`, reportID,
	).Scan(&rec.ReportID, &runID, &rec.Scenario, &createdStr, &rec.MAE, &rec.RMSE,
		&rec.MaxError, &rec.MaxErrorIndex, &rec.DataPoints, &passed, &rec.Reason, &errBlob)
	if errors.Is(err, sql.ErrNoRows) {
		return ReportRecord{}, fmt.Errorf("%w: report %s", ErrNotFound, reportID)
	}
	if err != nil {
		return ReportRecord{}, fmt.Errorf("get report %s: %w", reportID, err)
	}

	if runID.Valid {
		rec.RunID = runID.String
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	rec.Passed = passed != 0
	rec.Errors = decodeSeries(errBlob)
	return rec, nil
}

// ListReports returns the most recent reports without their error BLOBs.
func (s *Store) ListReports(ctx context.Context, limit int) ([]ReportRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT report_id, run_id, scenario, created_at, mae, rmse, max_error,
			data_points, passed, reason
		 FROM validation_reports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		var runID sql.NullString
		var createdStr string
		var passed int
		if err := rows.Scan(&rec.ReportID, &runID, &rec.Scenario, &createdStr,
			&rec.MAE, &rec.RMSE, &rec.MaxError, &rec.DataPoints, &passed, &rec.Reason); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if runID.Valid {
			rec.RunID = runID.String
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		rec.Passed = passed != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion reports

// #region series-encoding
func encodeSeries(v []float64) []byte {
	buf := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeSeries(b []byte) []float64 {
	v := make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion series-encoding
