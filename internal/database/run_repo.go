package database

import (
	"database/sql"
	"encoding/json"

	"scenecast/internal/models"
)

// RunRepository handles run manifest persistence (C11).
type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run row, serialising Script, Sources, and Config to
// JSON.
func (r *RunRepository) Create(run *models.RunManifest) error {
	scriptJSON, err := json.Marshal(run.Script)
	if err != nil {
		return err
	}
	sourcesJSON, err := json.Marshal(run.Sources)
	if err != nil {
		return err
	}
	configJSON, err := json.Marshal(run.Config)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO runs (id, script_json, opening_title, sources_json, config_json, status, phase, progress)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(scriptJSON), run.OpeningTitle, string(sourcesJSON), string(configJSON), run.Status, run.Phase, run.Progress,
	)
	return err
}

// UpdateProgress updates a run's phase/progress/status fields.
func (r *RunRepository) UpdateProgress(runID string, status models.RunStatus, phase string, progress float64) error {
	_, err := r.db.Exec(
		`UPDATE runs SET status=?, phase=?, progress=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		status, phase, progress, runID,
	)
	return err
}

// Complete marks a run finished, recording its output path or error.
func (r *RunRepository) Complete(runID string, outputPath string, runErr string) error {
	status := models.RunCompleted
	if runErr != "" {
		status = models.RunFailed
	}
	_, err := r.db.Exec(
		`UPDATE runs SET status=?, output_path=?, error=?, progress=1, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		status, outputPath, runErr, runID,
	)
	return err
}

// GetByID returns one run (with its scenes), or models.ErrRunNotFound if
// runID is unknown.
func (r *RunRepository) GetByID(runID string) (*models.RunManifest, error) {
	var run models.RunManifest
	var scriptJSON, sourcesJSON, configJSON string

	err := r.db.QueryRow(
		`SELECT id, script_json, opening_title, sources_json, config_json, output_path, status, phase, progress, error, created_at, updated_at
		 FROM runs WHERE id = ?`, runID,
	).Scan(&run.ID, &scriptJSON, &run.OpeningTitle, &sourcesJSON, &configJSON, &run.OutputPath, &run.Status, &run.Phase, &run.Progress, &run.Error, &run.CreatedAt, &run.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(scriptJSON), &run.Script); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sourcesJSON), &run.Sources); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(configJSON), &run.Config); err != nil {
		return nil, err
	}

	scenes, err := NewSceneRepository(r.db).ListByRun(runID)
	if err != nil {
		return nil, err
	}
	run.Scenes = scenes

	return &run, nil
}

// GetNextPending returns the oldest queued run, with its scenes, or nil if
// none are waiting.
func (r *RunRepository) GetNextPending() (*models.RunManifest, error) {
	var runID string
	err := r.db.QueryRow(
		`SELECT id FROM runs WHERE status = ? ORDER BY created_at ASC LIMIT 1`,
		models.RunQueued,
	).Scan(&runID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r.GetByID(runID)
}

// List returns all runs (without their scenes) ordered by most recently
// created.
func (r *RunRepository) List() ([]models.RunManifest, error) {
	rows, err := r.db.Query(
		`SELECT id, output_path, status, phase, progress, error, created_at, updated_at
		 FROM runs ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.RunManifest
	for rows.Next() {
		var run models.RunManifest
		if err := rows.Scan(&run.ID, &run.OutputPath, &run.Status, &run.Phase, &run.Progress, &run.Error, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
