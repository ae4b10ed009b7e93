package database

import (
	"database/sql"
	"encoding/json"

	"scenecast/internal/models"
)

// SceneStatus is the lifecycle state of one scene within a run.
type SceneStatus string

const (
	SceneStatusPending  SceneStatus = "pending"
	SceneStatusRunning  SceneStatus = "running"
	SceneStatusComplete SceneStatus = "complete"
	SceneStatusFailed   SceneStatus = "failed"
)

// SceneRecord pairs a scene's plan with its per-run render outcome.
type SceneRecord struct {
	models.ScenePlan
	RunID      string
	Index      int
	OutputPath string
	Status     SceneStatus
	Error      string
}

// SceneRepository handles per-scene render-progress rows (C11), keyed by
// (run_id, scene_id).
type SceneRepository struct {
	db *sql.DB
}

func NewSceneRepository(db *sql.DB) *SceneRepository {
	return &SceneRepository{db: db}
}

// CreateAll inserts one pending row per scene in plan order, within a single
// transaction.
func (r *SceneRepository) CreateAll(runID string, scenes []models.ScenePlan) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO scenes (run_id, scene_id, scene_index, kind, duration_seconds, plan_json, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, scene := range scenes {
		planJSON, err := json.Marshal(scene)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(runID, scene.ID, i, scene.Kind, scene.DurationSeconds, string(planJSON), SceneStatusPending); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdateStatus records a scene's render outcome.
func (r *SceneRepository) UpdateStatus(runID, sceneID string, status SceneStatus, outputPath, sceneErr string) error {
	_, err := r.db.Exec(
		`UPDATE scenes SET status=?, output_path=?, error=? WHERE run_id=? AND scene_id=?`,
		status, outputPath, sceneErr, runID, sceneID,
	)
	return err
}

// ListByRun returns every scene plan for runID, ordered by scene_index.
func (r *SceneRepository) ListByRun(runID string) ([]models.ScenePlan, error) {
	rows, err := r.db.Query(
		`SELECT plan_json FROM scenes WHERE run_id = ? ORDER BY scene_index ASC`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenes []models.ScenePlan
	for rows.Next() {
		var planJSON string
		if err := rows.Scan(&planJSON); err != nil {
			return nil, err
		}
		var plan models.ScenePlan
		if err := json.Unmarshal([]byte(planJSON), &plan); err != nil {
			return nil, err
		}
		scenes = append(scenes, plan)
	}
	return scenes, rows.Err()
}

// ListRecordsByRun returns every scene's full render-progress record for
// runID, ordered by scene_index.
func (r *SceneRepository) ListRecordsByRun(runID string) ([]SceneRecord, error) {
	rows, err := r.db.Query(
		`SELECT scene_index, plan_json, output_path, status, error
		 FROM scenes WHERE run_id = ? ORDER BY scene_index ASC`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SceneRecord
	for rows.Next() {
		var rec SceneRecord
		var planJSON string
		if err := rows.Scan(&rec.Index, &planJSON, &rec.OutputPath, &rec.Status, &rec.Error); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(planJSON), &rec.ScenePlan); err != nil {
			return nil, err
		}
		rec.RunID = runID
		records = append(records, rec)
	}
	return records, rows.Err()
}
