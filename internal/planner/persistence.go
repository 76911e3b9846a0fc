package planner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"upside-down-research.com/oss/sasplan/internal/search"
)

// PlanRecord is the JSON artifact written per solver run.
type PlanRecord struct {
	RunID     string   `json:"run_id"`
	Task      string   `json:"task"`
	Heuristic string   `json:"heuristic"`
	Status    string   `json:"status"`
	Plan      []string `json:"plan,omitempty"`
	Cost      int64    `json:"cost"`

	Expanded       int64 `json:"expanded"`
	Generated      int64 `json:"generated"`
	Pruned         int64 `json:"pruned"`
	HeuristicCalls int64 `json:"heuristic_calls"`

	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// NewPlanRecord assembles a record from a finished search.
func NewPlanRecord(task, heuristic string, res *search.Result, dur time.Duration) *PlanRecord {
	status := "solved"
	if !res.Found {
		status = "no_plan"
	}
	return &PlanRecord{
		RunID:          uuid.NewString(),
		Task:           task,
		Heuristic:      heuristic,
		Status:         status,
		Plan:           res.Plan,
		Cost:           res.Cost,
		Expanded:       res.Stats.Expanded,
		Generated:      res.Stats.Generated,
		Pruned:         res.Stats.Pruned,
		HeuristicCalls: res.Stats.HeuristicCalls,
		DurationMS:     dur.Milliseconds(),
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
}

// RecordStore writes plan records under a base directory.
type RecordStore struct {
	baseDir string
}

// NewRecordStore creates a store rooted at dir.
func NewRecordStore(dir string) *RecordStore {
	return &RecordStore{baseDir: dir}
}

// Save writes the record as <run-id>.json and returns the file path.
func (s *RecordStore) Save(rec *PlanRecord) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create record directory: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan record: %w", err)
	}
	file := filepath.Join(s.baseDir, rec.RunID+".json")
	if err := os.WriteFile(file, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write plan record: %w", err)
	}
	return file, nil
}

// Load reads a record back by run id.
func (s *RecordStore) Load(runID string) (*PlanRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read plan record: %w", err)
	}
	rec := &PlanRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("failed to parse plan record: %w", err)
	}
	return rec, nil
}
