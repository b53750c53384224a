package model

import (
	"time"
)

// RunStatus represents the status of an ingestion or recommendation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

// RunType represents the kind of batch job a run records.
type RunType string

const (
	RunTypeIngest          RunType = "ingest"
	RunTypeRecommendations RunType = "recommendations"
)

// RunCounts holds per-item outcome counters for a run.
type RunCounts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// Run is one execution record of an ingestion or recommendation batch job.
// Run bookkeeping is owned by the external ingestion service; this system
// only lists runs and triggers new ones.
type Run struct {
	ID        string     `json:"id,omitempty"`
	Tenant    string     `json:"tenant,omitempty"`
	Type      RunType    `json:"type"`
	Status    RunStatus  `json:"status"`
	Counts    *RunCounts `json:"counts,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}
