package models

import "time"

// RunStatus is the lifecycle state of one pipeline run, mirrored in the
// run store and broadcast to progress subscribers.
type RunStatus string

const (
	RunQueued     RunStatus = "queued"
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// RunManifest is the persisted record of one pipeline invocation: its
// input, resolved configuration, the scene plan it produced, and (once
// complete) where the final file landed.
//
// Sources is the authoritative input: one SceneSource per script block,
// already carrying synthesised narration and still-image paths produced by
// the (external, out of scope) voice/image pipeline. Script is carried
// alongside purely for display — titles and tags a client can show before
// a run's scene plan exists.
type RunManifest struct {
	ID            string        `json:"id"`
	Script        []ScriptBlock `json:"script,omitempty"`
	OpeningTitle  string        `json:"opening_title"`
	Sources       []SceneSource `json:"sources"`
	Config        RenderConfig  `json:"config"`
	Scenes        []ScenePlan   `json:"scenes,omitempty"`
	OutputPath    string        `json:"output_path,omitempty"`
	Status        RunStatus     `json:"status"`
	Phase         string        `json:"phase,omitempty"`
	Progress      float64       `json:"progress"`
	Error         string        `json:"error,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
