package models

// ScriptBlock is one titled block of a parsed narration script. Script
// parsing itself (raw text -> blocks) is an external collaborator; the
// pipeline only consumes the result.
type ScriptBlock struct {
	Title string
	Body  string
	Tags  []string
}

// NarrationChunk is one synthesised speech unit belonging to a script block,
// produced by the (external) asset pipeline. DurationSeconds must be > 0.
type NarrationChunk struct {
	Text            string
	AudioPath       string
	DurationSeconds float64
}

// SceneSource groups one script block with its synthesised narration chunks
// and (for content scenes) a base still image, ready for timeline assembly.
type SceneSource struct {
	Kind          SceneKind
	Title         string
	Chunks        []NarrationChunk
	BaseImagePath string // empty for opening scenes
}
