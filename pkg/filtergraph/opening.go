package filtergraph

import (
	"fmt"

	"scenecast/internal/models"
)

// BuildOpening assembles the opening-scene graph: a lavfi black source
// overlaid with the centred title PNG, per spec §4.4.
//
//	[0:v][1:v] overlay=(W-w)/2:(H-h)/2:eval=init, fps=fps, format=yuv420p -> [vout]
//
// Inputs are expected in order: 0:v black source, 1:v title PNG (looped to
// duration), 2:a narration.
func BuildOpening(canvas models.CanvasConfig) Graph {
	var g Graph
	appendStage(&g,
		[]string{"0:v", "1:v"},
		[]string{
			"overlay=(W-w)/2:(H-h)/2:eval=init",
			fmt.Sprintf("fps=%d", canvas.FPS),
			"format=yuv420p",
		},
		[]string{"vout"},
	)
	g.VideoOut = "vout"
	g.AudioOut = "2:a:0"
	return g
}
