// Package mixer implements C7: the BGM mixing stage, two-stage loudness
// normalisation over the concatenated intermediate's narration track plus
// an optional background-music file.
package mixer

import (
	"context"
	"fmt"
	"time"

	"scenecast/internal/models"
	"scenecast/pkg/filtergraph"
)

type toolRunner interface {
	Invoke(ctx context.Context, expectedDuration time.Duration, args ...string) error
}

// Mix produces outPath from the concatenated intermediate inPath. When
// bgm.Path is empty (Open Question (b): the mixer never assumes a
// hard-coded filename) it falls back to a pure stream-copy pass.
func Mix(ctx context.Context, runner toolRunner, inPath string, duration time.Duration, audio models.AudioProfile, bgm models.BGMConfig, outPath string) error {
	if bgm.Path == "" {
		return runner.Invoke(ctx, duration,
			"-i", inPath,
			"-c", "copy",
			"-movflags", "+faststart",
			outPath,
		)
	}

	d := duration.Seconds()
	graph, err := buildGraph(d, audio, bgm)
	if err != nil {
		return fmt.Errorf("scenecast: failed to build mixer graph: %w", err)
	}

	args := []string{
		"-i", inPath,
		"-stream_loop", "-1", "-i", bgm.Path,
		"-filter_complex", graph.Serialize(),
		"-map", "0:v",
		"-c:v", "copy",
		"-map", "[" + graph.AudioOut + "]",
		"-c:a", audio.Codec,
		"-ar", fmt.Sprintf("%d", audio.SampleRate),
		"-ac", fmt.Sprintf("%d", audio.Channels),
	}
	if audio.Bitrate != "" {
		args = append(args, "-b:a", audio.Bitrate)
	}
	args = append(args, "-movflags", "+faststart", outPath)

	if err := runner.Invoke(ctx, duration, args...); err != nil {
		return &models.MixerFailure{Cause: err}
	}
	return nil
}

// buildGraph assembles the two-stage loudnorm mix graph per spec §4.7:
// BGM is trimmed/normalised/faded, mixed with the narration track, and the
// mix is normalised a second time to the master loudness target.
func buildGraph(d float64, audio models.AudioProfile, bgm models.BGMConfig) (filtergraph.Graph, error) {
	sr := audio.SampleRate
	aformat := fmt.Sprintf("aformat=sample_fmts=fltp:sample_rates=%d:channel_layouts=stereo", sr)

	volume := bgm.BGMBoost
	if volume <= 0 {
		volume = 0.24
	}
	narrVolume := bgm.NarrationBoost
	narrFilters := []string{aformat}
	if narrVolume > 0 {
		narrFilters = append([]string{fmt.Sprintf("volume=%.4f", narrVolume)}, narrFilters...)
	}

	fadeOutStart := d - 1.0
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}

	var g filtergraph.Graph
	g.Stages = append(g.Stages, filtergraph.Stage{
		Inputs: []string{"1:a"},
		Filters: []string{
			fmt.Sprintf("atrim=0:%.4f", d),
			"asetpts=PTS-STARTPTS",
			"loudnorm=I=-30:LRA=7:TP=-2",
			fmt.Sprintf("volume=%.4f", volume),
			"afade=t=in:st=0:d=0.5",
			fmt.Sprintf("afade=t=out:st=%.4f:d=1.0", fadeOutStart),
			aformat,
		},
		Outputs: []string{"bgm"},
	})
	g.Stages = append(g.Stages, filtergraph.Stage{
		Inputs:  []string{"0:a"},
		Filters: narrFilters,
		Outputs: []string{"narr"},
	})
	g.Stages = append(g.Stages, filtergraph.Stage{
		Inputs:  []string{"narr", "bgm"},
		Filters: []string{"amix=inputs=2:duration=first:dropout_transition=2"},
		Outputs: []string{"a"},
	})
	g.Stages = append(g.Stages, filtergraph.Stage{
		Inputs: []string{"a"},
		Filters: []string{
			"loudnorm=I=-14:LRA=7:TP=-1.5",
			aformat,
		},
		Outputs: []string{"aout"},
	})

	g.AudioOut = "aout"
	return g, nil
}
