// Package timeline implements C8: it partitions synthesised narration
// chunks into time-budgeted scenes and aligns caption segments to the
// resulting durations.
package timeline

import (
	"fmt"

	"scenecast/internal/models"
)

// Options configures one Build invocation; Policy comes from
// RenderConfig.Sections, IntroRelief/IntroReliefSeconds from
// RenderConfig.KenBurns.
type Options struct {
	Policy             models.SectionPolicy
	IntroRelief        float64
	IntroReliefSeconds float64
}

// Build assigns scene durations from narration chunk lengths and chunk
// geometry, bundling up to Policy.MaxChunksPerScene chunks per scene and
// clamping each scene's duration into [MinSceneSeconds, MaxSceneSeconds].
//
// Scene ids are "opening" for the single opening scene and "scene-%03d" for
// content scenes, in source order — stable across runs for the same script,
// which is what lets MotionVector reproduce the same output deterministically.
func Build(sources []models.SceneSource, opts Options) ([]models.ScenePlan, error) {
	if len(sources) == 0 {
		return nil, models.ErrEmptyScript
	}

	var plans []models.ScenePlan
	contentIndex := 0

	for _, src := range sources {
		for _, c := range src.Chunks {
			if c.DurationSeconds <= 0 {
				return nil, fmt.Errorf("%w: chunk %q has duration %v", models.ErrInvalidDuration, c.Text, c.DurationSeconds)
			}
		}

		if src.Kind == models.SceneOpening {
			plan, err := buildOpeningScene(src)
			if err != nil {
				return nil, err
			}
			plans = append(plans, plan)
			continue
		}

		bundles := bundleChunks(src.Chunks, opts.Policy.MaxChunksPerScene)
		for _, bundle := range bundles {
			id := fmt.Sprintf("scene-%03d", contentIndex)
			contentIndex++
			plan, err := buildContentScene(id, src.BaseImagePath, bundle, opts)
			if err != nil {
				return nil, err
			}
			plans = append(plans, plan)
		}
	}

	return plans, nil
}

// bundleChunks groups consecutive chunks up to maxPerScene at a time.
func bundleChunks(chunks []models.NarrationChunk, maxPerScene int) [][]models.NarrationChunk {
	if maxPerScene <= 0 {
		maxPerScene = 1
	}
	var bundles [][]models.NarrationChunk
	for i := 0; i < len(chunks); i += maxPerScene {
		end := i + maxPerScene
		if end > len(chunks) {
			end = len(chunks)
		}
		bundles = append(bundles, chunks[i:end])
	}
	return bundles
}

func buildOpeningScene(src models.SceneSource) (models.ScenePlan, error) {
	if len(src.Chunks) == 0 {
		return models.ScenePlan{}, fmt.Errorf("%w: opening scene has no narration", models.ErrEmptyScript)
	}
	var audioPath string
	var duration float64
	for _, c := range src.Chunks {
		if audioPath == "" {
			audioPath = c.AudioPath
		}
		duration += c.DurationSeconds
	}

	return models.ScenePlan{
		ID:                 "opening",
		Kind:               models.SceneOpening,
		NarrationAudioPath: audioPath,
		DurationSeconds:    duration,
		MotionVector:       MotionVector("opening"),
		Segments: []models.TextSegment{
			{
				Lines:         []string{src.Title},
				StartOffset:   0,
				Duration:      duration,
				TextForTyping: src.Title,
			},
		},
	}, nil
}

func buildContentScene(id, imagePath string, chunks []models.NarrationChunk, opts Options) (models.ScenePlan, error) {
	padding := opts.Policy.PaddingSeconds
	narrationSum := 0.0
	for _, c := range chunks {
		narrationSum += c.DurationSeconds
	}
	gapSeconds := 0.0
	if len(chunks) > 1 {
		gapSeconds = padding * float64(len(chunks)-1)
	}
	duration := narrationSum + gapSeconds
	duration = clamp(duration, opts.Policy.MinSceneSeconds, opts.Policy.MaxSceneSeconds)

	// Distribute any clamp-induced slack/shrink across segments proportionally
	// to their narration share, so invariant 1 (sum of segment durations ==
	// scene duration) always holds exactly, including at the clamp boundary.
	scale := 1.0
	if narrationSum+gapSeconds > 0 {
		scale = duration / (narrationSum + gapSeconds)
	}

	segments := make([]models.TextSegment, 0, len(chunks))
	offset := 0.0
	for i, c := range chunks {
		segDuration := c.DurationSeconds * scale
		if i < len(chunks)-1 {
			segDuration += padding * scale
		}
		if i == len(chunks)-1 {
			// Absorb any floating-point residue so the sum is exact.
			segDuration = duration - offset
		}
		lines := wrapChunk(c.Text, opts.Policy.WrapColumns)
		segments = append(segments, models.TextSegment{
			Lines:         lines,
			StartOffset:   offset,
			Duration:      segDuration,
			TextForTyping: c.Text,
		})
		offset += segDuration
	}

	narrationPath := ""
	if len(chunks) > 0 {
		narrationPath = chunks[0].AudioPath
	}

	return models.ScenePlan{
		ID:                 id,
		Kind:               models.SceneContent,
		BaseImagePath:       imagePath,
		NarrationAudioPath: narrationPath,
		DurationSeconds:    duration,
		Segments:           segments,
		MotionVector:       MotionVector(id),
		IntroReliefSeconds: opts.IntroReliefSeconds,
	}, nil
}

func wrapChunk(text string, width int) []string {
	lines := WrapText(text, width)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func clamp(v, lo, hi float64) float64 {
	if hi > 0 && v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}
