// Package wavdur reads a WAV file's duration without decoding its samples.
// The timeline builder does not call it: it takes each narration chunk's
// duration as given.
package wavdur

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// Duration returns the duration, in seconds, of the WAV file at path.
func Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return 0, fmt.Errorf("scenecast: not a valid WAV file: %s", path)
	}

	decoder.ReadInfo()
	if decoder.SampleRate == 0 {
		return 0, fmt.Errorf("scenecast: could not determine sample rate: %s", path)
	}

	dur, err := decoder.Duration()
	if err != nil {
		return 0, fmt.Errorf("scenecast: failed to read WAV duration: %w", err)
	}
	return dur.Seconds(), nil
}
