package wavdur

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// writeTestWAV writes a minimal valid mono 16-bit PCM WAV file containing
// numSamples samples of silence at sampleRate Hz.
func writeTestWAV(t *testing.T, path string, sampleRate, numSamples int) {
	t.Helper()

	bitsPerSample := 16
	numChannels := 1
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := numSamples * blockAlign

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	write := func(v interface{}) {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}

	f.WriteString("RIFF")
	write(uint32(36 + dataSize))
	f.WriteString("WAVE")

	f.WriteString("fmt ")
	write(uint32(16))
	write(uint16(1)) // PCM
	write(uint16(numChannels))
	write(uint32(sampleRate))
	write(uint32(byteRate))
	write(uint16(blockAlign))
	write(uint16(bitsPerSample))

	f.WriteString("data")
	write(uint32(dataSize))
	f.Write(make([]byte, dataSize))
}

func TestDurationOfOneSecondWAV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one_second.wav")
	writeTestWAV(t, path, 8000, 8000)

	dur, err := Duration(path)
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if dur < 0.99 || dur > 1.01 {
		t.Errorf("Duration() = %.4f, want ~1.0", dur)
	}
}

func TestDurationRejectsNonWAVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not_a_wav.txt")
	if err := os.WriteFile(path, []byte("not a wav file at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Duration(path); err == nil {
		t.Error("expected an error for a non-WAV file")
	}
}

func TestDurationErrorsOnMissingFile(t *testing.T) {
	if _, err := Duration("/nonexistent/path.wav"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
