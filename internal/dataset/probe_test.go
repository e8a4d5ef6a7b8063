package dataset

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/audiofp-go/internal/errors"
)

// writeWav writes a minimal PCM wav file with the given header parameters
// and numSamples of silence.
func writeWav(t *testing.T, path string, sampleRate, channels, bitDepth, numSamples int) {
	t.Helper()

	bytesPerSample := bitDepth / 8
	dataSize := numSamples * channels * bytesPerSample

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*bytesPerSample))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*bytesPerSample))
	binary.Write(&buf, binary.LittleEndian, uint16(bitDepth))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestProbeWavReadsHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clip.wav")
	writeWav(t, path, 8000, 1, 16, 8000)

	info, err := ProbeWav(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, info.SampleRate)
	assert.Equal(t, 1, info.NumChannels)
	assert.Equal(t, 16, info.BitDepth)
}

func TestProbeWavRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "noise.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a riff header"), 0o644))

	_, err := ProbeWav(path)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryAudioProbe))
}

func TestProbeWavMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ProbeWav(filepath.Join(t.TempDir(), "absent.wav"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}

func TestVerifyPoolFlagsSampleRateMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "a_good.wav")
	bad := filepath.Join(dir, "b_offrate.wav")
	writeWav(t, good, 8000, 1, 16, 100)
	writeWav(t, bad, 22050, 1, 16, 100)

	mismatched, err := VerifyPool([]string{good, bad}, 8000)
	require.NoError(t, err)
	assert.Equal(t, []string{bad}, mismatched)
}

func TestVerifyPoolStopsOnUnreadableFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "a_good.wav")
	writeWav(t, good, 8000, 1, 16, 100)

	_, err := VerifyPool([]string{good, filepath.Join(dir, "absent.wav")}, 8000)
	require.Error(t, err)
}
