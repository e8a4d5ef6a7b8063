package analysis

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/audiofp-go/internal/dataset"
	"github.com/tphakala/audiofp-go/internal/sequence"
)

func planFixture(t *testing.T) (*dataset.Policy, *sequence.Sequence) {
	t.Helper()

	files := []string{"/pool/a.wav", "/pool/b.wav", "/pool/c.wav", "/pool/d.wav"}
	policy := &dataset.Policy{
		Files:                files,
		BatchSize:            4,
		NAnchor:              2,
		Duration:             1.0,
		Hop:                  0.5,
		SampleRate:           8000,
		Shuffle:              true,
		DropLastPartialBatch: true,
	}

	seq, err := sequence.New(policy.SequenceParams())
	require.NoError(t, err)
	return policy, seq
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	policy, seq := planFixture(t)
	policy.Background = &dataset.BgMix{Files: []string{"/bg/n.wav"}, FallbackFromTrain: true}

	s := summarize("val", policy, seq)
	assert.Equal(t, "val", s.Partition)
	assert.Equal(t, 4, s.Files)
	assert.Equal(t, 2, s.NumBatches)
	assert.Equal(t, 1, s.PositivesPerAnchor)
	assert.Equal(t, []string{"background (train pool)"}, s.Augmentation)
	assert.True(t, s.DropLastPartialBatch)
}

func TestRenderWritesSummaryAndFileList(t *testing.T) {
	t.Parallel()

	policy, seq := planFixture(t)
	out := filepath.Join(t.TempDir(), "plan", "files.lst")

	var buf bytes.Buffer
	err := render(&buf, summarize("train", policy, seq), policy.Files, Options{Out: out})
	require.NoError(t, err)

	var got PlanSummary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "train", got.Partition)
	assert.Equal(t, 4, got.BatchSize)

	// The file list round-trips through the manifest reader.
	files, err := dataset.ReadManifest(out)
	require.NoError(t, err)
	assert.Equal(t, policy.Files, files)
}

func TestRenderWithoutOutSkipsFileList(t *testing.T) {
	t.Parallel()

	policy, seq := planFixture(t)

	var buf bytes.Buffer
	require.NoError(t, render(&buf, summarize("train", policy, seq), policy.Files, Options{}))
	assert.Contains(t, buf.String(), "partition: train")
}
