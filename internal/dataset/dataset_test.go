package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/audiofp-go/internal/conf"
	"github.com/tphakala/audiofp-go/internal/errors"
)

// makePool creates count tiny .wav files under dir, returning dir.
func makePool(t *testing.T, dir string, count int) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for i := 0; i < count; i++ {
		name := filepath.Join(dir, fmt.Sprintf("clip_%04d.wav", i))
		require.NoError(t, os.WriteFile(name, []byte("RIFF"), 0o644))
	}
	return dir
}

// testSettings returns a valid Settings struct rooted in a fresh temp tree
// with all augmentation toggles off. Tests opt in to augmentation pools.
func testSettings(t *testing.T) *conf.Settings {
	t.Helper()
	base := t.TempDir()

	s := &conf.Settings{}
	s.Dirs = conf.DirsConfig{
		SourceRoot: filepath.Join(base, "source"),
		MixRoot:    filepath.Join(base, "mix"),
		BgRoot:     filepath.Join(base, "bg"),
		IrRoot:     filepath.Join(base, "ir"),
		SpeechRoot: filepath.Join(base, "speech"),
	}
	s.DataSel = conf.DataSelConfig{
		Train:       SelTrain10kICASSP,
		TestDummyDB: SelDummyDB10kFull,
		TestQueryDB: SelQueryDBICASSP,
	}
	s.Batch.Train = conf.BatchPair{BatchSize: 8, NAnchor: 4}
	s.Batch.Val = conf.BatchPair{BatchSize: 8, NAnchor: 4}
	s.Batch.Test.BatchSize = 5
	s.Model = conf.ModelConfig{Duration: 1.0, Hop: 0.5, SampleRate: 8000}
	s.TDAug.Train.SNR = conf.SNRRange{Min: 0, Max: 10}
	s.TDAug.Test.SNR = conf.SNRRange{Min: 0, Max: 10}
	s.TDAug.Val.SNR = conf.SNRRange{Min: 0, Max: 10}

	// Primary pools most tests need
	makePool(t, s.Dirs.SourceRoot, 10)
	makePool(t, s.Dirs.MixRoot, 10)

	return s
}

func newSelector(t *testing.T, s *conf.Settings) *Selector {
	t.Helper()
	sel, err := New(s)
	require.NoError(t, err)
	return sel
}

func TestTrainPolicyShape(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	sel := newSelector(t, s)

	policy, err := sel.Train(0)
	require.NoError(t, err)

	assert.Len(t, policy.Files, 10)
	assert.Len(t, policy.MixFiles, 10)
	assert.True(t, policy.Shuffle)
	assert.True(t, policy.RandomOffsetAnchor)
	assert.True(t, policy.DropLastPartialBatch)
	assert.LessOrEqual(t, policy.NAnchor, policy.BatchSize)
	assert.True(t, sort.StringsAreSorted(policy.Files))

	// Augmentation toggles are off: type-level absence, not empty-active.
	assert.Nil(t, policy.Background)
	assert.Nil(t, policy.ImpulseResponse)
	assert.Nil(t, policy.Speech)
}

func TestTrainReflectsReduceFractionAcrossCalls(t *testing.T) {
	t.Parallel()

	sel := newSelector(t, testSettings(t))

	first, err := sel.Train(0)
	require.NoError(t, err)
	assert.Zero(t, first.ReduceItemsP)

	second, err := sel.Train(0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, second.ReduceItemsP, 1e-9)

	// Policies are derived fresh, earlier ones are not mutated.
	assert.Zero(t, first.ReduceItemsP)
}

func TestTrainRejectsBadReduceFraction(t *testing.T) {
	t.Parallel()

	sel := newSelector(t, testSettings(t))

	for _, bad := range []float64{-0.1, 1.0, 1.5} {
		_, err := sel.Train(bad)
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
	}
}

func TestTrainUnsupportedSelectionTag(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	s.DataSel.Train = "mystery_set"
	sel := newSelector(t, s)

	_, err := sel.Train(0)
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedSelection(err))
}

func TestValidationCapsToPool(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	makePool(t, filepath.Join(s.Dirs.SourceRoot, valQueryDBDir), 12)
	sel := newSelector(t, s)

	capped, err := sel.Validation(7)
	require.NoError(t, err)
	assert.Len(t, capped.Files, 7)
	assert.True(t, sort.StringsAreSorted(capped.Files))

	// A cap above the pool size returns the whole pool, never pads.
	all, err := sel.Validation(10_000)
	require.NoError(t, err)
	assert.Len(t, all.Files, 12)

	// Truncation preserves sort order from the front.
	assert.Equal(t, all.Files[:7], capped.Files)

	assert.False(t, capped.Shuffle)
	assert.False(t, capped.RandomOffsetAnchor)
}

func TestValidationAugmentationFallsBackToTrainPool(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	s.TDAug.Val.Background = true
	s.TDAug.Val.ImpulseResponse = true
	makePool(t, filepath.Join(s.Dirs.SourceRoot, valQueryDBDir), 4)
	makePool(t, filepath.Join(s.Dirs.BgRoot, bgTrainDir), 3)
	makePool(t, filepath.Join(s.Dirs.IrRoot, irTrainDir), 3)
	sel := newSelector(t, s)

	policy, err := sel.Validation(4)
	require.NoError(t, err)

	require.NotNil(t, policy.Background)
	assert.True(t, policy.Background.FallbackFromTrain)
	assert.Len(t, policy.Background.Files, 3)

	require.NotNil(t, policy.ImpulseResponse)
	assert.True(t, policy.ImpulseResponse.FallbackFromTrain)
}

func TestTestDummyDBSelectionTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		tag       string
		poolSize  int
		wantFiles int
		wantErr   bool
	}{
		{name: "small tag keeps pool under truncation count", tag: SelDummyDB10kFull, poolSize: 25, wantFiles: 25},
		{name: "small 30s tag", tag: SelDummyDB10k30s, poolSize: 25, wantFiles: 25},
		{name: "full tag keeps everything", tag: SelDummyDB100kFull, poolSize: 25, wantFiles: 25},
		{name: "numeric tag truncates", tag: "7", poolSize: 25, wantFiles: 7},
		{name: "numeric tag above pool keeps all", tag: "500", poolSize: 25, wantFiles: 25},
		{name: "unknown tag", tag: "everything", poolSize: 25, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := testSettings(t)
			s.DataSel.TestDummyDB = tt.tag
			makePool(t, filepath.Join(s.Dirs.SourceRoot, testDummyDBDir), tt.poolSize)
			sel := newSelector(t, s)

			policy, err := sel.TestDummyDB()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsUnsupportedSelection(err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, policy.Files, tt.wantFiles)
			assert.True(t, sort.StringsAreSorted(policy.Files))

			// Pass-through shape: every item is its own anchor, nothing
			// augmented, nothing dropped.
			assert.Equal(t, policy.BatchSize, policy.NAnchor)
			assert.False(t, policy.Augmented())
			assert.False(t, policy.DropLastPartialBatch)
		})
	}
}

func TestTestDummyDBBadTagResolvesNothing(t *testing.T) {
	t.Parallel()

	// No dummy-db pool on disk: the tag check must come first, so the
	// failure is about the tag and no scan happens or gets memoized.
	s := testSettings(t)
	s.DataSel.TestDummyDB = "bogus_tag"
	sel := newSelector(t, s)

	_, err := sel.TestDummyDB()
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedSelection(err))
	assert.False(t, errors.IsSourceNotFound(err))
	assert.Zero(t, sel.scans.ItemCount())
}

func TestTestDummyDBSmallTagTruncates(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	s.DataSel.TestDummyDB = SelDummyDB10kFull
	pool := makePool(t, filepath.Join(s.Dirs.SourceRoot, testDummyDBDir), dummyDBSmallCount+50)
	sel := newSelector(t, s)

	policy, err := sel.TestDummyDB()
	require.NoError(t, err)
	require.Len(t, policy.Files, dummyDBSmallCount)

	// Exactly the first entries of the sorted scan survive.
	all, err := ScanWavFiles(pool)
	require.NoError(t, err)
	assert.Equal(t, all[:dummyDBSmallCount], policy.Files)
}

func TestTestQueryDBPrePairedProtocol(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	makePool(t, filepath.Join(s.Dirs.SourceRoot, testQueryDBDir, "query"), 6)
	makePool(t, filepath.Join(s.Dirs.SourceRoot, testQueryDBDir, "db"), 9)
	sel := newSelector(t, s)

	query, db, err := sel.TestQueryDB()
	require.NoError(t, err)

	assert.Len(t, query.Files, 6)
	assert.Len(t, db.Files, 9)
	assert.NotEqual(t, query.Files, db.Files)

	for _, p := range []*Policy{query, db} {
		assert.Equal(t, p.BatchSize, p.NAnchor)
		assert.False(t, p.Augmented())
		assert.False(t, p.DropLastPartialBatch)
	}
}

func TestTestQueryDBSynthesizedProtocol(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	s.DataSel.TestQueryDB = SelQueryDBSyn
	s.TDAug.Test.Background = true
	s.TDAug.Test.ImpulseResponse = true
	makePool(t, filepath.Join(s.Dirs.SourceRoot, valQueryDBDir, "db"), 10)
	makePool(t, filepath.Join(s.Dirs.BgRoot, bgTestDir), 3)
	makePool(t, filepath.Join(s.Dirs.IrRoot, irTestDir), 3)
	sel := newSelector(t, s)

	query, db, err := sel.TestQueryDB()
	require.NoError(t, err)

	// One pool stands in for both sides.
	assert.Equal(t, query.Files, db.Files)

	// Query batches are double the database batches, anchor counts equal.
	assert.Equal(t, db.BatchSize*2, query.BatchSize)
	assert.Equal(t, db.NAnchor, query.NAnchor)

	assert.True(t, query.ReduceBatchFirstHalf)
	assert.False(t, db.ReduceBatchFirstHalf)

	// Augmentation applies to the synthesized queries only; speech stays off.
	require.NotNil(t, query.Background)
	require.NotNil(t, query.ImpulseResponse)
	assert.Nil(t, query.Speech)
	assert.False(t, db.Augmented())

	assert.False(t, query.DropLastPartialBatch)
	assert.False(t, db.DropLastPartialBatch)
}

func TestTestQueryDBUnsupportedTag(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	s.DataSel.TestQueryDB = "unseen_other"
	sel := newSelector(t, s)

	_, _, err := sel.TestQueryDB()
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedSelection(err))
}

func TestCustomDirectory(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	sel := newSelector(t, s)

	dir := makePool(t, filepath.Join(t.TempDir(), "pool"), 5)

	policy, err := sel.Custom(dir, true)
	require.NoError(t, err)
	assert.Len(t, policy.Files, 5)
	assert.True(t, sort.StringsAreSorted(policy.Files))
	assert.Equal(t, policy.BatchSize, policy.NAnchor)
	assert.False(t, policy.DropLastPartialBatch)
}

func TestCustomEmptyDirectoryIsSourceNotFound(t *testing.T) {
	t.Parallel()

	sel := newSelector(t, testSettings(t))

	_, err := sel.Custom(t.TempDir(), true)
	require.Error(t, err)
	assert.True(t, errors.IsSourceNotFound(err))
}

func TestCustomMissingDirectoryIsSourceNotFound(t *testing.T) {
	t.Parallel()

	sel := newSelector(t, testSettings(t))

	_, err := sel.Custom(filepath.Join(t.TempDir(), "absent"), true)
	require.Error(t, err)
	assert.True(t, errors.IsSourceNotFound(err))
}

func TestCustomManifest(t *testing.T) {
	t.Parallel()

	sel := newSelector(t, testSettings(t))

	manifest := filepath.Join(t.TempDir(), "files.lst")
	content := "/pool/b.wav\n/pool/a.wav\n/pool/c.wav\n"
	require.NoError(t, os.WriteFile(manifest, []byte(content), 0o644))

	policy, err := sel.Custom(manifest, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"/pool/a.wav", "/pool/b.wav", "/pool/c.wav"}, policy.Files)
}

func TestScanDeterminism(t *testing.T) {
	t.Parallel()

	dir := makePool(t, filepath.Join(t.TempDir(), "pool"), 8)

	first, err := ScanWavFiles(dir)
	require.NoError(t, err)
	second, err := ScanWavFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, sort.StringsAreSorted(first))
}

func TestScanIgnoresOtherExtensions(t *testing.T) {
	t.Parallel()

	dir := makePool(t, filepath.Join(t.TempDir(), "pool"), 3)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.flac"), []byte("x"), 0o644))

	files, err := ScanWavFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestScanRecursesSubdirectories(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	makePool(t, filepath.Join(base, "a"), 2)
	makePool(t, filepath.Join(base, "a", "deep"), 2)
	makePool(t, filepath.Join(base, "b"), 1)

	files, err := ScanWavFiles(base)
	require.NoError(t, err)
	assert.Len(t, files, 5)
}

func TestSelectorScanIsMemoized(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	sel := newSelector(t, s)

	first, err := sel.Train(0)
	require.NoError(t, err)

	// Add a file after the first resolution; the memoized list must win.
	require.NoError(t, os.WriteFile(filepath.Join(s.Dirs.SourceRoot, "zzz_late.wav"), []byte("RIFF"), 0o644))

	second, err := sel.Train(0)
	require.NoError(t, err)
	assert.Equal(t, first.Files, second.Files)
}

func TestNewFailsOnEmptyEnabledAugmentationPool(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	s.TDAug.Train.Background = true
	// bg root exists but holds no tr/ pool

	_, err := New(s)
	require.Error(t, err)
	assert.True(t, errors.IsSourceNotFound(err))
}

func TestNewFailsOnInvalidSettings(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	s.Batch.Train.NAnchor = s.Batch.Train.BatchSize + 1

	_, err := New(s)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestAnchorNeverExceedsBatchSizeAcrossPartitions(t *testing.T) {
	t.Parallel()

	s := testSettings(t)
	makePool(t, filepath.Join(s.Dirs.SourceRoot, valQueryDBDir), 4)
	makePool(t, filepath.Join(s.Dirs.SourceRoot, testDummyDBDir), 4)
	makePool(t, filepath.Join(s.Dirs.SourceRoot, testQueryDBDir, "query"), 4)
	makePool(t, filepath.Join(s.Dirs.SourceRoot, testQueryDBDir, "db"), 4)
	sel := newSelector(t, s)

	var policies []*Policy

	train, err := sel.Train(0)
	require.NoError(t, err)
	policies = append(policies, train)

	val, err := sel.Validation(4)
	require.NoError(t, err)
	policies = append(policies, val)

	dummy, err := sel.TestDummyDB()
	require.NoError(t, err)
	policies = append(policies, dummy)

	query, db, err := sel.TestQueryDB()
	require.NoError(t, err)
	policies = append(policies, query, db)

	for _, p := range policies {
		assert.LessOrEqual(t, p.NAnchor, p.BatchSize)
	}
}
