package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// validSettings returns a Settings struct that passes validation, used as the
// base for mutation in table tests.
func validSettings() *Settings {
	s := &Settings{}
	s.Dirs = DirsConfig{
		SourceRoot: "/data/music/",
		MixRoot:    "/data/mix/",
		BgRoot:     "/data/bg/",
		IrRoot:     "/data/ir/",
		SpeechRoot: "/data/speech/",
	}
	s.DataSel = DataSelConfig{
		Train:       "10k_icassp",
		TestDummyDB: "10k_full",
		TestQueryDB: "unseen_icassp",
	}
	s.Batch.Train = BatchPair{BatchSize: 120, NAnchor: 60}
	s.Batch.Val = BatchPair{BatchSize: 120, NAnchor: 60}
	s.Batch.Test.BatchSize = 125
	s.Model = ModelConfig{Duration: 1.0, Hop: 0.5, SampleRate: 8000}
	s.TDAug.Train = SplitAug{Background: true, ImpulseResponse: true, SNR: SNRRange{Min: 0, Max: 10}}
	s.TDAug.Test = SplitAug{Background: true, ImpulseResponse: true, SNR: SNRRange{Min: 0, Max: 10}}
	s.TDAug.Val = SplitAug{Background: true, ImpulseResponse: true, SNR: SNRRange{Min: 0, Max: 10}}
	return s
}

func TestValidateSettingsValid(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettingsCollectsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantMsg string
	}{
		{
			name:    "missing source root",
			mutate:  func(s *Settings) { s.Dirs.SourceRoot = "" },
			wantMsg: "dirs.sourceroot",
		},
		{
			name:    "missing mix root",
			mutate:  func(s *Settings) { s.Dirs.MixRoot = "" },
			wantMsg: "dirs.mixroot",
		},
		{
			name:    "bg root required when toggle enabled",
			mutate:  func(s *Settings) { s.Dirs.BgRoot = "" },
			wantMsg: "dirs.bgroot",
		},
		{
			name:    "ir root required when toggle enabled",
			mutate:  func(s *Settings) { s.Dirs.IrRoot = "" },
			wantMsg: "dirs.irroot",
		},
		{
			name: "speech root required when any speech toggle enabled",
			mutate: func(s *Settings) {
				s.TDAug.Val.Speech = true
				s.Dirs.SpeechRoot = ""
			},
			wantMsg: "dirs.speechroot",
		},
		{
			name:    "empty train selection tag",
			mutate:  func(s *Settings) { s.DataSel.Train = "" },
			wantMsg: "datasel.train",
		},
		{
			name:    "train anchor exceeds batch",
			mutate:  func(s *Settings) { s.Batch.Train.NAnchor = 200 },
			wantMsg: "batch.train.nanchor",
		},
		{
			name:    "val anchor exceeds batch",
			mutate:  func(s *Settings) { s.Batch.Val.NAnchor = 200 },
			wantMsg: "batch.val.nanchor",
		},
		{
			name:    "train positives do not divide evenly",
			mutate:  func(s *Settings) { s.Batch.Train = BatchPair{BatchSize: 10, NAnchor: 4} },
			wantMsg: "multiple of batch.train.nanchor",
		},
		{
			name:    "val positives do not divide evenly",
			mutate:  func(s *Settings) { s.Batch.Val = BatchPair{BatchSize: 9, NAnchor: 6} },
			wantMsg: "multiple of batch.val.nanchor",
		},
		{
			name:    "zero test batch size",
			mutate:  func(s *Settings) { s.Batch.Test.BatchSize = 0 },
			wantMsg: "batch.test.batchsize",
		},
		{
			name:    "non-positive duration",
			mutate:  func(s *Settings) { s.Model.Duration = 0 },
			wantMsg: "model.duration",
		},
		{
			name:    "inverted snr range",
			mutate:  func(s *Settings) { s.TDAug.Test.SNR = SNRRange{Min: 10, Max: 0} },
			wantMsg: "tdaug.test.snr.min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := validSettings()
			tt.mutate(s)

			err := ValidateSettings(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSaveYAMLConfigRoundTrip(t *testing.T) {
	t.Parallel()

	s := validSettings()
	s.Main.Name = "roundtrip"
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveYAMLConfig(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Settings
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "roundtrip", got.Main.Name)
	assert.Equal(t, s.Dirs, got.Dirs)
	assert.Equal(t, s.Batch, got.Batch)
	assert.Equal(t, s.TDAug, got.TDAug)
}

func TestDisabledAugmentationDoesNotRequireRoot(t *testing.T) {
	t.Parallel()

	s := validSettings()
	s.TDAug.Train = SplitAug{SNR: SNRRange{Min: 0, Max: 10}}
	s.TDAug.Test = SplitAug{SNR: SNRRange{Min: 0, Max: 10}}
	s.TDAug.Val = SplitAug{SNR: SNRRange{Min: 0, Max: 10}}
	s.Dirs.BgRoot = ""
	s.Dirs.IrRoot = ""
	s.Dirs.SpeechRoot = ""

	require.NoError(t, ValidateSettings(s))
}
