// conf/validate.go

package conf

import (
	"fmt"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateDirsSettings(settings); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateDataSelSettings(&settings.DataSel); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateBatchSettings(&settings.Batch); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateModelSettings(&settings.Model); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateTDAugSettings(&settings.TDAug); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateDirsSettings validates the pool root directories. Roots for
// augmentation pools are only required when a toggle actually uses them, a
// disabled kind must never force its root to exist.
func validateDirsSettings(settings *Settings) error {
	var errs []string

	if settings.Dirs.SourceRoot == "" {
		errs = append(errs, "dirs.sourceroot must not be empty")
	}
	if settings.Dirs.MixRoot == "" {
		errs = append(errs, "dirs.mixroot must not be empty")
	}

	aug := &settings.TDAug
	if (aug.Train.Background || aug.Test.Background || aug.Val.Background) && settings.Dirs.BgRoot == "" {
		errs = append(errs, "dirs.bgroot must be set when a background augmentation toggle is enabled")
	}
	if (aug.Train.ImpulseResponse || aug.Test.ImpulseResponse || aug.Val.ImpulseResponse) && settings.Dirs.IrRoot == "" {
		errs = append(errs, "dirs.irroot must be set when an impulse response augmentation toggle is enabled")
	}
	if (aug.Train.Speech || aug.Test.Speech || aug.Val.Speech) && settings.Dirs.SpeechRoot == "" {
		errs = append(errs, "dirs.speechroot must be set when a speech augmentation toggle is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateDataSelSettings checks the selection tags are present. Whether a
// tag is in the supported vocabulary is decided at resolution time, where an
// unsupported tag is a fatal UnsupportedSelection error.
func validateDataSelSettings(settings *DataSelConfig) error {
	var errs []string

	if settings.Train == "" {
		errs = append(errs, "datasel.train must not be empty")
	}
	if settings.TestDummyDB == "" {
		errs = append(errs, "datasel.testdummydb must not be empty")
	}
	if settings.TestQueryDB == "" {
		errs = append(errs, "datasel.testquerydb must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateBatchSettings validates the per-split batch sizing
func validateBatchSettings(settings *BatchConfig) error {
	var errs []string

	if settings.Train.BatchSize < 1 {
		errs = append(errs, "batch.train.batchsize must be at least 1")
	}
	if settings.Train.NAnchor < 1 {
		errs = append(errs, "batch.train.nanchor must be at least 1")
	}
	if settings.Train.NAnchor > settings.Train.BatchSize {
		errs = append(errs, "batch.train.nanchor must not exceed batch.train.batchsize")
	}
	if settings.Train.NAnchor >= 1 && (settings.Train.BatchSize-settings.Train.NAnchor)%settings.Train.NAnchor != 0 {
		errs = append(errs, "batch.train.batchsize minus batch.train.nanchor must be a multiple of batch.train.nanchor")
	}

	if settings.Val.BatchSize < 1 {
		errs = append(errs, "batch.val.batchsize must be at least 1")
	}
	if settings.Val.NAnchor < 1 {
		errs = append(errs, "batch.val.nanchor must be at least 1")
	}
	if settings.Val.NAnchor > settings.Val.BatchSize {
		errs = append(errs, "batch.val.nanchor must not exceed batch.val.batchsize")
	}
	if settings.Val.NAnchor >= 1 && (settings.Val.BatchSize-settings.Val.NAnchor)%settings.Val.NAnchor != 0 {
		errs = append(errs, "batch.val.batchsize minus batch.val.nanchor must be a multiple of batch.val.nanchor")
	}

	if settings.Test.BatchSize < 1 {
		errs = append(errs, "batch.test.batchsize must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateModelSettings validates the segmenting parameters
func validateModelSettings(settings *ModelConfig) error {
	var errs []string

	if settings.Duration <= 0 {
		errs = append(errs, "model.duration must be positive")
	}
	if settings.Hop <= 0 {
		errs = append(errs, "model.hop must be positive")
	}
	if settings.SampleRate < 1 {
		errs = append(errs, "model.samplerate must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateTDAugSettings validates the augmentation policy of every split
func validateTDAugSettings(settings *TDAugConfig) error {
	var errs []string

	for _, split := range []struct {
		name string
		aug  *SplitAug
	}{
		{"train", &settings.Train},
		{"test", &settings.Test},
		{"val", &settings.Val},
	} {
		if split.aug.SNR.Min > split.aug.SNR.Max {
			errs = append(errs, fmt.Sprintf("tdaug.%s.snr.min must not exceed tdaug.%s.snr.max", split.name, split.name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
