// Package analysis runs partition resolution end to end for the CLI: it
// builds the selector, derives the requested policy, plans the batch
// sequence and renders the result. Commands stay thin wrappers around these
// functions.
package analysis

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tphakala/audiofp-go/internal/conf"
	"github.com/tphakala/audiofp-go/internal/dataset"
	"github.com/tphakala/audiofp-go/internal/errors"
	"github.com/tphakala/audiofp-go/internal/logging"
	"github.com/tphakala/audiofp-go/internal/observability"
	"github.com/tphakala/audiofp-go/internal/sequence"
)

// Options applies to every plan command.
type Options struct {
	// Out, when set, receives the resolved file list, one path per line.
	// The format round-trips through the custom command's manifest reader.
	Out string
}

// PlanSummary is the human facing description of one resolved partition,
// rendered as YAML on stdout.
type PlanSummary struct {
	Partition string `yaml:"partition"`

	Files    int `yaml:"files"`
	MixFiles int `yaml:"mix_files,omitempty"`

	BatchSize int `yaml:"batch_size"`
	NAnchor   int `yaml:"n_anchor"`

	NumBatches         int `yaml:"num_batches"`
	AnchorsPerBatch    int `yaml:"anchors_per_batch"`
	PositivesPerAnchor int `yaml:"positives_per_anchor"`

	Shuffle            bool `yaml:"shuffle"`
	RandomOffsetAnchor bool `yaml:"random_offset_anchor"`

	Augmentation []string `yaml:"augmentation,omitempty"`

	ReduceItemsP         float64 `yaml:"reduce_items_p,omitempty"`
	ReduceBatchFirstHalf bool    `yaml:"reduce_batch_first_half,omitempty"`
	DropLastPartialBatch bool    `yaml:"drop_last_partial_batch"`
}

// newSelector wires logging and metrics into a selector for one command run.
func newSelector(settings *conf.Settings) (*dataset.Selector, error) {
	metrics, err := observability.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return dataset.New(settings,
		dataset.WithLogger(logging.ForService("analysis")),
		dataset.WithMetrics(metrics.Dataset),
	)
}

// summarize folds a policy and its batch plan into a summary.
func summarize(partition string, p *dataset.Policy, seq *sequence.Sequence) PlanSummary {
	s := PlanSummary{
		Partition:            partition,
		Files:                len(p.Files),
		MixFiles:             len(p.MixFiles),
		BatchSize:            p.BatchSize,
		NAnchor:              p.NAnchor,
		NumBatches:           seq.NumBatches(),
		AnchorsPerBatch:      seq.AnchorsPerBatch(),
		PositivesPerAnchor:   seq.PositivesPerAnchor(),
		Shuffle:              p.Shuffle,
		RandomOffsetAnchor:   p.RandomOffsetAnchor,
		ReduceItemsP:         p.ReduceItemsP,
		ReduceBatchFirstHalf: p.ReduceBatchFirstHalf,
		DropLastPartialBatch: p.DropLastPartialBatch,
	}

	if p.Background != nil {
		kind := "background"
		if p.Background.FallbackFromTrain {
			kind = "background (train pool)"
		}
		s.Augmentation = append(s.Augmentation, kind)
	}
	if p.ImpulseResponse != nil {
		kind := "impulse_response"
		if p.ImpulseResponse.FallbackFromTrain {
			kind = "impulse_response (train pool)"
		}
		s.Augmentation = append(s.Augmentation, kind)
	}
	if p.Speech != nil {
		s.Augmentation = append(s.Augmentation, "speech")
	}

	return s
}

// render writes the summary as YAML and, when requested, the file list.
func render(w io.Writer, summary PlanSummary, files []string, opts Options) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to render plan summary: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	if opts.Out == "" {
		return nil
	}
	return writeFileList(opts.Out, files)
}

// writeFileList writes one path per line, the manifest format.
func writeFileList(path string, files []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(err).
				Category(errors.CategoryFileIO).
				Context("out", path).
				Build()
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("out", path).
			Build()
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, fp := range files {
		if _, err := fmt.Fprintln(w, fp); err != nil {
			return errors.New(err).
				Category(errors.CategoryFileIO).
				Context("out", path).
				Build()
		}
	}
	return w.Flush()
}

// plan derives the batch plan common to every partition command.
func plan(partition string, sel *dataset.Selector, p *dataset.Policy, w io.Writer, opts Options) error {
	seq, err := sel.NewSequence(p)
	if err != nil {
		return err
	}
	return render(w, summarize(partition, p, seq), p.Files, opts)
}

// TrainPlan resolves and reports the training partition.
func TrainPlan(settings *conf.Settings, reduceFraction float64, opts Options) error {
	sel, err := newSelector(settings)
	if err != nil {
		return err
	}
	policy, err := sel.Train(reduceFraction)
	if err != nil {
		return err
	}
	return plan("train", sel, policy, os.Stdout, opts)
}

// ValidationPlan resolves and reports the validation partition.
func ValidationPlan(settings *conf.Settings, maxItems int, opts Options) error {
	sel, err := newSelector(settings)
	if err != nil {
		return err
	}
	policy, err := sel.Validation(maxItems)
	if err != nil {
		return err
	}
	return plan("val", sel, policy, os.Stdout, opts)
}

// DummyDBPlan resolves and reports the distractor database partition.
func DummyDBPlan(settings *conf.Settings, opts Options) error {
	sel, err := newSelector(settings)
	if err != nil {
		return err
	}
	policy, err := sel.TestDummyDB()
	if err != nil {
		return err
	}
	return plan("dummy_db", sel, policy, os.Stdout, opts)
}

// QueryDBPlan resolves and reports both sides of the test query protocol.
// The query list lands in outQuery and the database list in outDB when set.
func QueryDBPlan(settings *conf.Settings, outQuery, outDB string) error {
	sel, err := newSelector(settings)
	if err != nil {
		return err
	}
	query, db, err := sel.TestQueryDB()
	if err != nil {
		return err
	}

	if err := plan("query", sel, query, os.Stdout, Options{Out: outQuery}); err != nil {
		return err
	}
	return plan("db", sel, db, os.Stdout, Options{Out: outDB})
}

// CustomPlan resolves a caller supplied source, a directory by default or a
// manifest when fromManifest is set. With verify, every file's wav header is
// probed and a sample rate mismatch fails the run.
func CustomPlan(settings *conf.Settings, source string, fromManifest, verify bool, opts Options) error {
	sel, err := newSelector(settings)
	if err != nil {
		return err
	}
	policy, err := sel.Custom(source, !fromManifest)
	if err != nil {
		return err
	}

	if verify {
		mismatched, err := dataset.VerifyPool(policy.Files, settings.Model.SampleRate)
		if err != nil {
			return err
		}
		if len(mismatched) > 0 {
			return errors.Newf("%d of %d files do not match sample rate %d Hz, first: %s",
				len(mismatched), len(policy.Files), settings.Model.SampleRate, mismatched[0]).
				Category(errors.CategoryValidation).
				Context("mismatched", len(mismatched)).
				Build()
		}
	}

	return plan("custom", sel, policy, os.Stdout, opts)
}
