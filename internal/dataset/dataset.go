// Package dataset selects, partitions and batches wav collections for
// training and evaluating the fingerprinting model. It decides which files
// go into which batch role and with what augmentation policy; segment
// slicing and mixing are the sequence generator's job.
package dataset

import (
	"log/slog"

	"github.com/patrickmn/go-cache"
	"github.com/tphakala/audiofp-go/internal/conf"
	"github.com/tphakala/audiofp-go/internal/errors"
	"github.com/tphakala/audiofp-go/internal/logging"
	"github.com/tphakala/audiofp-go/internal/observability/metrics"
)

// Supported data selection tags.
const (
	SelTrain10kICASSP = "10k_icassp"
	SelTrainAudible   = "audible"

	SelDummyDB10kFull  = "10k_full"
	SelDummyDB10k30s   = "10k_30s"
	SelDummyDB100kFull = "100k_full_icassp"

	SelQueryDBICASSP = "unseen_icassp"
	SelQueryDBSyn    = "unseen_syn"
)

// Fixed subfolder conventions of the corpus layout.
const (
	valQueryDBDir  = "val-query-db-500-30s"
	testDummyDBDir = "test-dummy-db-100k-full"
	testQueryDBDir = "test-query-db-500-30s"

	bgTrainDir = "tr"
	bgTestDir  = "ts"
	irTrainDir = "tr"
	irTestDir  = "ts"

	speechTrainDir = "train"
	speechTestDir  = "test"
	speechValDir   = "dev"
)

// dummyDBSmallCount is the truncation applied by the small dummy database
// selection tags.
const dummyDBSmallCount = 10000

// split identifies one side of the augmentation policy.
type split string

const (
	splitTrain split = "train"
	splitTest  split = "test"
	splitVal   split = "val"
)

// augLists holds the resolved augmentation pools of one split. A nil entry
// means the corresponding toggle is off.
type augLists struct {
	bg     *BgMix
	ir     *IRMix
	speech *SpeechMix
}

// Selector resolves concrete file path lists per split and derives the batch
// policy for each requested partition. It is a pure function of its settings
// and request parameters aside from the one-time memoization of directory
// scans, so concurrent read access is safe once constructed.
type Selector struct {
	settings *conf.Settings
	logger   *slog.Logger
	metrics  *metrics.DatasetMetrics

	// scans memoizes sorted directory scans keyed by joined path. Entries
	// never expire, a pool's contents are assumed stable for the process
	// lifetime.
	scans *cache.Cache

	aug map[split]*augLists
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger used for resolution events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics attaches dataset metrics to the selector.
func WithMetrics(m *metrics.DatasetMetrics) Option {
	return func(s *Selector) {
		s.metrics = m
	}
}

// New constructs a Selector and eagerly resolves the augmentation file lists
// of every enabled (split, kind) toggle. Primary split pools resolve lazily
// on first request of their partition.
func New(settings *conf.Settings, opts ...Option) (*Selector, error) {
	if settings == nil {
		return nil, errors.Newf("dataset: settings are required").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err := conf.ValidateSettings(settings); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Build()
	}

	s := &Selector{
		settings: settings,
		logger:   logging.ForService("dataset"),
		scans:    cache.New(cache.NoExpiration, cache.NoExpiration),
		aug:      make(map[split]*augLists),
	}
	if s.logger == nil {
		s.logger = slog.Default().With("service", "dataset")
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.resolveAugmentation(); err != nil {
		return nil, err
	}

	return s, nil
}

// resolveAugmentation scans the pools of every enabled augmentation toggle.
// The validation split has no dedicated bg/ir subtree in the corpus layout;
// its pools are drawn from the train subtree and flagged as such.
func (s *Selector) resolveAugmentation() error {
	dirs := &s.settings.Dirs
	aug := &s.settings.TDAug

	for _, entry := range []struct {
		split split
		cfg   *conf.SplitAug
	}{
		{splitTrain, &aug.Train},
		{splitTest, &aug.Test},
		{splitVal, &aug.Val},
	} {
		lists := &augLists{}

		if entry.cfg.Background {
			subdir := bgTrainDir
			fallback := false
			switch entry.split {
			case splitTest:
				subdir = bgTestDir
			case splitVal:
				// No dedicated validation noise pool, reuse the train subtree.
				fallback = true
			}
			files, err := s.scanRequired("bg", dirs.BgRoot, subdir)
			if err != nil {
				return err
			}
			if fallback {
				s.logger.Warn("validation background pool falls back to train subtree",
					"root", dirs.BgRoot, "subdir", subdir)
			}
			lists.bg = &BgMix{Files: files, SNR: entry.cfg.SNR, FallbackFromTrain: fallback}
		}

		if entry.cfg.ImpulseResponse {
			subdir := irTrainDir
			fallback := false
			switch entry.split {
			case splitTest:
				subdir = irTestDir
			case splitVal:
				fallback = true
			}
			files, err := s.scanRequired("ir", dirs.IrRoot, subdir)
			if err != nil {
				return err
			}
			if fallback {
				s.logger.Warn("validation impulse response pool falls back to train subtree",
					"root", dirs.IrRoot, "subdir", subdir)
			}
			lists.ir = &IRMix{Files: files, FallbackFromTrain: fallback}
		}

		if entry.cfg.Speech {
			var subdir string
			switch entry.split {
			case splitTrain:
				subdir = speechTrainDir
			case splitTest:
				subdir = speechTestDir
			case splitVal:
				subdir = speechValDir
			}
			files, err := s.scanRequired("speech", dirs.SpeechRoot, subdir)
			if err != nil {
				return err
			}
			lists.speech = &SpeechMix{Files: files, SNR: entry.cfg.SNR}
		}

		s.aug[entry.split] = lists
	}

	return nil
}

// background returns a copy of the split's background augmentation, or nil
// when the toggle is off. Copies keep the memoized lists immutable to policy
// holders.
func (s *Selector) background(sp split) *BgMix {
	lists := s.aug[sp]
	if lists == nil || lists.bg == nil {
		return nil
	}
	bg := *lists.bg
	return &bg
}

func (s *Selector) impulseResponse(sp split) *IRMix {
	lists := s.aug[sp]
	if lists == nil || lists.ir == nil {
		return nil
	}
	ir := *lists.ir
	return &ir
}

func (s *Selector) speech(sp split) *SpeechMix {
	lists := s.aug[sp]
	if lists == nil || lists.speech == nil {
		return nil
	}
	sm := *lists.speech
	return &sm
}

// unsupportedSelection builds the fatal error for an unrecognized data
// selection tag. No fallback, nothing is resolved.
func unsupportedSelection(field, tag string) error {
	return errors.Newf("unsupported %s selection tag: %q", field, tag).
		Category(errors.CategoryDatasetSelection).
		Context("field", field).
		Context("tag", tag).
		Build()
}

func (s *Selector) recordPolicy(partition string) {
	if s.metrics != nil {
		s.metrics.RecordPolicyBuilt(partition)
	}
}

func (s *Selector) recordError(partition string, err error) {
	if s.metrics == nil {
		return
	}
	category := string(errors.CategoryGeneric)
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		category = ee.GetCategory()
	}
	s.metrics.RecordResolutionError(partition, category)
}
