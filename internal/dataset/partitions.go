// partitions.go: per-partition policy derivation, the evaluation protocol
// decisions live here.
package dataset

import (
	"strconv"

	"github.com/tphakala/audiofp-go/internal/errors"
)

// Train resolves the training partition. reduceFraction in [0,1) is the
// fraction of anchors to drop per batch, a load-shedding knob rather than an
// augmentation; the returned policy reflects the current value on every
// call.
func (s *Selector) Train(reduceFraction float64) (*Policy, error) {
	policy, err := s.train(reduceFraction)
	if err != nil {
		s.recordError("train", err)
		return nil, err
	}
	s.recordPolicy("train")
	return policy, nil
}

func (s *Selector) train(reduceFraction float64) (*Policy, error) {
	switch s.settings.DataSel.Train {
	case SelTrain10kICASSP, SelTrainAudible:
	default:
		return nil, unsupportedSelection("train", s.settings.DataSel.Train)
	}

	if reduceFraction < 0 || reduceFraction >= 1 {
		return nil, errors.Newf("reduce fraction %v outside [0,1)", reduceFraction).
			Category(errors.CategoryValidation).
			Build()
	}

	sourceFiles, err := s.scanRequired("source", s.settings.Dirs.SourceRoot, "")
	if err != nil {
		return nil, err
	}
	mixFiles, err := s.scanRequired("mix", s.settings.Dirs.MixRoot, "")
	if err != nil {
		return nil, err
	}

	return &Policy{
		Files:                sourceFiles,
		MixFiles:             mixFiles,
		BatchSize:            s.settings.Batch.Train.BatchSize,
		NAnchor:              s.settings.Batch.Train.NAnchor,
		Duration:             s.settings.Model.Duration,
		Hop:                  s.settings.Model.Hop,
		SampleRate:           s.settings.Model.SampleRate,
		Shuffle:              true,
		RandomOffsetAnchor:   true,
		Background:           s.background(splitTrain),
		ImpulseResponse:      s.impulseResponse(splitTrain),
		Speech:               s.speech(splitTrain),
		ReduceItemsP:         reduceFraction,
		DropLastPartialBatch: true,
	}, nil
}

// Validation resolves the validation partition, truncating the sorted pool
// to maxItems. Values above the pool size are not an error, the result is
// simply capped to what is available. Shuffling and offset randomization are
// disabled for evaluation determinism.
func (s *Selector) Validation(maxItems int) (*Policy, error) {
	policy, err := s.validation(maxItems)
	if err != nil {
		s.recordError("val", err)
		return nil, err
	}
	s.recordPolicy("val")
	return policy, nil
}

func (s *Selector) validation(maxItems int) (*Policy, error) {
	if maxItems < 1 {
		return nil, errors.Newf("max items must be at least 1, got %d", maxItems).
			Category(errors.CategoryValidation).
			Build()
	}

	files, err := s.scanRequired("source", s.settings.Dirs.SourceRoot, valQueryDBDir)
	if err != nil {
		return nil, err
	}
	if maxItems < len(files) {
		files = files[:maxItems]
	}

	return &Policy{
		Files:                files,
		BatchSize:            s.settings.Batch.Val.BatchSize,
		NAnchor:              s.settings.Batch.Val.NAnchor,
		Duration:             s.settings.Model.Duration,
		Hop:                  s.settings.Model.Hop,
		SampleRate:           s.settings.Model.SampleRate,
		Shuffle:              false,
		RandomOffsetAnchor:   false,
		Background:           s.background(splitVal),
		ImpulseResponse:      s.impulseResponse(splitVal),
		Speech:               s.speech(splitVal),
		DropLastPartialBatch: true,
	}, nil
}

// TestDummyDB resolves the large distractor database partition. Every item
// is its own anchor, no augmentation is applied, and the last partial batch
// is retained so the database is inspectable in full.
func (s *Selector) TestDummyDB() (*Policy, error) {
	policy, err := s.testDummyDB()
	if err != nil {
		s.recordError("dummy_db", err)
		return nil, err
	}
	s.recordPolicy("dummy_db")
	return policy, nil
}

func (s *Selector) testDummyDB() (*Policy, error) {
	// The tag decides the truncation and must be checked before anything is
	// scanned, a bad tag resolves nothing.
	tag := s.settings.DataSel.TestDummyDB
	truncateTo := 0
	switch {
	case tag == SelDummyDB10kFull || tag == SelDummyDB10k30s:
		truncateTo = dummyDBSmallCount
	case tag == SelDummyDB100kFull:
		// keep everything
	case isNumeric(tag):
		n, err := strconv.Atoi(tag)
		if err != nil || n < 1 {
			return nil, unsupportedSelection("test dummy db", tag)
		}
		truncateTo = n
	default:
		return nil, unsupportedSelection("test dummy db", tag)
	}

	files, err := s.scanRequired("source", s.settings.Dirs.SourceRoot, testDummyDBDir)
	if err != nil {
		return nil, err
	}
	if truncateTo > 0 && truncateTo < len(files) {
		files = files[:truncateTo]
	}

	return s.passThrough(files), nil
}

// TestQueryDB resolves the query and database partitions of the test
// protocol selected by the query-db tag. Under the pre-paired protocol both
// policies are pass-through over disjoint directories. Under the synthesized
// protocol a single pool stands in for both: the query policy doubles the
// test batch size while keeping the test anchor count, and flags the
// generator to treat the first half of each batch as clean database copies.
func (s *Selector) TestQueryDB() (query, db *Policy, err error) {
	query, db, err = s.testQueryDB()
	if err != nil {
		s.recordError("query_db", err)
		return nil, nil, err
	}
	s.recordPolicy("query")
	s.recordPolicy("db")
	return query, db, nil
}

func (s *Selector) testQueryDB() (query, db *Policy, err error) {
	switch s.settings.DataSel.TestQueryDB {
	case SelQueryDBICASSP:
		queryFiles, err := s.scanRequired("source", s.settings.Dirs.SourceRoot, testQueryDBDir+"/query")
		if err != nil {
			return nil, nil, err
		}
		dbFiles, err := s.scanRequired("source", s.settings.Dirs.SourceRoot, testQueryDBDir+"/db")
		if err != nil {
			return nil, nil, err
		}
		return s.passThrough(queryFiles), s.passThrough(dbFiles), nil

	case SelQueryDBSyn:
		files, err := s.scanRequired("source", s.settings.Dirs.SourceRoot, valQueryDBDir+"/db")
		if err != nil {
			return nil, nil, err
		}

		bsz := s.settings.Batch.Test.BatchSize
		query := &Policy{
			Files:                files,
			BatchSize:            bsz * 2,
			NAnchor:              bsz,
			Duration:             s.settings.Model.Duration,
			Hop:                  s.settings.Model.Hop,
			SampleRate:           s.settings.Model.SampleRate,
			Shuffle:              false,
			RandomOffsetAnchor:   false,
			Background:           s.background(splitTest),
			ImpulseResponse:      s.impulseResponse(splitTest),
			ReduceBatchFirstHalf: true,
			DropLastPartialBatch: false,
		}
		return query, s.passThrough(files), nil

	default:
		return nil, nil, unsupportedSelection("test query db", s.settings.DataSel.TestQueryDB)
	}
}

// Custom resolves a partition from a caller supplied source: a directory
// scanned recursively for wav files, or a manifest file with one path per
// line. The policy shape matches the dummy database pass-through.
func (s *Selector) Custom(source string, isDir bool) (*Policy, error) {
	policy, err := s.custom(source, isDir)
	if err != nil {
		s.recordError("custom", err)
		return nil, err
	}
	s.recordPolicy("custom")
	return policy, nil
}

func (s *Selector) custom(source string, isDir bool) (*Policy, error) {
	var files []string
	var err error

	if isDir {
		files, err = s.scan("custom", source, "")
		if err != nil {
			return nil, sourceNotFound(err, source)
		}
	} else {
		files, err = ReadManifest(source)
		if err != nil {
			return nil, sourceNotFound(err, source)
		}
	}
	if len(files) == 0 {
		return nil, sourceNotFound(nil, source)
	}

	return s.passThrough(files), nil
}

// isNumeric reports whether the tag consists only of decimal digits.
func isNumeric(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
