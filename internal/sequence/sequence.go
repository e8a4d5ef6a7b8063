// Package sequence is the boundary with the batch sequence generator. Params
// mirrors the generator's parameter contract one to one; Sequence performs
// the deterministic batch arithmetic over a resolved file list so callers can
// plan and inspect batches without touching audio. Segment slicing, mixing
// and augmentation happen in the generator itself.
package sequence

import (
	"github.com/tphakala/audiofp-go/internal/conf"
	"github.com/tphakala/audiofp-go/internal/errors"
)

// BgMixParam is the background mixing parameter triple.
type BgMixParam struct {
	Enabled bool
	Files   []string      // nil when disabled
	SNR     conf.SNRRange // meaningful only when enabled
}

// IRMixParam is the impulse response parameter pair. Impulse response
// convolution carries no SNR.
type IRMixParam struct {
	Enabled bool
	Files   []string
}

// SpeechMixParam is the speech mixing parameter triple.
type SpeechMixParam struct {
	Enabled bool
	Files   []string
	SNR     conf.SNRRange
}

// Params is the full parameter set of one generator instance.
type Params struct {
	Files    []string
	MixFiles []string

	BatchSize int
	NAnchor   int

	Duration   float64
	Hop        float64
	SampleRate int

	Shuffle            bool
	RandomOffsetAnchor bool

	BgMix     BgMixParam
	IRMix     IRMixParam
	SpeechMix SpeechMixParam

	ReduceItemsP         float64
	ReduceBatchFirstHalf bool
	DropLastNonFullBatch bool
}

// Role of one item within a batch.
type Role string

const (
	RoleAnchor   Role = "anchor"
	RolePositive Role = "positive"
)

// Item is one planned slot of a batch.
type Item struct {
	FileIndex int    // index into Params.Files
	File      string // file path serving this slot
	Role      Role
	Augmented bool // true when the generator applies augmentation to this slot
}

// Batch is the planned composition of one generator batch.
type Batch struct {
	Index int
	Items []Item
}

// Sequence plans fixed-size batches with anchor/positive structure over a
// resolved file list.
type Sequence struct {
	params Params

	anchorsPerBatch    int // anchors actually placed per batch, after ReduceItemsP
	positivesPerAnchor int
}

// New validates the parameter set and builds a batch plan.
func New(params Params) (*Sequence, error) {
	if len(params.Files) == 0 {
		return nil, errors.Newf("sequence requires a non-empty file list").
			Category(errors.CategoryValidation).
			Build()
	}
	if params.BatchSize < 1 {
		return nil, errors.Newf("batch size must be at least 1, got %d", params.BatchSize).
			Category(errors.CategoryValidation).
			Build()
	}
	if params.NAnchor < 1 || params.NAnchor > params.BatchSize {
		return nil, errors.Newf("anchor count %d outside [1, batch size %d]", params.NAnchor, params.BatchSize).
			Category(errors.CategoryValidation).
			Build()
	}
	if (params.BatchSize-params.NAnchor)%params.NAnchor != 0 {
		return nil, errors.Newf("batch size %d minus anchors %d must be a multiple of the anchor count", params.BatchSize, params.NAnchor).
			Category(errors.CategoryValidation).
			Build()
	}
	if params.ReduceItemsP < 0 || params.ReduceItemsP >= 1 {
		return nil, errors.Newf("reduce fraction %v outside [0,1)", params.ReduceItemsP).
			Category(errors.CategoryValidation).
			Build()
	}

	anchorsPerBatch := params.NAnchor - int(float64(params.NAnchor)*params.ReduceItemsP)
	if anchorsPerBatch < 1 {
		anchorsPerBatch = 1
	}

	return &Sequence{
		params:             params,
		anchorsPerBatch:    anchorsPerBatch,
		positivesPerAnchor: (params.BatchSize - params.NAnchor) / params.NAnchor,
	}, nil
}

// Params returns the parameter set this sequence was built from.
func (s *Sequence) Params() Params {
	return s.params
}

// AnchorsPerBatch returns the number of anchors placed in a full batch,
// after anchor dropping.
func (s *Sequence) AnchorsPerBatch() int {
	return s.anchorsPerBatch
}

// PositivesPerAnchor returns how many augmented positives accompany each
// anchor. Zero for pass-through partitions where anchor count equals batch
// size.
func (s *Sequence) PositivesPerAnchor() int {
	return s.positivesPerAnchor
}

// NumBatches returns how many batches the plan yields over the file list.
func (s *Sequence) NumBatches() int {
	n := len(s.params.Files) / s.anchorsPerBatch
	if !s.params.DropLastNonFullBatch && len(s.params.Files)%s.anchorsPerBatch != 0 {
		n++
	}
	return n
}

// augmented reports whether positive slots receive augmentation.
func (s *Sequence) augmented() bool {
	return s.params.BgMix.Enabled || s.params.IRMix.Enabled || s.params.SpeechMix.Enabled ||
		s.params.ReduceBatchFirstHalf
}

// Batch returns the planned composition of batch i. Anchors draw consecutive
// files; each anchor is followed (in role order, anchors first) by its
// positives referencing the same file.
func (s *Sequence) Batch(i int) (Batch, error) {
	if i < 0 || i >= s.NumBatches() {
		return Batch{}, errors.Newf("batch index %d outside [0,%d)", i, s.NumBatches()).
			Category(errors.CategoryValidation).
			Build()
	}

	lo := i * s.anchorsPerBatch
	hi := lo + s.anchorsPerBatch
	if hi > len(s.params.Files) {
		hi = len(s.params.Files)
	}

	augment := s.augmented()

	items := make([]Item, 0, (hi-lo)*(1+s.positivesPerAnchor))
	for idx := lo; idx < hi; idx++ {
		items = append(items, Item{
			FileIndex: idx,
			File:      s.params.Files[idx],
			Role:      RoleAnchor,
		})
	}
	for idx := lo; idx < hi; idx++ {
		for p := 0; p < s.positivesPerAnchor; p++ {
			items = append(items, Item{
				FileIndex: idx,
				File:      s.params.Files[idx],
				Role:      RolePositive,
				Augmented: augment,
			})
		}
	}

	return Batch{Index: i, Items: items}, nil
}
