// policy.go: batch policy derived per partition, the sole artifact handed to
// the sequence generator.
package dataset

import (
	"github.com/tphakala/audiofp-go/internal/conf"
)

// BgMix is the background noise augmentation of a policy. A nil *BgMix on a
// Policy means background mixing is disabled.
type BgMix struct {
	Files []string      // noise pool, lexicographically sorted
	SNR   conf.SNRRange // bounds sampled when mixing
	// FallbackFromTrain is true when the pool was drawn from the train
	// subtree because no dedicated pool exists for the split.
	FallbackFromTrain bool
}

// IRMix is the impulse response augmentation of a policy. Impulse response
// convolution has no SNR parameter. A nil *IRMix means it is disabled.
type IRMix struct {
	Files             []string
	FallbackFromTrain bool
}

// SpeechMix is the speech augmentation of a policy. A nil *SpeechMix means
// speech mixing is disabled.
type SpeechMix struct {
	Files []string
	SNR   conf.SNRRange
}

// Policy fully determines the behavior of one sequence generator instance.
// Policies are derived fresh on every request and never cached.
type Policy struct {
	Files    []string // primary file list, lexicographically sorted
	MixFiles []string // broadcast mix list, train partition only

	BatchSize int
	NAnchor   int // anchors per batch, never exceeds BatchSize

	Duration   float64 // segment duration in seconds, passed through
	Hop        float64 // hop in seconds, passed through
	SampleRate int     // sample rate in Hz, passed through

	Shuffle            bool // reshuffle file order between epochs
	RandomOffsetAnchor bool // random per-anchor time offset within the segment

	Background      *BgMix
	ImpulseResponse *IRMix
	Speech          *SpeechMix

	// ReduceItemsP is the fraction of anchors to drop per batch, a
	// load-shedding knob for training only.
	ReduceItemsP float64

	// ReduceBatchFirstHalf tells the generator to treat the first half of
	// each batch as clean database copies and augment only the second half,
	// which becomes the queries. Set only by the synthesized query protocol.
	ReduceBatchFirstHalf bool

	// DropLastPartialBatch drops a trailing batch smaller than BatchSize.
	// Database style partitions keep it so every item is served.
	DropLastPartialBatch bool
}

// Augmented reports whether any augmentation kind is active.
func (p *Policy) Augmented() bool {
	return p.Background != nil || p.ImpulseResponse != nil || p.Speech != nil
}

// passThrough builds the shared "no augmentation, anchor = batch, keep last
// partial batch" policy used by the dummy database, the pre-paired query and
// database sets, and custom sources. Only the file source varies per call
// site.
func (s *Selector) passThrough(files []string) *Policy {
	bsz := s.settings.Batch.Test.BatchSize
	return &Policy{
		Files:                files,
		BatchSize:            bsz,
		NAnchor:              bsz, // every item is its own anchor
		Duration:             s.settings.Model.Duration,
		Hop:                  s.settings.Model.Hop,
		SampleRate:           s.settings.Model.SampleRate,
		Shuffle:              false,
		RandomOffsetAnchor:   false,
		DropLastPartialBatch: false,
	}
}
