// generator.go: construction of sequence generator instances from derived
// policies.
package dataset

import (
	"github.com/tphakala/audiofp-go/internal/sequence"
)

// SequenceParams flattens the policy into the generator's parameter
// contract. Disabled augmentation kinds map to a disabled triple with a nil
// file list, never an empty active one.
func (p *Policy) SequenceParams() sequence.Params {
	params := sequence.Params{
		Files:                p.Files,
		MixFiles:             p.MixFiles,
		BatchSize:            p.BatchSize,
		NAnchor:              p.NAnchor,
		Duration:             p.Duration,
		Hop:                  p.Hop,
		SampleRate:           p.SampleRate,
		Shuffle:              p.Shuffle,
		RandomOffsetAnchor:   p.RandomOffsetAnchor,
		ReduceItemsP:         p.ReduceItemsP,
		ReduceBatchFirstHalf: p.ReduceBatchFirstHalf,
		DropLastNonFullBatch: p.DropLastPartialBatch,
	}

	if p.Background != nil {
		params.BgMix = sequence.BgMixParam{
			Enabled: true,
			Files:   p.Background.Files,
			SNR:     p.Background.SNR,
		}
	}
	if p.ImpulseResponse != nil {
		params.IRMix = sequence.IRMixParam{
			Enabled: true,
			Files:   p.ImpulseResponse.Files,
		}
	}
	if p.Speech != nil {
		params.SpeechMix = sequence.SpeechMixParam{
			Enabled: true,
			Files:   p.Speech.Files,
			SNR:     p.Speech.SNR,
		}
	}

	return params
}

// NewSequence constructs the sequence generator for a derived policy. The
// returned sequence is owned by the caller; the selector keeps no reference
// to it.
func (s *Selector) NewSequence(p *Policy) (*sequence.Sequence, error) {
	return sequence.New(p.SequenceParams())
}
