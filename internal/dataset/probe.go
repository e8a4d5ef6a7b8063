// probe.go - wav header inspection for source verification
package dataset

import (
	"os"

	"github.com/go-audio/wav"
	"github.com/tphakala/audiofp-go/internal/errors"
)

// WavInfo holds the header metadata of a wav file. No samples are decoded.
type WavInfo struct {
	SampleRate   int
	NumChannels  int
	BitDepth     int
	TotalSamples int
}

// ProbeWav validates that path is a readable RIFF/WAV file with a supported
// bit depth and channel count and returns its header metadata.
func ProbeWav(path string) (WavInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return WavInfo{}, errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(path).
			Build()
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		return WavInfo{}, errors.Newf("invalid WAV file format: %s", path).
			Category(errors.CategoryAudioProbe).
			FileContext(path).
			Build()
	}

	if decoder.BitDepth != 16 && decoder.BitDepth != 24 && decoder.BitDepth != 32 {
		return WavInfo{}, errors.Newf("unsupported bit depth: %d", decoder.BitDepth).
			Category(errors.CategoryAudioProbe).
			FileContext(path).
			Build()
	}

	if decoder.NumChans != 1 && decoder.NumChans != 2 {
		return WavInfo{}, errors.Newf("unsupported number of channels: %d", decoder.NumChans).
			Category(errors.CategoryAudioProbe).
			FileContext(path).
			Build()
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return WavInfo{}, errors.New(err).
			Category(errors.CategoryFileIO).
			FileContext(path).
			Build()
	}

	bytesPerSample := int(decoder.BitDepth / 8)
	totalSamples := int(fileInfo.Size()) / bytesPerSample / int(decoder.NumChans)

	return WavInfo{
		SampleRate:   int(decoder.SampleRate),
		NumChannels:  int(decoder.NumChans),
		BitDepth:     int(decoder.BitDepth),
		TotalSamples: totalSamples,
	}, nil
}

// VerifyPool probes every file in the list and returns the paths whose
// sample rate does not match expected, plus the first probe failure if any
// file was unreadable.
func VerifyPool(files []string, expectedSampleRate int) (mismatched []string, err error) {
	for _, fp := range files {
		info, probeErr := ProbeWav(fp)
		if probeErr != nil {
			return mismatched, probeErr
		}
		if info.SampleRate != expectedSampleRate {
			mismatched = append(mismatched, fp)
		}
	}
	return mismatched, nil
}
