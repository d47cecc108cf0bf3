package vad

import (
	"math"

	"github.com/mjibson/go-dsp/spectral"
)

// Speech sits roughly between these frequencies; energy outside the band is
// mostly hum and hiss and should not trigger the segmenter.
const (
	speechBandLow  = 100.0
	speechBandHigh = 4000.0
)

// VAD measures per-frame speech-band energy from the Welch power spectral
// density of the frame.
type VAD struct {
	sampleSize int
	opts       *spectral.PwelchOptions
}

func New(sampleSize int) *VAD {
	return &VAD{
		sampleSize: sampleSize,
		opts: &spectral.PwelchOptions{
			NFFT: 1024,
		},
	}
}

// Energy returns the mean speech-band power of the frame, scaled to roughly
// [0, 1] for full-scale input. Zero for an empty frame.
func (v *VAD) Energy(samples []int16, sampleRate int) float64 {
	if len(samples) == 0 {
		return 0
	}

	fSamples := make([]float64, len(samples))
	for i, s := range samples {
		fSamples[i] = float64(s) / 32768.0
	}

	pxx, freqs := spectral.Pwelch(fSamples, float64(sampleRate), v.opts)

	var power float64
	var bins int

	for i, f := range freqs {
		if f >= speechBandLow && f <= speechBandHigh {
			power += pxx[i]
			bins++
		}
	}

	if bins == 0 {
		return 0
	}

	return math.Sqrt(power / float64(bins))
}
