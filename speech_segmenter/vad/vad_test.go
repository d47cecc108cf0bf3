package vad

import (
	"math"
	"testing"
)

func sine(n int, freq float64, amplitude float64, sampleRate int) []int16 {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(amplitude * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}

	return samples
}

func TestVAD_SilenceHasZeroEnergy(t *testing.T) {
	v := New(1600)

	if got := v.Energy(make([]int16, 1600), 16000); got != 0 {
		t.Errorf("got energy %v for silence, want 0", got)
	}
}

func TestVAD_EmptyFrame(t *testing.T) {
	v := New(1600)

	if got := v.Energy(nil, 16000); got != 0 {
		t.Errorf("got energy %v for empty frame, want 0", got)
	}
}

func TestVAD_SpeechBandToneBeatsQuietTone(t *testing.T) {
	v := New(1600)

	loud := v.Energy(sine(1600, 440, 0.5, 16000), 16000)
	quiet := v.Energy(sine(1600, 440, 0.01, 16000), 16000)

	if loud <= quiet {
		t.Errorf("loud tone energy %v not above quiet tone energy %v", loud, quiet)
	}

	if loud == 0 {
		t.Error("loud in-band tone produced zero energy")
	}
}

func TestVAD_OutOfBandToneIsAttenuated(t *testing.T) {
	v := New(1600)

	inBand := v.Energy(sine(1600, 440, 0.5, 16000), 16000)
	outOfBand := v.Energy(sine(1600, 7000, 0.5, 16000), 16000)

	if outOfBand >= inBand {
		t.Errorf("out-of-band energy %v not below in-band energy %v", outOfBand, inBand)
	}
}
