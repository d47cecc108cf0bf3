package speech_to_text

import "testing"

func TestJoinSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{
			name:     "plain speech",
			segments: []string{" open the terminal", " please"},
			want:     "open the terminal please",
		},
		{
			name:     "drops bracketed artifacts",
			segments: []string{"[BLANK_AUDIO]", "(wind howling)", "hello there"},
			want:     "hello there",
		},
		{
			name:     "drops repeated segments",
			segments: []string{"thank you.", "thank you.", "thank you."},
			want:     "thank you.",
		},
		{
			name:     "drops empty segments",
			segments: []string{"", "   ", "okay"},
			want:     "okay",
		},
		{
			name:     "nothing usable",
			segments: []string{"(music)", "[silence]"},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinSegments(tt.segments); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResample_SameRatePassesThrough(t *testing.T) {
	data := []float32{0.1, 0.2, 0.3}

	out := resample(data, 16000, 16000)

	if len(out) != len(data) {
		t.Fatalf("got %d samples, want %d", len(out), len(data))
	}

	for i := range data {
		if out[i] != data[i] {
			t.Errorf("sample %d: got %v, want %v", i, out[i], data[i])
		}
	}
}

func TestResample_Downsamples(t *testing.T) {
	// A constant signal survives rate conversion unchanged.
	data := make([]float32, 48000)
	for i := range data {
		data[i] = 0.5
	}

	out := resample(data, 48000, 16000)

	if len(out) != 16000 {
		t.Fatalf("got %d samples, want 16000", len(out))
	}

	for i, s := range out {
		if s != 0.5 {
			t.Fatalf("sample %d: got %v, want 0.5", i, s)
		}
	}
}

func TestResample_InterpolatesBetweenSamples(t *testing.T) {
	// Doubling the rate of a ramp puts new samples halfway between
	// neighbours.
	data := []float32{0, 1, 2, 3}

	out := resample(data, 8000, 16000)

	if len(out) != 8 {
		t.Fatalf("got %d samples, want 8", len(out))
	}

	for i := 0; i < 6; i++ {
		want := float32(i) / 2
		if diff := out[i] - want; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("sample %d: got %v, want %v", i, out[i], want)
		}
	}
}

func TestEngineSamples_NormalizesInt16(t *testing.T) {
	out := engineSamples([]int16{0, 16384, -32768}, engineSampleRate)

	want := []float32{0, 0.5, -1}
	if len(out) != len(want) {
		t.Fatalf("got %d samples, want %d", len(out), len(want))
	}

	for i := range want {
		if diff := out[i] - want[i]; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("sample %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil config")
	}

	if _, err := New(&Config{}); err == nil {
		t.Error("expected error for nil model")
	}
}
