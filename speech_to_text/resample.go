package speech_to_text

// engineSampleRate is the only rate the whisper engine accepts.
const engineSampleRate = 16000

// engineSamples converts capture samples into the normalized mono float32
// stream the engine expects, resampling when the capture rate differs from
// 16 kHz.
func engineSamples(samples []int16, sampleRate int) []float32 {
	data := make([]float32, len(samples))
	for i, s := range samples {
		data[i] = float32(s) / 32768
	}

	return resample(data, sampleRate, engineSampleRate)
}

// resample performs linear-interpolation rate conversion. Good enough for
// speech going into the engine.
func resample(data []float32, from, to int) []float32 {
	if from == to || len(data) == 0 {
		return data
	}

	ratio := float64(from) / float64(to)
	outLen := int(float64(len(data)) / ratio)
	if outLen == 0 {
		outLen = 1
	}

	out := make([]float32, outLen)

	for i := range out {
		pos := float64(i) * ratio
		left := int(pos)

		if left >= len(data)-1 {
			out[i] = data[len(data)-1]

			continue
		}

		frac := float32(pos - float64(left))
		out[i] = data[left]*(1-frac) + data[left+1]*frac
	}

	return out
}
