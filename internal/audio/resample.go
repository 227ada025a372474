package audio

import "encoding/binary"

// Resample converts 16-bit mono samples from srcRate to dstRate using
// linear interpolation. The output length is round(len(samples)/ratio)
// where ratio = srcRate/dstRate; exact sample accuracy is not a goal.
func Resample(samples []int16, srcRate, dstRate int) []int16 {
	if srcRate == dstRate || srcRate <= 0 || dstRate <= 0 || len(samples) == 0 {
		out := make([]int16, len(samples))
		copy(out, samples)
		return out
	}

	ratio := float64(srcRate) / float64(dstRate)
	outLen := int(float64(len(samples))/ratio + 0.5)
	out := make([]int16, outLen)

	for i := 0; i < outLen; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		a := float64(samples[idx])
		b := float64(samples[idx+1])
		out[i] = int16(a + (b-a)*frac)
	}

	return out
}

// ResampleBytes resamples a little-endian 16-bit PCM byte stream. A
// trailing odd byte is dropped.
func ResampleBytes(data []byte, srcRate, dstRate int) []byte {
	n := len(data) / 2
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}

	resampled := Resample(samples, srcRate, dstRate)

	out := make([]byte, len(resampled)*2)
	for i, s := range resampled {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}
