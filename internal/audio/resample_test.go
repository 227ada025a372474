package audio

import (
	"encoding/binary"
	"testing"
)

func TestResampleLength(t *testing.T) {
	tests := []struct {
		name    string
		inLen   int
		srcRate int
		dstRate int
		wantLen int
	}{
		{"downsample 48k to 16k", 480, 48000, 16000, 160},
		{"downsample 44.1k to 16k", 441, 44100, 16000, 160},
		{"upsample 16k to 48k", 160, 16000, 48000, 480},
		{"equal rates", 320, 16000, 16000, 320},
		{"empty input", 0, 48000, 16000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]int16, tt.inLen)
			out := Resample(in, tt.srcRate, tt.dstRate)
			if len(out) != tt.wantLen {
				t.Errorf("Resample() len = %d, want %d", len(out), tt.wantLen)
			}
		})
	}
}

func TestResampleEqualRatesCopies(t *testing.T) {
	in := []int16{100, -200, 300, -400}
	out := Resample(in, 16000, 16000)

	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], in[i])
		}
	}

	// must be a copy, not the same backing array
	out[0] = 999
	if in[0] == 999 {
		t.Error("Resample with equal rates must not alias the input")
	}
}

func TestResampleInterpolates(t *testing.T) {
	// upsampling a ramp should stay monotonic and bounded by the input
	in := []int16{0, 1000, 2000, 3000}
	out := Resample(in, 16000, 32000)

	if len(out) != 8 {
		t.Fatalf("len = %d, want 8", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			t.Errorf("output not monotonic at %d: %d < %d", i, out[i], out[i-1])
		}
	}
	if out[0] != 0 || out[len(out)-1] > 3000 {
		t.Errorf("output out of input range: first=%d last=%d", out[0], out[len(out)-1])
	}
}

func TestResampleDownsamplePreservesEndpoints(t *testing.T) {
	in := make([]int16, 480)
	for i := range in {
		in[i] = int16(i)
	}
	out := Resample(in, 48000, 16000)

	if out[0] != in[0] {
		t.Errorf("first sample = %d, want %d", out[0], in[0])
	}
	// decimation picks every third sample on a 3:1 ratio
	if out[1] != in[3] {
		t.Errorf("second sample = %d, want %d", out[1], in[3])
	}
}

func TestResampleBytes(t *testing.T) {
	samples := []int16{100, 200, 300, 400, 500, 600}
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}

	out := ResampleBytes(data, 48000, 16000)

	if len(out)%2 != 0 {
		t.Fatalf("output length %d is not sample aligned", len(out))
	}
	if len(out)/2 != 2 {
		t.Errorf("output samples = %d, want 2", len(out)/2)
	}
	if got := int16(binary.LittleEndian.Uint16(out)); got != 100 {
		t.Errorf("first sample = %d, want 100", got)
	}
}

func TestResampleBytesDropsTrailingOddByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03} // one full sample plus a stray byte
	out := ResampleBytes(data, 16000, 16000)
	if len(out) != 2 {
		t.Errorf("output length = %d, want 2", len(out))
	}
}
