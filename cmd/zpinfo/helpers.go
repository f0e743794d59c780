package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/cmplx"
	"os"
	"strconv"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-zplane/dsp/filter/iir"
)

const (
	bitsPerSample8  = 8
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt8  = 127.0
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	wavFormatPCM = 1
)

var errNoCoefficients = errors.New("no coefficients")

// parseCoefficients parses a comma separated list of floats.
func parseCoefficients(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))

	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}

		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coefficient %q: %w", f, err)
		}
		out = append(out, v)
	}

	if len(out) == 0 {
		return nil, errNoCoefficients
	}

	return out, nil
}

func formatCoefficients(c []float64) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(v, 'g', 8, 64)
	}

	return strings.Join(parts, ", ")
}

func formatPoint(p complex128) string {
	return fmt.Sprintf("%.6f%+.6fi", real(p), imag(p))
}

func abs(p complex128) float64 { return cmplx.Abs(p) }

// sampleIndices picks n indices spread evenly over [0, length), always
// including the first and last bin.
func sampleIndices(length, n int) []int {
	if length <= 0 || n <= 0 {
		return nil
	}
	if n >= length {
		n = length
	}
	if n == 1 {
		return []int{0}
	}

	out := make([]int, n)
	for i := range n {
		out[i] = i * (length - 1) / (n - 1)
	}

	return out
}

func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample8:
		return maxInt8
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// deinterleave splits interleaved integer samples into normalized channels.
func deinterleave(data []int, channels, bitDepth int) [][]float64 {
	frames := len(data) / channels
	scale := 1 / fullScale(bitDepth)

	out := make([][]float64, channels)
	for ch := range channels {
		out[ch] = make([]float64, frames)
	}

	for i := range frames {
		for ch := range channels {
			out[ch][i] = float64(data[i*channels+ch]) * scale
		}
	}

	return out
}

// interleave converts normalized channels back to clamped integer samples.
func interleave(chans [][]float64, bitDepth int) []int {
	if len(chans) == 0 {
		return nil
	}

	scale := fullScale(bitDepth)
	frames := len(chans[0])
	out := make([]int, frames*len(chans))

	for i := range frames {
		for ch := range chans {
			v := min(max(chans[ch][i], -1), 1)
			out[i*len(chans)+ch] = int(math.Round(v * scale))
		}
	}

	return out
}

type wavStats struct {
	rate     int
	channels int
	bitDepth int
	frames   int
}

// filterWAV runs every channel of inPath through its own copy of proto and
// writes the result to outPath with the input's format.
func filterWAV(inPath, outPath string, proto *iir.Filter, verbose bool) (stats wavStats, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return stats, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = in.Close() }()

	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		return stats, fmt.Errorf("invalid WAV file: %s", inPath)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return stats, fmt.Errorf("failed to read audio data: %w", err)
	}

	stats = wavStats{
		rate:     buf.Format.SampleRate,
		channels: buf.Format.NumChannels,
		bitDepth: int(dec.BitDepth),
	}
	if stats.channels <= 0 {
		return stats, fmt.Errorf("invalid channel count %d in %s", stats.channels, inPath)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", stats.rate, stats.channels, stats.bitDepth)
	}

	chans := deinterleave(buf.Data, stats.channels, stats.bitDepth)
	stats.frames = len(chans[0])

	b, a := proto.Coefficients()
	for ch := range chans {
		f, err := iir.NewFilter(b, a)
		if err != nil {
			return stats, err
		}
		f.ProcessBlock(chans[ch])
	}

	out, err := os.Create(outPath)
	if err != nil {
		return stats, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	enc := wav.NewEncoder(out, stats.rate, stats.bitDepth, stats.channels, wavFormatPCM)

	outBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: stats.channels, SampleRate: stats.rate},
		Data:           interleave(chans, stats.bitDepth),
		SourceBitDepth: stats.bitDepth,
	}
	if err := enc.Write(outBuf); err != nil {
		return stats, fmt.Errorf("failed to write audio data: %w", err)
	}

	if err := enc.Close(); err != nil {
		return stats, fmt.Errorf("failed to finalize WAV: %w", err)
	}

	return stats, nil
}
