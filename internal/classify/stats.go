package classify

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
)

// ErrTooFewReadings is returned by [ParseStats] when the diagnostic text
// holds fewer than two readings of either statistic.
var ErrTooFewReadings = errors.New("fewer than two per-channel readings")

// Per-channel astats lines, e.g. "[Parsed_astats_0 @ 0x...] DC offset: -0.000012".
// ffmpeg prints the RMS key as "RMS level dB"; the bare "RMS level" form is
// accepted too. Silent channels report -inf.
var (
	reDCOffset = regexp.MustCompile(`DC offset:\s*([-+]?(?:inf|[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?))`)
	reRMSLevel = regexp.MustCompile(`RMS level(?: dB)?:\s*([-+]?(?:inf|[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?))`)
)

// ChannelStats holds DC offset and RMS level readings in channel order.
type ChannelStats struct {
	DCOffsets []float64
	RMSLevels []float64
}

// ParseStats extracts the per-channel readings from astats diagnostic text.
// Readings are taken in the order they appear, which is channel order.
func ParseStats(text string) (ChannelStats, error) {
	var st ChannelStats
	var err error
	if st.DCOffsets, err = readings(reDCOffset, text); err != nil {
		return st, fmt.Errorf("DC offset: %w", err)
	}
	if st.RMSLevels, err = readings(reRMSLevel, text); err != nil {
		return st, fmt.Errorf("RMS level: %w", err)
	}
	if len(st.DCOffsets) < 2 || len(st.RMSLevels) < 2 {
		return st, fmt.Errorf("%w (DC offset: %d, RMS level: %d)",
			ErrTooFewReadings, len(st.DCOffsets), len(st.RMSLevels))
	}
	return st, nil
}

func readings(re *regexp.Regexp, text string) ([]float64, error) {
	var vals []float64
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// Diffs returns the absolute DC offset and RMS level differences between
// the first two channels. Equal readings, including equal infinities,
// differ by zero. Stats with fewer than two readings report +Inf.
func (s ChannelStats) Diffs() (dc, rms float64) {
	return diff(s.DCOffsets), diff(s.RMSLevels)
}

func diff(v []float64) float64 {
	d, ok := exactDiff(v)
	if !ok {
		return math.Inf(1)
	}
	f, _ := d.Float64()
	return f
}

// exactDiff returns |v[0]-v[1]| computed on the shortest decimal form of
// each reading, which is the text ffmpeg printed. It reports false when there
// are fewer than two readings or exactly one of them is infinite.
func exactDiff(v []float64) (*big.Rat, bool) {
	if len(v) < 2 {
		return nil, false
	}
	if v[0] == v[1] {
		return new(big.Rat), true
	}
	a, aok := decimal(v[0])
	b, bok := decimal(v[1])
	if !aok || !bok {
		return nil, false
	}
	return new(big.Rat).Abs(new(big.Rat).Sub(a, b)), true
}

func decimal(f float64) (*big.Rat, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	return new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
}

// Identical reports whether both channel differences are strictly below
// tolerance. Differences are exact, so a reading pair such as -20.0001 and
// -20.0000 sits exactly at a tolerance of 1e-4 and is not identical.
func Identical(s ChannelStats, tolerance float64) bool {
	tol, ok := decimal(tolerance)
	if !ok {
		return false
	}
	return below(s.DCOffsets, tol) && below(s.RMSLevels, tol)
}

func below(v []float64, tol *big.Rat) bool {
	d, ok := exactDiff(v)
	return ok && d.Cmp(tol) < 0
}
