package classify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/audionorm/internal/ffmpeg"
	"github.com/backmassage/audionorm/internal/probe"
)

// fakeAnalyzer returns canned probe results and filter text.
type fakeAnalyzer struct {
	channels   int
	probeErr   error
	filterText string
	filterErr  error

	filterCalls int
	lastFilter  string
}

func (f *fakeAnalyzer) Probe(_ context.Context, path string) (*probe.Result, error) {
	if f.probeErr != nil {
		return nil, &ffmpeg.ProbeError{Path: path, Err: f.probeErr}
	}
	return &probe.Result{Streams: []probe.AudioStream{{Channels: f.channels}}}, nil
}

func (f *fakeAnalyzer) RunFilter(_ context.Context, path, filter string) (string, error) {
	f.filterCalls++
	f.lastFilter = filter
	if f.filterErr != nil {
		return "", &ffmpeg.ToolError{Path: path, Err: f.filterErr}
	}
	return enabledOnly(f.filterText, filter), nil
}

// astatsMeasures maps astats output keys to the measure flag that enables them.
var astatsMeasures = map[string]string{
	"DC offset:": "DC_offset",
	"Min level:": "Min_level",
	"RMS level":  "RMS_level",
	"RMS peak":   "RMS_peak",
}

// enabledOnly drops statistic lines the filter string does not enable, so
// canned text behaves like astats run with that filter.
func enabledOnly(text, filter string) string {
	var kept []string
	for _, line := range strings.SplitAfter(text, "\n") {
		keep := true
		for key, flag := range astatsMeasures {
			if strings.Contains(line, key) && !strings.Contains(filter, flag) {
				keep = false
			}
		}
		if keep {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "")
}

// astatsText renders per-channel astats output the way ffmpeg prints it.
func astatsText(dc, rms [2]string) string {
	var b strings.Builder
	b.WriteString("Input #0, wav, from 'in.wav':\n  Duration: 00:00:01.00, bitrate: 1411 kb/s\n")
	for ch := 0; ch < 2; ch++ {
		fmt.Fprintf(&b, "[Parsed_astats_0 @ 0x5581] Channel: %d\n", ch+1)
		fmt.Fprintf(&b, "[Parsed_astats_0 @ 0x5581] DC offset: %s\n", dc[ch])
		b.WriteString("[Parsed_astats_0 @ 0x5581] Min level: -0.500000\n")
		fmt.Fprintf(&b, "[Parsed_astats_0 @ 0x5581] RMS level: %s\n", rms[ch])
		b.WriteString("[Parsed_astats_0 @ 0x5581] RMS peak dB: -3.010300\n")
	}
	return b.String()
}

func TestIsMonoEligible_NonStereoNeverAnalyzed(t *testing.T) {
	identical := astatsText([2]string{"0.000000", "0.000000"}, [2]string{"-20.000000", "-20.000000"})
	for _, ch := range []int{0, 1, 3, 4, 5, 6, 8} {
		t.Run(fmt.Sprintf("%d channels", ch), func(t *testing.T) {
			fa := &fakeAnalyzer{channels: ch, filterText: identical}
			c := New(fa)

			d := c.Classify(context.Background(), "in.wav")
			assert.False(t, d.Mono)
			assert.Equal(t, ch, d.Channels)
			assert.NotEmpty(t, d.Reason)
			assert.Zero(t, fa.filterCalls, "filter must not run for non-stereo input")
		})
	}
}

func TestIsMonoEligible_Tolerance(t *testing.T) {
	tests := []struct {
		name string
		dc   [2]string
		rms  [2]string
		want bool
	}{
		{"identical", [2]string{"0.000012", "0.000012"}, [2]string{"-20.000000", "-20.000000"}, true},
		{"sub-threshold RMS diff", [2]string{"0.000000", "0.000000"}, [2]string{"-20.00000", "-20.00001"}, true},
		{"sub-threshold both", [2]string{"0.00001", "-0.00001"}, [2]string{"0.12345", "0.12349"}, true},
		{"RMS differs by 0.5", [2]string{"0.000000", "0.000000"}, [2]string{"-20.0", "-20.5"}, false},
		{"DC differs", [2]string{"0.010000", "0.000000"}, [2]string{"-20.0", "-20.0"}, false},
		{"DC diff exactly at tolerance", [2]string{"0.0001", "0"}, [2]string{"-20.0", "-20.0"}, false},
		{"RMS diff exactly at tolerance", [2]string{"0", "0"}, [2]string{"0.0001", "0"}, false},
		{"RMS at tolerance on a negative base", [2]string{"0.000000", "0.000000"}, [2]string{"-20.000100", "-20.000000"}, false},
		{"RMS just under tolerance on a negative base", [2]string{"0.000000", "0.000000"}, [2]string{"-20.000099", "-20.000000"}, true},
		{"DC at tolerance on a non-zero base", [2]string{"0.300000", "0.299900"}, [2]string{"-20.0", "-20.0"}, false},
		{"RMS at tolerance on a real reading", [2]string{"0.000000", "0.000000"}, [2]string{"-18.061900", "-18.061800"}, false},
		{"both silent", [2]string{"0.000000", "0.000000"}, [2]string{"-inf", "-inf"}, true},
		{"one channel silent", [2]string{"0.000000", "0.000000"}, [2]string{"-inf", "-20.0"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := &fakeAnalyzer{channels: 2, filterText: astatsText(tt.dc, tt.rms)}
			c := New(fa)
			assert.Equal(t, tt.want, c.IsMonoEligible(context.Background(), "in.wav"))
			assert.Equal(t, ffmpeg.StatsFilter, fa.lastFilter)
		})
	}
}

func TestIsMonoEligible_FailuresAreAbsorbed(t *testing.T) {
	tests := []struct {
		name string
		fa   *fakeAnalyzer
	}{
		{"probe error", &fakeAnalyzer{probeErr: errors.New("exit status 1")}},
		{"filter error", &fakeAnalyzer{channels: 2, filterErr: errors.New("exit status 1")}},
		{"no readings", &fakeAnalyzer{channels: 2, filterText: "Input #0, wav\n"}},
		{"one DC reading", &fakeAnalyzer{channels: 2, filterText: "DC offset: 0\nRMS level: 1\nRMS level: 1\n"}},
		{"one RMS reading", &fakeAnalyzer{channels: 2, filterText: "DC offset: 0\nDC offset: 0\nRMS level: 1\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.fa).Classify(context.Background(), "in.wav")
			assert.False(t, d.Mono)
			assert.NotEmpty(t, d.Reason)
		})
	}
}

func TestClassify_NoAudioStream(t *testing.T) {
	c := New(noStreamAnalyzer{})
	d := c.Classify(context.Background(), "in.wav")
	assert.False(t, d.Mono)
	assert.Equal(t, "no audio stream", d.Reason)
}

type noStreamAnalyzer struct{}

func (noStreamAnalyzer) Probe(context.Context, string) (*probe.Result, error) {
	return &probe.Result{}, nil
}

func (noStreamAnalyzer) RunFilter(context.Context, string, string) (string, error) {
	return "", errors.New("unexpected")
}

func TestClassify_CustomTolerance(t *testing.T) {
	text := astatsText([2]string{"0", "0"}, [2]string{"-20.0", "-20.05"})
	c := New(&fakeAnalyzer{channels: 2, filterText: text})
	assert.False(t, c.IsMonoEligible(context.Background(), "in.wav"))

	c.Tolerance = 0.1
	d := c.Classify(context.Background(), "in.wav")
	assert.True(t, d.Mono)
	require.NotNil(t, d.Stats)
	assert.Equal(t, []float64{-20.0, -20.05}, d.Stats.RMSLevels)

	c.Tolerance = 0 // falls back to the default
	assert.False(t, c.IsMonoEligible(context.Background(), "in.wav"))
}

func TestParseStats_RealFFmpegSpelling(t *testing.T) {
	text := `[Parsed_astats_0 @ 0x600] Channel: 1
[Parsed_astats_0 @ 0x600] DC offset: -0.000012
[Parsed_astats_0 @ 0x600] RMS level dB: -18.061800
[Parsed_astats_0 @ 0x600] RMS peak dB: -17.990000
[Parsed_astats_0 @ 0x600] Channel: 2
[Parsed_astats_0 @ 0x600] DC offset: -0.000012
[Parsed_astats_0 @ 0x600] RMS level dB: -18.061800
[Parsed_astats_0 @ 0x600] RMS peak dB: -17.990000
`
	st, err := ParseStats(text)
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.000012, -0.000012}, st.DCOffsets)
	assert.Equal(t, []float64{-18.0618, -18.0618}, st.RMSLevels)
	assert.True(t, Identical(st, DefaultTolerance))
}

func TestParseStats_TooFew(t *testing.T) {
	_, err := ParseStats("DC offset: 0.1\nRMS level: 0.2\n")
	assert.ErrorIs(t, err, ErrTooFewReadings)
}

func TestParseStats_Exponent(t *testing.T) {
	st, err := ParseStats("DC offset: 1e-06\nDC offset: -2.5E-06\nRMS level: 0.3\nRMS level: 0.3\n")
	require.NoError(t, err)
	assert.Equal(t, []float64{1e-06, -2.5e-06}, st.DCOffsets)
}

// micro renders n millionths the way astats prints a reading.
func micro(n int64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	return fmt.Sprintf("%s%d.%06d", sign, n/1000000, n%1000000)
}

func TestIdentical_Property(t *testing.T) {
	// Steps are in millionths; the tolerance is 100 of them. A pair is
	// identical exactly when both steps are below 100.
	const dcBase, rmsBase = 250000, -20000000
	steps := []int64{0, 1, 10, 50, 99, 100, 101, 1000, 500000}
	for _, dcStep := range steps {
		for _, rmsStep := range steps {
			text := astatsText(
				[2]string{micro(dcBase), micro(dcBase + dcStep)},
				[2]string{micro(rmsBase), micro(rmsBase - rmsStep)},
			)
			st, err := ParseStats(text)
			require.NoError(t, err)
			want := dcStep < 100 && rmsStep < 100
			assert.Equal(t, want, Identical(st, DefaultTolerance), "dc step %d rms step %d", dcStep, rmsStep)
		}
	}
}

func TestIdentical_ExactDecimals(t *testing.T) {
	at := ChannelStats{DCOffsets: []float64{0, 0}, RMSLevels: []float64{-20.0001, -20}}
	assert.False(t, Identical(at, DefaultTolerance))

	under := ChannelStats{DCOffsets: []float64{0.3, 0.29991}, RMSLevels: []float64{-20, -20}}
	assert.True(t, Identical(under, DefaultTolerance))

	dc, rms := at.Diffs()
	assert.Zero(t, dc)
	assert.Equal(t, 1e-4, rms)
}

func TestNew_FilterEnablesMeasuredStats(t *testing.T) {
	c := New(&fakeAnalyzer{})
	assert.Contains(t, c.Filter, "DC_offset")
	assert.Contains(t, c.Filter, "RMS_level")

	// A filter that enables neither statistic yields no readings.
	text := astatsText([2]string{"0", "0"}, [2]string{"-20.0", "-20.0"})
	c = New(&fakeAnalyzer{channels: 2, filterText: text})
	c.Filter = "astats=measure_perchannel=1"
	d := c.Classify(context.Background(), "in.wav")
	assert.False(t, d.Mono)
	assert.Contains(t, d.Reason, ErrTooFewReadings.Error())
}

func TestDiffs(t *testing.T) {
	st := ChannelStats{DCOffsets: []float64{math.Inf(-1), math.Inf(-1)}, RMSLevels: []float64{math.Inf(-1), 0}}
	dc, rms := st.Diffs()
	assert.Equal(t, 0.0, dc)
	assert.True(t, math.IsInf(rms, 1))

	dc, _ = ChannelStats{DCOffsets: []float64{1}}.Diffs()
	assert.True(t, math.IsInf(dc, 1))
}
