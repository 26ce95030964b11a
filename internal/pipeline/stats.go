package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total            int
	Current          int
	Succeeded        int
	Failed           int
	Downmixed        int // Successful conversions written as mono.
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// Processed returns the number of files that reached a final outcome.
func (s *RunStats) Processed() int {
	return s.Succeeded + s.Failed
}

// Interrupted reports whether the run stopped before every discovered file
// was processed.
func (s *RunStats) Interrupted() bool {
	return s.Processed() < s.Total
}

// SizeDelta returns the aggregate byte difference between outputs and
// inputs. Negative means the outputs are smaller.
func (s *RunStats) SizeDelta() int64 {
	return s.TotalOutputBytes - s.TotalInputBytes
}
