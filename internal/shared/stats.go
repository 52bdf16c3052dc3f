package shared

import (
	"math"
	"slices"
)

// ComputeRunStats derives the end-of-run summary from the count of send
// attempts and the successful round-trip samples, in microseconds. rtts is
// sorted in place.
func ComputeRunStats(sent int, rtts []float64) *RunStats {
	stats := &RunStats{
		Sent:     sent,
		Received: len(rtts),
	}
	if sent > 0 {
		loss := float64(sent-len(rtts)) / float64(sent) * 100
		stats.LossPct = &loss
	}
	if len(rtts) == 0 {
		return stats
	}

	slices.Sort(rtts)

	sum := 0.0
	for _, rtt := range rtts {
		sum += rtt
	}
	mean := sum / float64(len(rtts))

	summary := &RTTSummary{
		Min:    rtts[0],
		Max:    rtts[len(rtts)-1],
		Mean:   mean,
		Median: median(rtts),
		P50:    percentile(rtts, 0.50),
		P95:    percentile(rtts, 0.95),
		P99:    percentile(rtts, 0.99),
	}
	if len(rtts) > 1 {
		sd := stddev(rtts, mean)
		summary.StdDev = &sd
	}
	stats.RTT = summary
	return stats
}

// percentile returns the sample at index floor(fraction*n) of the
// ascending-sorted set, the indexing downstream consumers of these logs
// already expect.
func percentile(sorted []float64, fraction float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * fraction)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// median of an ascending-sorted set, averaging the middle pair for even
// sample counts.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stddev is the sample standard deviation (n-1 divisor). Callers guard
// against fewer than two samples.
func stddev(samples []float64, mean float64) float64 {
	var sq float64
	for _, s := range samples {
		d := s - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(samples)-1))
}
