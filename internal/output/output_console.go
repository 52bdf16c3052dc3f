package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"udpecho/internal/shared"
)

const ruleWidth = 70

// RunInfo carries the run parameters echoed in the prober's console banner.
type RunInfo struct {
	Target   string
	Count    uint
	Size     uint
	Interval time.Duration
}

// ConsoleOutput renders events as human-readable lines, one per event,
// with a statistics block at the end of a prober run.
type ConsoleOutput struct {
	w io.Writer
}

// NewProberConsole prints the prober banner and returns the line renderer.
func NewProberConsole(w io.Writer, info RunInfo) *ConsoleOutput {
	fmt.Fprintln(w, "UDP Echo Prober")
	fmt.Fprintf(w, "Target: %s\n", info.Target)
	fmt.Fprintf(w, "Packet size: %d bytes\n", info.Size)
	fmt.Fprintf(w, "Count: %d packets\n", info.Count)
	fmt.Fprintf(w, "Interval: %.1f ms\n", float64(info.Interval)/float64(time.Millisecond))
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	return &ConsoleOutput{w: w}
}

// NewResponderConsole prints the responder banner and returns the line
// renderer.
func NewResponderConsole(w io.Writer, listen string) *ConsoleOutput {
	fmt.Fprintf(w, "UDP Echo Responder listening on %s\n", listen)
	fmt.Fprintln(w, "Waiting for packets... (Press Ctrl+C to exit)")
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) ProbeResult(rec *shared.ProbeRecord) {
	switch rec.Status {
	case shared.StatusOK:
		if rec.RTTMicros == nil || rec.ResponseSize == nil {
			return
		}
		fmt.Fprintf(c.w, "[%06d] RTT: %8.2f µs | Size: %5d bytes | From: %s\n",
			rec.Sequence, *rec.RTTMicros, *rec.ResponseSize, rec.Responder)
	case shared.StatusTimeout:
		fmt.Fprintf(c.w, "[%06d] Timeout - no response from server\n", rec.Sequence)
	default:
		fmt.Fprintf(c.w, "[%06d] Error: %s\n", rec.Sequence, rec.Error)
	}
}

func (c *ConsoleOutput) PacketSeen(rec *shared.PacketRecord) {
	fmt.Fprintf(c.w, "[%06d] From %s | Size: %5d bytes | Processing: %7.2f µs\n",
		rec.Index, rec.Sender, rec.Size, rec.ProcessingMicros)
}

func (c *ConsoleOutput) Summary(stats *shared.RunStats) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(c.w, "\n%s\n", rule)
	fmt.Fprintln(c.w, "STATISTICS")
	fmt.Fprintln(c.w, rule)
	fmt.Fprintf(c.w, "Packets sent:     %d\n", stats.Sent)
	fmt.Fprintf(c.w, "Packets received: %d\n", stats.Received)
	if stats.LossPct != nil {
		fmt.Fprintf(c.w, "Packet loss:      %.2f%%\n", *stats.LossPct)
	}

	if stats.RTT == nil {
		fmt.Fprintln(c.w, "\nNo successful round-trips recorded")
		return
	}
	rtt := stats.RTT
	fmt.Fprintln(c.w, "\nRound-Trip Time (RTT) in microseconds:")
	fmt.Fprintf(c.w, "  Minimum:   %10.2f µs\n", rtt.Min)
	fmt.Fprintf(c.w, "  Maximum:   %10.2f µs\n", rtt.Max)
	fmt.Fprintf(c.w, "  Mean:      %10.2f µs\n", rtt.Mean)
	fmt.Fprintf(c.w, "  Median:    %10.2f µs\n", rtt.Median)
	if rtt.StdDev != nil {
		fmt.Fprintf(c.w, "  Std Dev:   %10.2f µs\n", *rtt.StdDev)
	}
	fmt.Fprintf(c.w, "\n  50th percentile: %10.2f µs\n", rtt.P50)
	fmt.Fprintf(c.w, "  95th percentile: %10.2f µs\n", rtt.P95)
	fmt.Fprintf(c.w, "  99th percentile: %10.2f µs\n", rtt.P99)
}

func (c *ConsoleOutput) Close() error {
	return nil
}
