package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"udpecho/internal/shared"
)

func TestNewProberConsole_Banner(t *testing.T) {
	var buf bytes.Buffer
	NewProberConsole(&buf, RunInfo{
		Target:   "192.0.2.10:5005",
		Count:    100,
		Size:     64,
		Interval: 10 * time.Millisecond,
	})

	got := buf.String()
	for _, want := range []string{
		"UDP Echo Prober",
		"Target: 192.0.2.10:5005",
		"Packet size: 64 bytes",
		"Count: 100 packets",
		"Interval: 10.0 ms",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("banner missing %q:\n%s", want, got)
		}
	}
}

func TestNewResponderConsole_Banner(t *testing.T) {
	var buf bytes.Buffer
	NewResponderConsole(&buf, "0.0.0.0:5005")

	got := buf.String()
	if !strings.Contains(got, "UDP Echo Responder listening on 0.0.0.0:5005") {
		t.Errorf("banner missing listen line:\n%s", got)
	}
	if !strings.Contains(got, "Waiting for packets") {
		t.Errorf("banner missing waiting line:\n%s", got)
	}
}

func TestConsoleOutput_ProbeResult(t *testing.T) {
	rtt := 456.78
	size := 64
	tests := []struct {
		name string
		rec  *shared.ProbeRecord
		want string
	}{
		{
			name: "ok",
			rec: &shared.ProbeRecord{
				Sequence:     1,
				Status:       shared.StatusOK,
				RTTMicros:    &rtt,
				ResponseSize: &size,
				Responder:    "192.0.2.10:5005",
			},
			want: "[000001] RTT:   456.78 µs | Size:    64 bytes | From: 192.0.2.10:5005\n",
		},
		{
			name: "timeout",
			rec:  &shared.ProbeRecord{Sequence: 23, Status: shared.StatusTimeout},
			want: "[000023] Timeout - no response from server\n",
		},
		{
			name: "transport error",
			rec: &shared.ProbeRecord{
				Sequence: 42,
				Status:   shared.StatusError,
				Error:    "write udp: connection refused",
			},
			want: "[000042] Error: write udp: connection refused\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := &ConsoleOutput{w: &buf}
			c.ProbeResult(tt.rec)
			if got := buf.String(); got != tt.want {
				t.Errorf("ProbeResult() line = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConsoleOutput_PacketSeen(t *testing.T) {
	var buf bytes.Buffer
	c := &ConsoleOutput{w: &buf}
	c.PacketSeen(&shared.PacketRecord{
		Index:            7,
		Size:             128,
		ProcessingMicros: 12.5,
		Sender:           "198.51.100.7:33211",
	})

	want := "[000007] From 198.51.100.7:33211 | Size:   128 bytes | Processing:   12.50 µs\n"
	if got := buf.String(); got != want {
		t.Errorf("PacketSeen() line = %q, want %q", got, want)
	}
}

func TestConsoleOutput_Summary(t *testing.T) {
	loss := 20.0
	sd := 123.45
	var buf bytes.Buffer
	c := &ConsoleOutput{w: &buf}
	c.Summary(&shared.RunStats{
		Sent:     10,
		Received: 8,
		LossPct:  &loss,
		RTT: &shared.RTTSummary{
			Min: 245.67, Max: 891.23, Mean: 456.78, Median: 420,
			StdDev: &sd,
			P50:    420, P95: 891.23, P99: 891.23,
		},
	})

	got := buf.String()
	for _, want := range []string{
		"STATISTICS",
		"Packets sent:     10",
		"Packets received: 8",
		"Packet loss:      20.00%",
		"Round-Trip Time (RTT) in microseconds:",
		"Minimum:       245.67 µs",
		"Std Dev:       123.45 µs",
		"50th percentile:     420.00 µs",
		"99th percentile:     891.23 µs",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestConsoleOutput_SummaryNoSamples(t *testing.T) {
	loss := 100.0
	var buf bytes.Buffer
	c := &ConsoleOutput{w: &buf}
	c.Summary(&shared.RunStats{Sent: 5, Received: 0, LossPct: &loss})

	got := buf.String()
	if !strings.Contains(got, "No successful round-trips recorded") {
		t.Errorf("summary missing no-samples line:\n%s", got)
	}
	if strings.Contains(got, "percentile") {
		t.Errorf("summary should not render percentiles without samples:\n%s", got)
	}
}

func TestConsoleOutput_SummaryNoStdDev(t *testing.T) {
	loss := 0.0
	var buf bytes.Buffer
	c := &ConsoleOutput{w: &buf}
	c.Summary(&shared.RunStats{
		Sent:     1,
		Received: 1,
		LossPct:  &loss,
		RTT: &shared.RTTSummary{
			Min: 250, Max: 250, Mean: 250, Median: 250,
			P50: 250, P95: 250, P99: 250,
		},
	})

	if strings.Contains(buf.String(), "Std Dev") {
		t.Errorf("summary should omit Std Dev below two samples:\n%s", buf.String())
	}
}
