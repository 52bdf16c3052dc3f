// Package shared holds the record and summary types common to the prober,
// the responder, and anything that consumes their logs. Field order and
// names in the JSON output are part of the log contract.
package shared

// TimeLayout renders wall-clock fields in log rows with microsecond
// precision, the resolution this tooling measures at.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Status classifies the outcome of one probe attempt. Every attempt ends
// in exactly one of the three states.
type Status string

const (
	// StatusOK means a reply arrived within the receive timeout.
	StatusOK Status = "ok"
	// StatusTimeout means no reply arrived within the receive timeout.
	StatusTimeout Status = "timeout"
	// StatusError means the transport reported a failure on send or
	// receive, such as an unreachable destination.
	StatusError Status = "error"
)

// ProbeRecord is one prober log row. Exactly one row exists per sent probe
// regardless of outcome; optional fields are present only when the outcome
// provides them, never as zero placeholders.
type ProbeRecord struct {
	Sequence     uint32   `json:"sequence"`
	Status       Status   `json:"status"`
	SendEpoch    float64  `json:"send_epoch"`
	SendTime     string   `json:"send_time"`
	RecvEpoch    *float64 `json:"recv_epoch,omitempty"`
	RecvTime     string   `json:"recv_time,omitempty"`
	RTTMicros    *float64 `json:"rtt_us,omitempty"`
	ResponseSize *int     `json:"response_size,omitempty"`
	Responder    string   `json:"responder,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// PacketRecord is one responder log row, one per received datagram.
// Processing time spans receipt to completion of the echo send.
type PacketRecord struct {
	Index            uint64  `json:"index"`
	RecvEpoch        float64 `json:"recv_epoch"`
	RecvTime         string  `json:"recv_time"`
	EchoEpoch        float64 `json:"echo_epoch"`
	EchoTime         string  `json:"echo_time"`
	ProcessingMicros float64 `json:"processing_us"`
	Size             int     `json:"size"`
	Sender           string  `json:"sender"`
}

// RTTSummary aggregates the successful round-trip samples of a run, in
// microseconds. StdDev is the sample standard deviation and is omitted
// below two samples rather than reported as zero.
type RTTSummary struct {
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	StdDev *float64 `json:"stddev,omitempty"`
	P50    float64  `json:"p50"`
	P95    float64  `json:"p95"`
	P99    float64  `json:"p99"`
}

// RunStats is the end-of-run summary. LossPct is omitted when nothing was
// sent; RTT is omitted when no probe completed.
type RunStats struct {
	Sent     int         `json:"sent_count"`
	Received int         `json:"received_count"`
	LossPct  *float64    `json:"loss_rate_percent,omitempty"`
	RTT      *RTTSummary `json:"rtt_us,omitempty"`
}
