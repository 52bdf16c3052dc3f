package output

import (
	"encoding/json"
	"os"
	"sync"

	"udpecho/internal/shared"
)

// JSONOutput writes one JSON object per line, either to a file or to
// stdout. Rows appear in event order; for a prober run the summary is the
// final row of the stream.
type JSONOutput struct {
	mu       sync.Mutex
	file     *os.File
	enc      *json.Encoder
	toStdout bool
}

// NewJSONOutput creates a sink writing to filename, or to stdout when
// filename is empty.
func NewJSONOutput(filename string) (*JSONOutput, error) {
	if filename == "" {
		// Output to stdout
		return &JSONOutput{
			file:     os.Stdout,
			enc:      json.NewEncoder(os.Stdout),
			toStdout: true,
		}, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONOutput{
		file:     f,
		enc:      json.NewEncoder(f),
		toStdout: false,
	}, nil
}

func (j *JSONOutput) ProbeResult(rec *shared.ProbeRecord) {
	j.write(rec)
}

func (j *JSONOutput) PacketSeen(rec *shared.PacketRecord) {
	j.write(rec)
}

func (j *JSONOutput) Summary(stats *shared.RunStats) {
	j.write(stats)
}

func (j *JSONOutput) write(v any) {
	j.mu.Lock()
	defer j.mu.Unlock()

	_ = j.enc.Encode(v)
}

func (j *JSONOutput) Close() error {
	if j.toStdout {
		return nil
	}
	return j.file.Close()
}
