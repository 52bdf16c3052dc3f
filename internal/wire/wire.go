// Package wire defines the probe payload carried between prober and
// responder.
//
// Every probe starts with a fixed 12-byte header:
//
//	bytes 0..3   sequence number, big-endian unsigned 32-bit
//	bytes 4..11  send timestamp, big-endian IEEE-754 float64,
//	             fractional seconds since the Unix epoch
//
// followed by filler bytes up to the configured probe size. The responder
// never interprets this layout and echoes bytes verbatim; the header exists
// so a reply or a capture can be traced back to the probe that caused it.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

const (
	// HeaderSize is the fixed probe header: sequence plus timestamp.
	HeaderSize = 12
	// MinProbeSize is the smallest valid probe payload (header only).
	MinProbeSize = HeaderSize
	// MaxProbeSize is the largest payload a single IPv4 UDP datagram can
	// carry (65535 minus IP and UDP headers).
	MaxProbeSize = 65507
	// MaxDatagramSize bounds receive buffers.
	MaxDatagramSize = 65535
	// Filler pads probe payloads beyond the header.
	Filler = 'x'
)

// Encode builds a probe payload of exactly size bytes for the given
// sequence number and send timestamp.
func Encode(seq uint32, sent time.Time, size int) ([]byte, error) {
	if size < MinProbeSize {
		return nil, fmt.Errorf("probe size %d below minimum %d", size, MinProbeSize)
	}
	b := make([]byte, size)
	binary.BigEndian.PutUint32(b[0:4], seq)
	binary.BigEndian.PutUint64(b[4:12], math.Float64bits(EpochSeconds(sent)))
	for i := HeaderSize; i < size; i++ {
		b[i] = Filler
	}
	return b, nil
}

// Decode extracts the sequence number and send timestamp from a probe
// payload. Filler bytes are ignored.
func Decode(b []byte) (uint32, time.Time, error) {
	if len(b) < HeaderSize {
		return 0, time.Time{}, fmt.Errorf("payload is %d bytes, need at least %d", len(b), HeaderSize)
	}
	seq := binary.BigEndian.Uint32(b[0:4])
	epoch := math.Float64frombits(binary.BigEndian.Uint64(b[4:12]))
	return seq, TimeFromEpoch(epoch), nil
}

// EpochSeconds converts t to fractional seconds since the Unix epoch, the
// timestamp representation used on the wire and in log rows.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// TimeFromEpoch is the inverse of EpochSeconds.
func TimeFromEpoch(epoch float64) time.Time {
	sec, frac := math.Modf(epoch)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}
