package probe

import (
	"net"
	"time"

	"udpecho/internal/shared"
	"udpecho/internal/wire"
)

// Outcome is the classified result of one probe attempt. RTTMicros,
// ResponseSize and Responder are meaningful only for StatusOK; Err only
// for StatusError.
type Outcome struct {
	Seq          uint32
	Status       shared.Status
	SendTime     time.Time
	RecvTime     time.Time
	RTTMicros    float64
	ResponseSize int
	Responder    *net.UDPAddr
	Err          error
}

func okOutcome(seq uint32, sendTime, recvTime time.Time, size int, from *net.UDPAddr) Outcome {
	return Outcome{
		Seq:          seq,
		Status:       shared.StatusOK,
		SendTime:     sendTime,
		RecvTime:     recvTime,
		RTTMicros:    float64(recvTime.Sub(sendTime).Nanoseconds()) / 1e3,
		ResponseSize: size,
		Responder:    from,
	}
}

func timeoutOutcome(seq uint32, sendTime time.Time) Outcome {
	return Outcome{
		Seq:      seq,
		Status:   shared.StatusTimeout,
		SendTime: sendTime,
	}
}

func errorOutcome(seq uint32, sendTime time.Time, err error) Outcome {
	return Outcome{
		Seq:      seq,
		Status:   shared.StatusError,
		SendTime: sendTime,
		Err:      err,
	}
}

// Record renders the outcome as its measurement log row. Fields a status
// does not define stay absent rather than zero.
func (o Outcome) Record() *shared.ProbeRecord {
	rec := &shared.ProbeRecord{
		Sequence:  o.Seq,
		Status:    o.Status,
		SendEpoch: wire.EpochSeconds(o.SendTime),
		SendTime:  o.SendTime.Format(shared.TimeLayout),
	}
	switch o.Status {
	case shared.StatusOK:
		recvEpoch := wire.EpochSeconds(o.RecvTime)
		rtt := o.RTTMicros
		size := o.ResponseSize
		rec.RecvEpoch = &recvEpoch
		rec.RecvTime = o.RecvTime.Format(shared.TimeLayout)
		rec.RTTMicros = &rtt
		rec.ResponseSize = &size
		rec.Responder = o.Responder.String()
	case shared.StatusError:
		rec.Error = o.Err.Error()
	}
	return rec
}
