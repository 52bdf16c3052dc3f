package responder

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"udpecho/internal/config"
	"udpecho/internal/output"
	"udpecho/internal/shared"
	"udpecho/internal/wire"
)

// pollInterval bounds each blocking read so a stop request is observed
// between packets even when no traffic arrives.
const pollInterval = 500 * time.Millisecond

// Responder owns the echo endpoint: one socket, the outputs, and a packet
// counter. It keeps no per-sender state and never inspects payloads.
type Responder struct {
	conn *net.UDPConn
	out  output.Output

	stop     chan struct{}
	stopOnce sync.Once

	processed atomic.Uint64
}

// New binds the echo endpoint with address reuse enabled, so a restarted
// responder can reclaim its port while older sockets linger.
func New(args config.ResponderArgs, out output.Output) (*Responder, error) {
	lc := net.ListenConfig{Control: reuseAddr}
	pc, err := lc.ListenPacket(context.Background(), "udp", fmt.Sprintf("%s:%d", args.Bind, args.Port))
	if err != nil {
		return nil, fmt.Errorf("bind %s:%d: %w", args.Bind, args.Port, err)
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return nil, fmt.Errorf("bind %s:%d: unexpected connection type %T", args.Bind, args.Port, pc)
	}
	return &Responder{
		conn: conn,
		out:  out,
		stop: make(chan struct{}),
	}, nil
}

// LocalAddr returns the bound endpoint.
func (r *Responder) LocalAddr() net.Addr {
	return r.conn.LocalAddr()
}

// Processed returns the number of packets received so far.
func (r *Responder) Processed() uint64 {
	return r.processed.Load()
}

// Serve echoes datagrams until Stop. Each packet goes back to its sender
// byte for byte before the next receive; payload content is never
// inspected. Teardown closes the outputs and the socket on every path.
func (r *Responder) Serve() error {
	defer r.conn.Close()
	defer r.closeOutputs()
	defer func() {
		log.WithField("packets", r.Processed()).Info("Responder stopped")
	}()

	log.WithField("listen", r.conn.LocalAddr().String()).Debug("Responder started")

	buf := make([]byte, wire.MaxDatagramSize)
	for {
		select {
		case <-r.stop:
			return nil
		default:
		}

		if err := r.conn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}
		n, sender, err := r.conn.ReadFromUDP(buf)
		recvTime := time.Now()
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.WithError(err).Warn("Receive failed")
			continue
		}
		index := r.processed.Add(1)

		// The packet still counts when the echo send fails; only the
		// reply is lost.
		if _, err := r.conn.WriteToUDP(buf[:n], sender); err != nil {
			log.WithField("sender", sender.String()).WithError(err).Warn("Echo send failed")
		}
		echoTime := time.Now()

		r.out.PacketSeen(newPacketRecord(index, recvTime, echoTime, n, sender))
	}
}

// newPacketRecord renders one received packet as its measurement log row.
func newPacketRecord(index uint64, recvTime, echoTime time.Time, size int, sender *net.UDPAddr) *shared.PacketRecord {
	return &shared.PacketRecord{
		Index:            index,
		RecvEpoch:        wire.EpochSeconds(recvTime),
		RecvTime:         recvTime.Format(shared.TimeLayout),
		EchoEpoch:        wire.EpochSeconds(echoTime),
		EchoTime:         echoTime.Format(shared.TimeLayout),
		ProcessingMicros: float64(echoTime.Sub(recvTime).Nanoseconds()) / 1e3,
		Size:             size,
		Sender:           sender.String(),
	}
}

func (r *Responder) closeOutputs() {
	if err := r.out.Close(); err != nil {
		log.WithError(err).Warn("Failed to close measurement log")
	}
}

// Stop ends the serve loop at the next iteration boundary. Safe to call
// multiple times and from any goroutine.
func (r *Responder) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
}
