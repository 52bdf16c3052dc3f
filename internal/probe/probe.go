package probe

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"udpecho/internal/config"
	"udpecho/internal/output"
	"udpecho/internal/shared"
	"udpecho/internal/wire"
)

// ReadTimeout bounds the wait for each echoed reply. A probe with no
// reply inside this window counts as lost; there are no retries.
const ReadTimeout = 2 * time.Second

// Prober owns one measurement run: the connected socket, the outputs, and
// the running counters. Probes move strictly one at a time; a new probe
// never leaves before the previous outcome is recorded.
type Prober struct {
	server   *net.UDPAddr
	conn     *net.UDPConn
	count    uint
	size     uint
	interval time.Duration

	out output.Output

	stop     chan struct{}
	stopOnce sync.Once

	sent int
	rtts []float64
	buf  []byte
}

// New resolves the server endpoint and opens the probe socket. The socket
// is connected, so a transport failure such as an unreachable port
// surfaces as a per-probe error where the platform reports one.
func New(args config.ProberArgs, out output.Output) (*Prober, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", args.Server, args.Port))
	if err != nil {
		return nil, fmt.Errorf("resolve %s:%d: %w", args.Server, args.Port, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Prober{
		server:   addr,
		conn:     conn,
		count:    args.Count,
		size:     args.Size,
		interval: args.Interval,
		out:      out,
		stop:     make(chan struct{}),
		buf:      make([]byte, wire.MaxDatagramSize),
	}, nil
}

// Target returns the resolved server endpoint.
func (p *Prober) Target() string {
	return p.server.String()
}

// Run sends the configured probe stream. Whatever ends the run, the
// summary is emitted, the outputs are closed, and the socket is released,
// in that order.
func (p *Prober) Run() error {
	defer p.conn.Close()
	defer p.closeOutputs()
	defer p.finish()

	log.WithFields(log.Fields{
		"target":   p.server.String(),
		"count":    p.count,
		"size":     p.size,
		"interval": p.interval,
	}).Debug("Starting probe run")

	for n := uint(1); n <= p.count; n++ {
		select {
		case <-p.stop:
			log.Debug("Stop requested, ending run")
			return nil
		default:
		}

		p.probeOnce(uint32(n))

		// Pace the stream. No wait after the final probe, and Stop
		// cuts the wait short.
		if n < p.count && p.interval > 0 {
			select {
			case <-p.stop:
				log.Debug("Stop requested during interval, ending run")
				return nil
			case <-time.After(p.interval):
			}
		}
	}
	return nil
}

// probeOnce sends one probe and records its outcome. Every attempt
// produces exactly one row, whatever the transport does.
func (p *Prober) probeOnce(seq uint32) {
	p.sent++
	o := p.attempt(seq)
	if o.Status == shared.StatusOK {
		p.rtts = append(p.rtts, o.RTTMicros)
	}
	p.out.ProbeResult(o.Record())
}

// attempt performs the send and receive exchange for one sequence number.
func (p *Prober) attempt(seq uint32) Outcome {
	payload, err := wire.Encode(seq, time.Now(), int(p.size))
	if err != nil {
		return errorOutcome(seq, time.Now(), err)
	}

	sendTime := time.Now()
	if _, err := p.conn.Write(payload); err != nil {
		log.WithField("seq", seq).WithError(err).Debug("Send failed")
		return errorOutcome(seq, sendTime, err)
	}

	if err := p.conn.SetReadDeadline(sendTime.Add(ReadTimeout)); err != nil {
		return errorOutcome(seq, sendTime, err)
	}
	n, from, err := p.conn.ReadFromUDP(p.buf)
	recvTime := time.Now()
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return timeoutOutcome(seq, sendTime)
		}
		log.WithField("seq", seq).WithError(err).Debug("Receive failed")
		return errorOutcome(seq, sendTime, err)
	}
	if from == nil {
		from = p.server
	}
	return okOutcome(seq, sendTime, recvTime, n, from)
}

// finish computes and emits the end-of-run summary. It runs on every exit
// path, cancellation included.
func (p *Prober) finish() {
	stats := shared.ComputeRunStats(p.sent, p.rtts)
	p.out.Summary(stats)
	log.WithFields(log.Fields{
		"sent":     stats.Sent,
		"received": stats.Received,
	}).Info("Probe run complete")
}

func (p *Prober) closeOutputs() {
	if err := p.out.Close(); err != nil {
		log.WithError(err).Warn("Failed to close measurement log")
	}
}

// Stop ends the run after the probe in flight completes. Safe to call
// multiple times and from any goroutine.
func (p *Prober) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}
