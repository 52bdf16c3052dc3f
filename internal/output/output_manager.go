package output

import "udpecho/internal/shared"

// Output receives measurement events as they happen. Implementations
// ignore events outside their role: a prober run never produces
// PacketSeen, a responder run never produces ProbeResult or Summary.
type Output interface {
	ProbeResult(rec *shared.ProbeRecord)
	PacketSeen(rec *shared.PacketRecord)
	Summary(stats *shared.RunStats)
	Close() error
}

// OutputManager fans events out to every registered output. It satisfies
// Output itself so engines can treat one sink and many alike.
type OutputManager struct {
	outputs []Output
}

func (om *OutputManager) Register(o Output) {
	om.outputs = append(om.outputs, o)
}

func (om *OutputManager) ProbeResult(rec *shared.ProbeRecord) {
	for _, o := range om.outputs {
		o.ProbeResult(rec)
	}
}

func (om *OutputManager) PacketSeen(rec *shared.PacketRecord) {
	for _, o := range om.outputs {
		o.PacketSeen(rec)
	}
}

func (om *OutputManager) Summary(stats *shared.RunStats) {
	for _, o := range om.outputs {
		o.Summary(stats)
	}
}

// Close closes every registered output and reports the first failure.
func (om *OutputManager) Close() error {
	var firstErr error
	for _, o := range om.outputs {
		if err := o.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
