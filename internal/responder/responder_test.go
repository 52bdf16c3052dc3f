package responder

import (
	"bytes"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"udpecho/internal/config"
	"udpecho/internal/output"
	"udpecho/internal/shared"
)

// packetRecorder captures responder rows.
type packetRecorder struct {
	mu   sync.Mutex
	rows []*shared.PacketRecord
}

func (p *packetRecorder) ProbeResult(*shared.ProbeRecord) {}

func (p *packetRecorder) PacketSeen(rec *shared.PacketRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = append(p.rows, rec)
}

func (p *packetRecorder) Summary(*shared.RunStats) {}

func (p *packetRecorder) Close() error { return nil }

func (p *packetRecorder) snapshot() []*shared.PacketRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*shared.PacketRecord(nil), p.rows...)
}

// startResponder serves on an ephemeral loopback port until test cleanup.
func startResponder(t *testing.T, out output.Output) *Responder {
	t.Helper()
	r, err := New(config.ResponderArgs{Bind: "127.0.0.1", Port: 0}, out)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- r.Serve() }()
	t.Cleanup(func() {
		r.Stop()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("Serve did not stop")
		}
	})
	return r
}

func TestResponder_EchoesVerbatim(t *testing.T) {
	rec := &packetRecorder{}
	r := startResponder(t, rec)

	client, err := net.DialUDP("udp", nil, r.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)
	defer client.Close()

	payloads := [][]byte{
		[]byte("hello"), // shorter than a probe header, still echoed
		bytes.Repeat([]byte{0x00}, 12),
		bytes.Repeat([]byte{0xab}, 64),
		append([]byte{0, 0, 0, 1}, bytes.Repeat([]byte{'x'}, 1020)...),
		bytes.Repeat([]byte{0x7f}, 4096),
	}

	reply := make([]byte, 65535)
	for i, payload := range payloads {
		_, err := client.Write(payload)
		require.NoError(t, err, "payload %d", i)

		require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, err := client.Read(reply)
		require.NoError(t, err, "payload %d", i)
		require.Equal(t, payload, reply[:n], "payload %d must echo verbatim", i)
	}

	require.Equal(t, uint64(len(payloads)), r.Processed())

	// Rows land just after the echo send; wait for the last one.
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == len(payloads)
	}, 2*time.Second, 10*time.Millisecond)

	clientAddr := client.LocalAddr().String()
	for i, row := range rec.snapshot() {
		require.Equal(t, uint64(i+1), row.Index, "indices follow arrival order")
		require.Equal(t, len(payloads[i]), row.Size)
		require.Equal(t, clientAddr, row.Sender)
		require.GreaterOrEqual(t, row.ProcessingMicros, 0.0)
		require.GreaterOrEqual(t, row.EchoEpoch, row.RecvEpoch)
		require.NotEmpty(t, row.RecvTime)
		require.NotEmpty(t, row.EchoTime)
	}
}

func TestResponder_MultipleSenders(t *testing.T) {
	rec := &packetRecorder{}
	r := startResponder(t, rec)
	addr := r.LocalAddr().(*net.UDPAddr)

	first, err := net.DialUDP("udp", nil, addr)
	require.NoError(t, err)
	defer first.Close()
	second, err := net.DialUDP("udp", nil, addr)
	require.NoError(t, err)
	defer second.Close()

	_, err = first.Write([]byte("from-first"))
	require.NoError(t, err)
	_, err = second.Write([]byte("from-second"))
	require.NoError(t, err)

	// Each reply goes to the packet's own sender.
	buf := make([]byte, 64)
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, err := first.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "from-first", string(buf[:n]))

	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, err = second.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "from-second", string(buf[:n]))
}

func TestResponder_StopWithoutTraffic(t *testing.T) {
	r, err := New(config.ResponderArgs{Bind: "127.0.0.1", Port: 0}, &output.OutputManager{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- r.Serve() }()

	time.Sleep(50 * time.Millisecond)
	r.Stop()
	r.Stop() // idempotent

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not observe stop")
	}
	require.Equal(t, uint64(0), r.Processed())
}

func TestNew_BadBind(t *testing.T) {
	_, err := New(config.ResponderArgs{Bind: "127.0.0.1:80", Port: 5005}, &output.OutputManager{})
	require.Error(t, err)
}
