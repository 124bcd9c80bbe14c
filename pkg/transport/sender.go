package transport

import (
	"context"
	"net"
	"strconv"
	"sync/atomic"

	"github.com/tauraamui/dragoncast/pkg/log"
	"github.com/tauraamui/dragoncast/pkg/wire"
	"github.com/tauraamui/xerror"
)

// PacketConn is the part of net.PacketConn the sender writes through.
type PacketConn interface {
	WriteTo([]byte, net.Addr) (int, error)
	Close() error
}

type Settings struct {
	Address         string
	Port            int
	MaxPayloadSize  int
	PadDatagrams    bool
	SendBufferBytes int
}

// Counters are running totals of what a sender put on the wire.
type Counters struct {
	Packets    uint64
	Bytes      uint64
	SendErrors uint64
}

// Sender fragments encoded frames and writes each fragment once to a
// destination fixed at construction. Delivery is never confirmed.
// A Sender is not safe for concurrent use.
type Sender struct {
	conn         PacketConn
	dest         net.Addr
	maxPayload   int
	padDatagrams bool
	datagram     []byte

	packets    uint64
	bytes      uint64
	sendErrors uint64
}

// Dial opens an unconnected UDP socket and binds a sender to the
// configured destination.
func Dial(ctx context.Context, settings Settings) (*Sender, error) {
	dest, err := resolveUDPAddr(net.JoinHostPort(settings.Address, strconv.Itoa(settings.Port)))
	if err != nil {
		return nil, xerror.Errorf("unable to resolve stream destination: %w", err)
	}

	lc := net.ListenConfig{Control: socketControl(settings.SendBufferBytes)}
	conn, err := listenPacket(ctx, lc, "udp", ":0")
	if err != nil {
		return nil, xerror.Errorf("unable to create UDP socket: %w", err)
	}

	sender, err := New(conn, dest, settings.MaxPayloadSize, settings.PadDatagrams)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return sender, nil
}

var resolveUDPAddr = func(addr string) (net.Addr, error) {
	return net.ResolveUDPAddr("udp", addr)
}

var listenPacket = func(ctx context.Context, lc net.ListenConfig, network, addr string) (PacketConn, error) {
	return lc.ListenPacket(ctx, network, addr)
}

func New(conn PacketConn, dest net.Addr, maxPayload int, padDatagrams bool) (*Sender, error) {
	if maxPayload <= 0 || maxPayload > 0xFFFF {
		return nil, wire.ErrInvalidPayload
	}
	return &Sender{
		conn:         conn,
		dest:         dest,
		maxPayload:   maxPayload,
		padDatagrams: padDatagrams,
		datagram:     make([]byte, wire.HeaderSize+maxPayload),
	}, nil
}

// Send writes every fragment of buf tagged with frameNumber and returns
// how many fragments were written. Failed writes are only counted; the
// single error returned is for a buffer too large to fragment.
func (s *Sender) Send(buf []byte, frameNumber uint16) (int, error) {
	packets, err := wire.Split(buf, frameNumber, s.maxPayload)
	if err != nil {
		return 0, err
	}

	for _, p := range packets {
		n, err := p.MarshalTo(s.datagram)
		if err != nil {
			return 0, err
		}

		if s.padDatagrams {
			clear(s.datagram[n:])
			n = len(s.datagram)
		}

		written, err := s.conn.WriteTo(s.datagram[:n], s.dest)
		if err != nil {
			atomic.AddUint64(&s.sendErrors, 1)
			log.Debug("Dropped fragment %d of frame %d: %v", p.FragmentIndex, frameNumber, err)
			continue
		}
		atomic.AddUint64(&s.packets, 1)
		atomic.AddUint64(&s.bytes, uint64(written))
	}

	return len(packets), nil
}

func (s *Sender) Destination() string {
	return s.dest.String()
}

func (s *Sender) Counters() Counters {
	return Counters{
		Packets:    atomic.LoadUint64(&s.packets),
		Bytes:      atomic.LoadUint64(&s.bytes),
		SendErrors: atomic.LoadUint64(&s.sendErrors),
	}
}

func (s *Sender) Close() error {
	return s.conn.Close()
}
