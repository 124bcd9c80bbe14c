// Package wire defines the datagram layout frames are streamed in.
//
// Each datagram carries a fixed 7 byte big-endian header followed by
// a fragment of one encoded frame:
//
//	0      2      4        6     7
//	+------+------+--------+-----+---------------------+
//	| size | frm# | frag#  | lst | payload (size bytes)|
//	+------+------+--------+-----+---------------------+
//
// Receivers group fragments by frame number and order them by fragment
// index, arrival order carries no meaning.
package wire

import (
	"encoding/binary"

	"github.com/tauraamui/xerror"
)

const (
	HeaderSize     = 7
	MaxPayloadSize = 1300
	// MaxDatagramSize is the largest datagram produced with the default
	// payload size.
	MaxDatagramSize = HeaderSize + MaxPayloadSize
	// MaxFragments is how many fragments a 16 bit index can address.
	MaxFragments = 1 << 16
)

var (
	ErrShortDatagram  = xerror.New("datagram shorter than header")
	ErrShortPayload   = xerror.New("datagram shorter than declared payload size")
	ErrShortBuffer    = xerror.New("destination buffer too small for packet")
	ErrFrameTooLarge  = xerror.New("frame needs more fragments than a 16 bit index can address")
	ErrInvalidPayload = xerror.New("max payload size must be between 1 and 65535")
)

type Header struct {
	PayloadSize   uint16
	FrameNumber   uint16
	FragmentIndex uint16
	LastFragment  bool
}

// Put writes the header into the first HeaderSize bytes of b.
func (h Header) Put(b []byte) {
	_ = b[HeaderSize-1]
	binary.BigEndian.PutUint16(b[0:2], h.PayloadSize)
	binary.BigEndian.PutUint16(b[2:4], h.FrameNumber)
	binary.BigEndian.PutUint16(b[4:6], h.FragmentIndex)
	b[6] = 0
	if h.LastFragment {
		b[6] = 1
	}
}

func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortDatagram
	}
	return Header{
		PayloadSize:   binary.BigEndian.Uint16(b[0:2]),
		FrameNumber:   binary.BigEndian.Uint16(b[2:4]),
		FragmentIndex: binary.BigEndian.Uint16(b[4:6]),
		LastFragment:  b[6] != 0,
	}, nil
}

type Packet struct {
	Header
	Payload []byte
}

// Len is the unpadded size of the packet on the wire.
func (p Packet) Len() int {
	return HeaderSize + len(p.Payload)
}

// MarshalTo encodes the packet into b and returns the bytes used.
func (p Packet) MarshalTo(b []byte) (int, error) {
	n := p.Len()
	if len(b) < n {
		return 0, ErrShortBuffer
	}
	p.Header.Put(b)
	copy(b[HeaderSize:], p.Payload)
	return n, nil
}

func (p Packet) MarshalBinary() ([]byte, error) {
	b := make([]byte, p.Len())
	_, err := p.MarshalTo(b)
	return b, err
}

// Unmarshal parses a datagram. Bytes beyond the declared payload size
// are treated as padding and dropped. The payload aliases b.
func Unmarshal(b []byte) (Packet, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return Packet{}, err
	}

	end := HeaderSize + int(h.PayloadSize)
	if len(b) < end {
		return Packet{}, xerror.Errorf("%w: want %d got %d", ErrShortPayload, h.PayloadSize, len(b)-HeaderSize)
	}

	return Packet{Header: h, Payload: b[HeaderSize:end]}, nil
}
