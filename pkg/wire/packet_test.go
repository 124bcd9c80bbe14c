package wire_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/dragoncast/pkg/wire"
)

func TestHeaderPutIsBigEndian(t *testing.T) {
	is := is.New(t)

	b := make([]byte, wire.HeaderSize)
	wire.Header{PayloadSize: 0x0514, FrameNumber: 0xBEEF, FragmentIndex: 0x0102, LastFragment: true}.Put(b)
	is.Equal(b, []byte{0x05, 0x14, 0xBE, 0xEF, 0x01, 0x02, 0x01})

	wire.Header{PayloadSize: 1, LastFragment: false}.Put(b)
	is.Equal(b, []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00})
}

func TestParseHeaderTreatsAnyNonZeroAsLast(t *testing.T) {
	is := is.New(t)

	h, err := wire.ParseHeader([]byte{0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0xFF})
	is.NoErr(err)
	is.Equal(h, wire.Header{PayloadSize: 2, FrameNumber: 3, FragmentIndex: 4, LastFragment: true})
}

func TestParseHeaderRejectsShortInput(t *testing.T) {
	is := is.New(t)

	_, err := wire.ParseHeader([]byte{0x00, 0x01})
	is.Equal(err, wire.ErrShortDatagram)
}

func TestPacketMarshalThenUnmarshalKeepsPayload(t *testing.T) {
	is := is.New(t)

	p := wire.Packet{
		Header:  wire.Header{PayloadSize: 3, FrameNumber: 65535, FragmentIndex: 12},
		Payload: []byte{0xFF, 0xD8, 0xFF},
	}
	b, err := p.MarshalBinary()
	is.NoErr(err)
	is.Equal(len(b), 10)

	got, err := wire.Unmarshal(b)
	is.NoErr(err)
	is.Equal(got.Header, p.Header)
	is.Equal(got.Payload, p.Payload)
}

func TestUnmarshalIgnoresTrailingPadding(t *testing.T) {
	is := is.New(t)

	b := make([]byte, wire.MaxDatagramSize)
	wire.Header{PayloadSize: 2, LastFragment: true}.Put(b)
	b[7], b[8] = 0xAA, 0xBB

	got, err := wire.Unmarshal(b)
	is.NoErr(err)
	is.Equal(got.Payload, []byte{0xAA, 0xBB})
}

func TestUnmarshalRejectsTruncatedPayload(t *testing.T) {
	is := is.New(t)

	b := make([]byte, wire.HeaderSize+1)
	wire.Header{PayloadSize: 5}.Put(b)

	_, err := wire.Unmarshal(b)
	is.True(errors.Is(err, wire.ErrShortPayload))
	is.Equal(err.Error(), "datagram shorter than declared payload size: want 5 got 1")
}

func TestMarshalToRejectsSmallBuffer(t *testing.T) {
	is := is.New(t)

	p := wire.Packet{Header: wire.Header{PayloadSize: 4}, Payload: make([]byte, 4)}
	_, err := p.MarshalTo(make([]byte, 8))
	is.Equal(err, wire.ErrShortBuffer)
}
