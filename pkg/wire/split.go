package wire

// Split cuts buf into the fragments of frame frameNumber. Payloads alias
// buf. An empty buffer yields no fragments.
//
// The last fragment flag is decided from the bytes left before the
// fragment is taken, so a buffer whose length is an exact multiple of
// maxPayload never has a fragment flagged as last. Deployed receivers
// expect exactly this, keep it.
func Split(buf []byte, frameNumber uint16, maxPayload int) ([]Packet, error) {
	if maxPayload <= 0 || maxPayload > 0xFFFF {
		return nil, ErrInvalidPayload
	}

	count := FragmentCount(len(buf), maxPayload)
	if count > MaxFragments {
		return nil, ErrFrameTooLarge
	}

	packets := make([]Packet, 0, count)
	bytesLeft, offset := len(buf), 0
	var fragmentIndex uint16
	for bytesLeft > 0 {
		payloadSize := bytesLeft
		if payloadSize > maxPayload {
			payloadSize = maxPayload
		}
		last := bytesLeft < maxPayload

		packets = append(packets, Packet{
			Header: Header{
				PayloadSize:   uint16(payloadSize),
				FrameNumber:   frameNumber,
				FragmentIndex: fragmentIndex,
				LastFragment:  last,
			},
			Payload: buf[offset : offset+payloadSize],
		})

		offset += payloadSize
		bytesLeft -= payloadSize
		fragmentIndex++
	}

	return packets, nil
}

// FragmentCount is ceil(length / maxPayload).
func FragmentCount(length, maxPayload int) int {
	if length <= 0 || maxPayload <= 0 {
		return 0
	}
	return (length + maxPayload - 1) / maxPayload
}
