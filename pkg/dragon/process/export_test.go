package process

import "time"

func OverloadPace(overload func(time.Duration)) func() {
	paceRef := pace
	pace = overload
	return func() { pace = paceRef }
}

// Cycle runs a single capture, encode and send pass of a stream process.
func Cycle(p Process) {
	p.(*streamProcess).cycle()
}

func FrameNumber(p Process) uint16 {
	return p.(*streamProcess).frameNumber
}
