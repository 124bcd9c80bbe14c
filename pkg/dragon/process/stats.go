package process

import "sync/atomic"

// Stats are the stream loop's running counters. The loop writes them,
// the stats reporter and shutdown path read them.
type Stats struct {
	framesCaptured  uint64
	framesSent      uint64
	fragmentsSent   uint64
	encodedBytes    uint64
	timeouts        uint64
	captureFailures uint64
	encodeFailures  uint64
	sendFailures    uint64
}

type StatsSnapshot struct {
	FramesCaptured  uint64
	FramesSent      uint64
	FragmentsSent   uint64
	EncodedBytes    uint64
	Timeouts        uint64
	CaptureFailures uint64
	EncodeFailures  uint64
	SendFailures    uint64
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		FramesCaptured:  atomic.LoadUint64(&s.framesCaptured),
		FramesSent:      atomic.LoadUint64(&s.framesSent),
		FragmentsSent:   atomic.LoadUint64(&s.fragmentsSent),
		EncodedBytes:    atomic.LoadUint64(&s.encodedBytes),
		Timeouts:        atomic.LoadUint64(&s.timeouts),
		CaptureFailures: atomic.LoadUint64(&s.captureFailures),
		EncodeFailures:  atomic.LoadUint64(&s.encodeFailures),
		SendFailures:    atomic.LoadUint64(&s.sendFailures),
	}
}

// Sub returns the change in every counter since prev.
func (snap StatsSnapshot) Sub(prev StatsSnapshot) StatsSnapshot {
	return StatsSnapshot{
		FramesCaptured:  snap.FramesCaptured - prev.FramesCaptured,
		FramesSent:      snap.FramesSent - prev.FramesSent,
		FragmentsSent:   snap.FragmentsSent - prev.FragmentsSent,
		EncodedBytes:    snap.EncodedBytes - prev.EncodedBytes,
		Timeouts:        snap.Timeouts - prev.Timeouts,
		CaptureFailures: snap.CaptureFailures - prev.CaptureFailures,
		EncodeFailures:  snap.EncodeFailures - prev.EncodeFailures,
		SendFailures:    snap.SendFailures - prev.SendFailures,
	}
}
