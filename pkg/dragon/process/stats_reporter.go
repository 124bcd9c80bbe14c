package process

import (
	"time"

	"github.com/tauraamui/dragoncast/pkg/log"
	"github.com/tauraamui/dragoncast/pkg/transport"
)

const DefaultStatsInterval = 10 * time.Second

type statsReporter struct {
	interval time.Duration
	stats    *Stats
	counters func() transport.Counters
	last     StatsSnapshot
	lastSent transport.Counters
}

// NewStatsReporter logs how the stream did over each interval. counters
// may be nil when there is no sender to report on.
func NewStatsReporter(interval time.Duration, stats *Stats, counters func() transport.Counters) Process {
	if interval <= 0 {
		interval = DefaultStatsInterval
	}
	r := &statsReporter{interval: interval, stats: stats, counters: counters}
	return New(Settings{
		WaitForShutdownMsg: "Stopping stream stats reporter...",
		Process:            Periodic(interval, r.report),
	})
}

func (r *statsReporter) report() {
	now := r.stats.Snapshot()
	delta := now.Sub(r.last)
	r.last = now

	var sent transport.Counters
	if r.counters != nil {
		c := r.counters()
		sent = transport.Counters{
			Packets:    c.Packets - r.lastSent.Packets,
			Bytes:      c.Bytes - r.lastSent.Bytes,
			SendErrors: c.SendErrors - r.lastSent.SendErrors,
		}
		r.lastSent = c
	}

	log.Info(
		"Sent %d frames (%.1f fps) as %d datagrams, %d bytes in the last %s; %d timeouts, %d capture failures, %d encode failures, %d dropped datagrams",
		delta.FramesSent, float64(delta.FramesSent)/r.interval.Seconds(),
		sent.Packets, sent.Bytes, r.interval,
		delta.Timeouts, delta.CaptureFailures, delta.EncodeFailures, sent.SendErrors,
	)
}
