package process

import (
	"context"
	"time"

	"github.com/tauraamui/dragoncast/pkg/log"
)

type Process interface {
	Setup() Process
	Start()
	Stop()
	Wait()
}

// Settings describe a process built from a plain function. Process is
// handed a context cancelled by Stop and returns the channels Wait
// blocks on, each closed once its goroutine has returned.
type Settings struct {
	WaitForShutdownMsg string
	Process            func(context.Context) []chan interface{}
}

func New(settings Settings) Process {
	return &process{
		waitForShutdownMsg: settings.WaitForShutdownMsg,
		process:            settings.Process,
	}
}

type process struct {
	process            func(context.Context) []chan interface{}
	waitForShutdownMsg string
	canceller          context.CancelFunc
	signals            []chan interface{}
}

func (p *process) logShutdown() {
	if len(p.waitForShutdownMsg) > 0 {
		log.Info(p.waitForShutdownMsg)
	}
}

func (p *process) Setup() Process { return p }

func (p *process) Start() {
	ctx, canceller := context.WithCancel(context.Background())
	p.canceller = canceller
	p.signals = append(p.signals, p.process(ctx)...)
}

func (p *process) Stop() {
	p.logShutdown()
	if p.canceller != nil {
		p.canceller()
	}
}

func (p *process) Wait() {
	for _, sig := range p.signals {
		<-sig
	}
}

// Periodic builds a process body calling tick every interval until
// the process is stopped.
func Periodic(interval time.Duration, tick func()) func(context.Context) []chan interface{} {
	return func(cancel context.Context) []chan interface{} {
		stopping := make(chan interface{})
		go func(cancel context.Context, stopping chan interface{}) {
			defer close(stopping)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-cancel.Done():
					return
				case <-ticker.C:
					tick()
				}
			}
		}(cancel, stopping)
		return []chan interface{}{stopping}
	}
}
