package process

import "sync"

// NewCoreProcess runs the frame stream alongside its stats reporter,
// starting and stopping them together. reporter may be nil.
func NewCoreProcess(stream, reporter Process) Process {
	return &castProcess{stream: stream, reporter: reporter}
}

type castProcess struct {
	stream   Process
	reporter Process
}

func (proc *castProcess) Setup() Process {
	proc.stream.Setup()
	if proc.reporter != nil {
		proc.reporter.Setup()
	}
	return proc
}

func (proc *castProcess) Start() {
	if proc.reporter != nil {
		proc.reporter.Start()
	}
	proc.stream.Start()
}

func (proc *castProcess) Stop() {
	proc.stream.Stop()
	if proc.reporter != nil {
		proc.reporter.Stop()
	}
}

func (proc *castProcess) Wait() {
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func(wg *sync.WaitGroup) {
		proc.stream.Wait()
		wg.Done()
	}(&wg)
	if proc.reporter != nil {
		wg.Add(1)
		go func(wg *sync.WaitGroup) {
			proc.reporter.Wait()
			wg.Done()
		}(&wg)
	}
	wg.Wait()
}
