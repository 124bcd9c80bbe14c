package dragon

import "github.com/tauraamui/dragoncast/pkg/dragon/process"

func (s *Server) SetupProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || s.coreProcess != nil {
		return
	}

	stream := process.NewStreamProcess(process.StreamSettings{
		Conn:           s.conn,
		Encoder:        s.encoder,
		Options:        s.options,
		Sender:         s.sender,
		AcquireTimeout: s.config.Capture.AcquireTimeout(),
		PacingInterval: s.config.PacingInterval(),
		Stats:          s.stats,
	})

	var reporter process.Process
	if s.config.StatsIntervalS > 0 {
		reporter = process.NewStatsReporter(s.config.StatsInterval(), s.stats, s.sender.Counters)
	}

	s.coreProcess = process.NewCoreProcess(stream, reporter).Setup()
}

func (s *Server) RunProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coreProcess != nil {
		s.coreProcess.Start()
	}
}

func (s *Server) shutdownProcesses() {
	if s.coreProcess == nil {
		return
	}
	s.coreProcess.Stop()
	s.coreProcess.Wait()
}
