package dragon

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/tauraamui/dragoncast/pkg/configdef"
	"github.com/tauraamui/dragoncast/pkg/dragon/process"
	"github.com/tauraamui/dragoncast/pkg/log"
	"github.com/tauraamui/dragoncast/pkg/transport"
	"github.com/tauraamui/dragoncast/pkg/video"
	"github.com/tauraamui/dragoncast/pkg/video/videobackend"
	"github.com/tauraamui/dragoncast/pkg/video/videoencoder"
	"github.com/tauraamui/xerror"
)

const (
	captureBackendEnv = "DRAGON_CAST_CAPTURE_BACKEND"
	encoderBackendEnv = "DRAGON_CAST_ENCODER_BACKEND"
)

type Server struct {
	shutdownDone   chan interface{}
	config         configdef.Values
	captureBackend videobackend.Backend
	encoderBackend videoencoder.Backend
	options        videoencoder.Options

	mu          sync.Mutex
	conn        videobackend.Connection
	encoder     videoencoder.Encoder
	sender      *transport.Sender
	stats       *process.Stats
	coreProcess process.Process
	recorder    *sessionRecorder
	isShutdown  bool
}

// NewServer resolves the configuration and the capture and encoder
// backends it names. Nothing is opened until Connect.
func NewServer(resolver configdef.Resolver) (*Server, error) {
	config, err := resolver.Resolve()
	if err != nil {
		return nil, err
	}

	if name := os.Getenv(captureBackendEnv); len(name) > 0 {
		config.Capture.Backend = name
	}
	if name := os.Getenv(encoderBackendEnv); len(name) > 0 {
		config.Encoder.Backend = name
	}

	captureBackend, err := video.ResolveBackend(config.Capture.Backend)
	if err != nil {
		return nil, err
	}

	encoderBackend, err := video.ResolveEncoder(config.Encoder.Backend)
	if err != nil {
		return nil, err
	}

	subsampling, err := videoencoder.ParseSubsampling(config.Encoder.Subsampling)
	if err != nil {
		return nil, err
	}

	options := videoencoder.Options{Quality: config.Encoder.Quality, Subsampling: subsampling}
	if err := videoencoder.CheckOptions(options); err != nil {
		return nil, err
	}

	return &Server{
		shutdownDone:   make(chan interface{}),
		config:         config,
		captureBackend: captureBackend,
		encoderBackend: encoderBackend,
		options:        options,
		stats:          &process.Stats{},
	}, nil
}

// Connect opens the capture connection, the encoder and the UDP socket.
// Anything opened before a failure is closed again.
func (s *Server) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isShutdown {
		return xerror.New("server has been shut down")
	}

	log.Info("Connecting to capture backend: [%s]...", s.captureBackend.Name())
	conn, err := s.captureBackend.Connect(ctx, s.captureSettings())
	if err != nil {
		return xerror.Errorf("unable to initialise capture: %w", err)
	}

	encoder, err := s.encoderBackend.Open()
	if err != nil {
		conn.Close()
		return xerror.Errorf("unable to initialise encoder: %w", err)
	}

	sender, err := transport.Dial(ctx, transport.Settings{
		Address:         s.config.Destination.Address,
		Port:            s.config.Destination.Port,
		MaxPayloadSize:  s.config.Destination.MaxPayloadSize,
		PadDatagrams:    s.config.Destination.PadDatagrams,
		SendBufferBytes: s.config.Destination.SendBufferBytes,
	})
	if err != nil {
		encoder.Close()
		conn.Close()
		return err
	}

	log.Info("Connected to capture [%s], encoding with [%s]", conn.UUID(), s.encoderBackend.Name())
	s.conn, s.encoder, s.sender = conn, encoder, sender

	if s.config.RecordSessions {
		s.recorder = startSessionRecorder(s.sessionDetails())
	}
	return nil
}

func (s *Server) captureSettings() videobackend.Settings {
	settings := videobackend.Settings{
		SourceElement: s.config.Capture.SourceElement,
		Display:       s.config.Capture.Display,
		ShowPointer:   s.config.Capture.ShowPointer,
		Device:        s.config.Capture.Device,
	}
	if strings.EqualFold(s.captureBackend.Name(), "mock") {
		settings.Width = s.config.Capture.MockWidth
		settings.Height = s.config.Capture.MockHeight
	}
	return settings
}

// Config returns the values the server was built with, backend
// overrides applied.
func (s *Server) Config() configdef.Values {
	return s.config
}

// Stats returns the stream's counters so far.
func (s *Server) Stats() process.StatsSnapshot {
	return s.stats.Snapshot()
}

func (s *Server) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isShutdown {
		return
	}
	s.isShutdown = true

	s.shutdownProcesses()

	var sent transport.Counters
	if s.sender != nil {
		sent = s.sender.Counters()
		if err := s.sender.Close(); err != nil {
			log.Error("Unable to close UDP socket: %v", err)
		}
	}

	if s.recorder != nil {
		s.recorder.finish(s.stats.Snapshot(), sent)
	}

	if s.encoder != nil {
		if err := s.encoder.Close(); err != nil {
			log.Error("Unable to close encoder: %v", err)
		}
	}

	if s.conn != nil {
		log.Warn("Closing capture connection: [%s]...", s.conn.UUID())
		if err := s.conn.Close(); err != nil {
			log.Error("Unable to close capture connection: %v", err)
		}
	}

	close(s.shutdownDone)
}

// Shutdown stops the stream and releases everything Connect opened.
// The returned channel is closed once that is done.
func (s *Server) Shutdown() chan interface{} {
	s.shutdown()
	return s.shutdownDone
}
