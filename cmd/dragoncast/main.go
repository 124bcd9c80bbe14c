package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/takama/daemon"
	"github.com/tauraamui/dragoncast/pkg/config"
	"github.com/tauraamui/dragoncast/pkg/configdef"
	db "github.com/tauraamui/dragoncast/pkg/database"
	"github.com/tauraamui/dragoncast/pkg/dragon"
	"github.com/tauraamui/dragoncast/pkg/log"
)

const (
	loggingLevelEnv = "DRAGON_CAST_LOGGING_LEVEL"

	name        = "dragoncast"
	description = "Dragon cast service which streams the display as JPEG frames over UDP"
)

type Service struct {
	daemon.Daemon
}

// Setup writes the default config and creates the session database.
func (service *Service) Setup() (string, error) {
	log.Info("Setting up dragoncast service...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	err = db.Setup()
	if err != nil {
		if !errors.Is(err, db.ErrDBAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (service *Service) RemoveSetup() (string, error) {
	log.Info("Removing setup for dragoncast service...")
	err := db.Destroy()
	if err != nil {
		log.Error("unable to delete database file: %s", err.Error())
	}

	err = config.DefaultDestroyer().Destroy()
	if err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: dragoncast setup | remove-setup | sessions | install | remove | start | stop | status"

	if len(os.Args) > 1 {
		command := os.Args[1]
		switch command {
		case "setup":
			return service.Setup()
		case "remove-setup":
			return service.RemoveSetup()
		case "sessions":
			return listSessions(os.Stdout)
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	log.Info("Starting dragon cast...")

	server, err := dragon.NewServer(config.DefaultResolver())
	if err != nil {
		log.Fatal(err.Error())
	}
	log.SetLevel(loggingLevel(os.Getenv(loggingLevelEnv), server.Config().Debug))

	ctx, cancelStartup := context.WithCancel(context.Background())
	defer cancelStartup()
	if err := server.Connect(ctx); err != nil {
		log.Fatal(err.Error())
	}
	server.SetupProcesses()
	server.RunProcesses()

	killSignal := <-interrupt
	fmt.Print("\r")
	log.Error("Received signal: %s", killSignal)

	log.Info("Shutting down server...")
	<-server.Shutdown()

	return "Shutdown successful... BYE! 👋", nil
}

// loggingLevel prefers the level named in the environment, falling
// back to debug when the config asks for it.
func loggingLevel(env string, debug bool) string {
	if len(env) == 0 && debug {
		return "debug"
	}
	return env
}

func main() {
	log.SetLevel(os.Getenv(loggingLevelEnv))

	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	log.Info(status)
}
