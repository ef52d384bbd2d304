// cmd/client/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/network"
	"github.com/opd-ai/go-orrery/pkg/render"
	engorender "github.com/opd-ai/go-orrery/pkg/render/engo"
	"github.com/opd-ai/go-orrery/pkg/validation"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	remote := flag.Bool("remote", false, "Watch a running server instead of opening a window")
	serverURL := flag.String("server", "", "Server URL (overrides config, remote only)")
	command := flag.String("command", "", "JSON command to send once connected (remote only)")
	assets := flag.String("assets", "assets", "Texture directory (window only)")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode")
	width := flag.Int("width", 1280, "Window width")
	height := flag.Int("height", 800, "Window height")
	flag.Parse()

	logger := logging.NewLogger()
	ctx := context.Background()

	path := *configPath
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		path = ""
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}

	if *remote {
		if *serverURL != "" {
			cfg.Client.ServerURL = *serverURL
		}
		if err := watch(ctx, cfg.Client, *command, logger); err != nil {
			logger.Error(ctx, "Remote session failed", err)
			os.Exit(1)
		}
		return
	}

	startEngoRenderer(cfg, *assets, *width, *height, *fullscreen, logger)
}

// startEngoRenderer runs a local simulation in an Engo window.
func startEngoRenderer(cfg *config.SystemConfig, assets string, width, height int, fullscreen bool, logger *logging.Logger) {
	sim, err := engine.NewFromConfig(cfg, logger)
	if err != nil {
		logger.Error(context.Background(), "Failed to build solar system", err)
		os.Exit(1)
	}

	loader := render.NewTextureLoader(os.DirFS(assets), logger, render.DefaultMaxFailures, render.DefaultOpenTimeout)
	scene := engorender.NewOrreryScene(sim, loader, logger)

	opts := engo.RunOptions{
		Title:      "Orrery",
		Width:      width,
		Height:     height,
		Fullscreen: fullscreen,
		VSync:      true,
		FPSLimit:   cfg.Simulation.FrameRate,
	}
	engo.Run(opts, scene)
}

// watch follows a server's snapshot stream and prints one status line per
// snapshot until interrupted or the connection is lost for good.
func watch(ctx context.Context, cfg config.ClientConfig, command string, logger *logging.Logger) error {
	eventBus := event.NewEventBus()
	client, err := network.NewClient(cfg, eventBus, logger)
	if err != nil {
		return err
	}

	lost := make(chan struct{}, 1)
	eventBus.Subscribe(network.ClientDisconnected, func(e event.Event) {
		logger.Warn(ctx, "Disconnected from server")
	})
	eventBus.Subscribe(network.ClientReconnected, func(e event.Event) {
		logger.Info(ctx, "Reconnected to server")
	})
	eventBus.Subscribe(network.ClientReconnectFailed, func(e event.Event) {
		select {
		case lost <- struct{}{}:
		default:
		}
	})

	logger.Info(ctx, "Connecting to server", "url", cfg.ServerURL)
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Disconnect()

	if command != "" {
		var req validation.CommandRequest
		if err := json.Unmarshal([]byte(command), &req); err != nil {
			return logging.WrapError(err, "invalid command %q", command)
		}
		resp, err := client.SendCommand(ctx, req)
		if err != nil {
			return err
		}
		logger.Info(ctx, "Command applied", "command", resp.Command, "frame", resp.Frame)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case snap := <-client.Snapshots():
			fmt.Println(statusLine(snap))
		case <-lost:
			return fmt.Errorf("lost connection to %s", cfg.ServerURL)
		case <-sigChan:
			logger.Info(ctx, "Disconnecting from server")
			return nil
		}
	}
}

func statusLine(snap *engine.Snapshot) string {
	state := "paused"
	if snap.Running {
		state = fmt.Sprintf("%gx", snap.Speed)
	}
	line := fmt.Sprintf("frame %d | target %s | %s", snap.Frame, snap.Target, state)
	if craft := snap.Spacecraft; craft != nil && craft.Traveling {
		line += fmt.Sprintf(" | %s %s -> %s %.0f%%", craft.Name, craft.From, craft.To, craft.Progress*100)
	}
	return line
}
