package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/nstehr/prospector/agent"
	"github.com/nstehr/prospector/config"
	"github.com/nstehr/prospector/ipc"
	"github.com/nstehr/prospector/model"
	"github.com/nstehr/prospector/replay"
	"github.com/nstehr/prospector/sandbox"
)

const banner = `
 ___ ___  ___  ___ ___  ___ ___ _____ ___  ___
| _ \ _ \/ _ \/ __| _ \/ __/ __|_   _/ _ \| _ \
|  _/   / (_) \__ \  _/ _| (__  | || (_) |   /
|_| |_|_\\___/|___/_| |___\___| |_| \___/|_|_\

Halite III fleet planner`

func main() {
	transport := flag.String("transport", "stdio", "host transport: stdio, unix or ws")
	addr := flag.String("addr", "/tmp/prospector.sock", "socket path (unix) or URL (ws)")
	tuningPath := flag.String("tuning", "", "YAML tuning file")
	useSandbox := flag.Bool("sandbox", false, "play a local solo game instead of connecting to a host")
	seed := flag.Int64("seed", 0, "sandbox map seed (0 picks one)")
	size := flag.Int("size", 32, "sandbox map size")
	turns := flag.Int("turns", 0, "sandbox turn limit (0 keeps the default)")
	flag.Parse()

	tuning := config.Default()
	if *tuningPath != "" {
		t, err := config.Load(*tuningPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		tuning = t
	}
	level, err := tuning.Level()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tuning:", err)
		os.Exit(1)
	}

	// stdout carries the engine protocol, so everything else goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Fprintln(os.Stderr, banner)

	slog.Info("starting prospector", "transport", *transport, "sandbox", *useSandbox)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *useSandbox:
		err = runSandbox(ctx, tuning, *size, *seed, *turns)
	case *transport == "stdio":
		err = runStdio(ctx, tuning)
	case *transport == "unix":
		err = serveUnix(ctx, tuning, *addr)
	case *transport == "ws":
		err = dialWS(ctx, tuning, *addr)
	default:
		err = fmt.Errorf("unknown transport %q", *transport)
	}
	if err != nil {
		slog.Error("prospector stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("shutting down")
}

// newAgent builds an agent with the debug sinks the tuning asks for.
func newAgent(tuning config.Tuning) (*agent.Agent, error) {
	a, err := agent.New(tuning)
	if err != nil {
		return nil, err
	}
	if p := tuning.Replay.EventLog; p != "" {
		if a.Events, err = replay.OpenEventLog(p); err != nil {
			return nil, err
		}
	}
	if p := tuning.Replay.StatsDB; p != "" {
		if a.Stats, err = replay.OpenStats(p); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func runStdio(ctx context.Context, tuning config.Tuning) error {
	host := ipc.NewStdioHost(os.Stdin, os.Stdout)
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("read preamble: %w", err)
	}
	a, err := newAgent(tuning)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := host.Ready(tuning.BotName); err != nil {
		return err
	}
	return a.Run(ctx, host)
}

func runSandbox(ctx context.Context, tuning config.Tuning, size int, seed int64, turns int) error {
	k := model.DefaultConstants()
	if turns > 0 {
		k.MaxTurns = turns
	}
	host, err := sandbox.NewGenerated(k, size, seed)
	if err != nil {
		return err
	}
	a, err := newAgent(tuning)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Run(ctx, host); err != nil {
		return err
	}
	slog.Info("sandbox result",
		"bank", host.Bank(),
		"deposited", host.Deposited,
		"lost", host.Lost,
		"remaining", host.World().Map.TotalHalite(),
	)
	return nil
}

func serveUnix(ctx context.Context, tuning config.Tuning, socketPath string) error {
	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("clean up socket %s: %w", socketPath, err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	slog.Info("listening on domain socket", "path", socketPath)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(tuning, ipc.NewConnection(conn, nil))
		}
	}()

	<-ctx.Done()
	return nil
}

func dialWS(ctx context.Context, tuning config.Tuning, url string) error {
	c, err := ipc.DialWS(ctx, url, nil)
	if err != nil {
		return err
	}
	done := make(chan struct{})
	go func() {
		handleConn(tuning, c)
		close(done)
	}()
	select {
	case <-ctx.Done():
		c.Close()
		<-done
	case <-done:
	}
	return nil
}

// handleConn plays one game per connection.
func handleConn(tuning config.Tuning, c *ipc.Connection) {
	a, err := newAgent(tuning)
	if err != nil {
		slog.Error("agent setup failed", "error", err)
		c.Close()
		return
	}
	defer a.Close()
	for typ, h := range a.Handlers() {
		c.RegisterHandler(typ, h)
	}
	c.ReadLoop()
}
