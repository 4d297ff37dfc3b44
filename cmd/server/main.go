package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrianliechti/typst-bot/config"
	"github.com/adrianliechti/typst-bot/pkg/bot"
	"github.com/adrianliechti/typst-bot/pkg/bus"
	"github.com/adrianliechti/typst-bot/pkg/otel"
	"github.com/adrianliechti/typst-bot/server"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	godotenv.Load()

	configFlag := flag.String("config", "config.yaml", "config file")
	addressFlag := flag.String("address", "", "listen address")
	consoleFlag := flag.Bool("console", false, "read commands from stdin")
	outputFlag := flag.String("output", ".", "directory for console images")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "typst-bot", version)

	if err != nil {
		slog.Error("failed to setup telemetry", "error", err)
		os.Exit(1)
	}

	defer shutdown(context.Background())

	cfg, err := config.Parse(*configFlag)

	if err != nil {
		slog.Error("failed to parse config", "path", *configFlag, "error", err)
		os.Exit(1)
	}

	if *addressFlag != "" {
		cfg.Address = *addressFlag
	}

	if *consoleFlag {
		if err := runConsole(ctx, cfg, *outputFlag); err != nil {
			slog.Error("console failed", "error", err)
			os.Exit(1)
		}

		return
	}

	s, err := server.New(cfg)

	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	if err := s.ListenAndServe(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func runConsole(ctx context.Context, cfg *config.Config, output string) error {
	b := bus.NewMessageBus()

	chatID := uuid.NewString()

	dispatcher := bot.NewDispatcher(cfg.Handler(), b)

	done := make(chan struct{})

	go func() {
		defer close(done)
		dispatcher.Run(ctx)
	}()

	written := make(chan struct{})

	go func() {
		defer close(written)

		for {
			msg, ok := b.ConsumeOutbound(ctx)

			if !ok {
				return
			}

			writeOutbound(msg, output)
		}
	}()

	err := readLines(ctx, os.Stdin, func(line string) {
		b.PublishInbound(ctx, bus.InboundMessage{
			Channel:  "console",
			SenderID: "console",
			ChatID:   chatID,
			Content:  line,
		})
	})

	b.CloseInbound()
	<-done

	b.Close()
	<-written

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// readLines calls fn for every line of r until r is exhausted or ctx is done.
// The blocking read runs on its own goroutine so a signal is not held up by a
// terminal that never sends EOF.
func readLines(ctx context.Context, r io.Reader, fn func(line string)) error {
	lines := make(chan string)
	result := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		result <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-result:
					return err
				default:
					return ctx.Err()
				}
			}

			fn(line)
		}
	}
}

func writeOutbound(msg bus.OutboundMessage, output string) {
	if msg.Content != "" {
		fmt.Println(msg.Content)
	}

	for _, m := range msg.Media {
		data, err := base64.StdEncoding.DecodeString(m.Data)

		if err != nil {
			slog.Error("invalid media", "error", err)
			continue
		}

		path := filepath.Join(output, uuid.NewString()+".png")

		if err := os.WriteFile(path, data, 0644); err != nil {
			slog.Error("failed to write image", "path", path, "error", err)
			continue
		}

		fmt.Println(path)
	}
}
