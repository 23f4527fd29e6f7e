package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/apiclient"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/app"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/clock"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "timedesk: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		apiURL  string
		lang    string
		logFile string
		noChat  bool
		timeout time.Duration
	)
	flags := pflag.NewFlagSet("timedesk", pflag.ContinueOnError)
	flags.StringVar(&apiURL, "api", envOr("TIMEDESK_API", "http://localhost:3000"), "base URL of the TimeDesk API")
	flags.StringVar(&lang, "lang", string(model.DefaultLanguage), "interface language before login (pt, en, es, fr)")
	flags.StringVar(&logFile, "log-file", "timedesk-client.log", "file receiving the client log")
	flags.BoolVar(&noChat, "no-chat", false, "do not connect to the live chat relay")
	flags.DurationVar(&timeout, "timeout", 10*time.Second, "timeout for each API request")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if !model.Language(lang).Supported() {
		return fmt.Errorf("unsupported language %q", lang)
	}

	// The alternate screen owns stdout, so logs go to a file.
	out, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer out.Close()
	logger := slog.New(slog.NewTextHandler(out, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(apiURL, timeout)
	clk := clock.Real()
	state := app.New(app.Options{
		API:      client,
		Clock:    clk,
		Logger:   logger,
		Language: model.Language(lang),
	})

	program := tea.NewProgram(tui.New(ctx, state, clk), tea.WithAltScreen(), tea.WithContext(ctx))
	// OnChange also fires from inside Update; Send would block the event
	// loop there, so hand it off.
	state.OnChange(func() { go program.Send(tui.StateChangedMsg{}) })

	if !noChat {
		conn, err := client.DialChat(ctx)
		if err != nil {
			logger.Warn("chat relay unavailable", "error", err)
		} else {
			defer conn.Close()
			state.SetChatRelay(conn)
			go func() {
				if err := conn.Listen(ctx, state.ReceiveChatMessage); err != nil {
					logger.Warn("chat relay closed", "error", err)
				}
			}()
		}
	}

	logger.Info("client started", "api", apiURL, "lang", lang)
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
