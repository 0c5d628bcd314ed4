package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spotwatch/internal/booking"
	"spotwatch/internal/config"
	appLog "spotwatch/internal/log"
	"spotwatch/internal/notify"
)

// flagConfig holds CLI flag values. Flags take precedence over the
// TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID environment variables.
type flagConfig struct {
	configPath string
	token      string
	chatID     string
	dryRun     bool
}

func main() {
	// A local .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	flags := parseFlags()

	token := flags.token
	if token == "" {
		token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	chatID := flags.chatID
	if chatID == "" {
		chatID = os.Getenv("TELEGRAM_CHAT_ID")
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	res, err := booking.Run(ctx, conf)
	if err != nil {
		appLog.Error("run failed", err)
		appLog.Sync()
		os.Exit(1)
	}

	message := notify.FormatSummary(res.Spots)
	report := executionReport(res)

	if path := os.Getenv("GITHUB_STEP_SUMMARY"); path != "" {
		if err := appendLine(path, report); err != nil {
			appLog.Error("failed to append step summary", err, "path", path)
		}
	}

	if flags.dryRun {
		fmt.Println(message)
		fmt.Println()
		fmt.Println(report)
		appLog.Sync()
		return
	}

	sender := notify.NewSender()
	if err := sender.Send(ctx, token, chatID, message); err != nil {
		appLog.Error("telegram delivery failed", err)
		appLog.Sync()
		os.Exit(1)
	}

	fmt.Println("Summary sent to Telegram.")
	fmt.Println(report)
	appLog.Sync()
}

// executionReport renders the one-line timing summary for the run.
func executionReport(res *booking.Result) string {
	return fmt.Sprintf(
		"Total automation time: %.2f seconds (start: %s | end: %s).",
		res.Elapsed().Seconds(),
		res.StartedAt.Format(time.RFC3339),
		res.FinishedAt.Format(time.RFC3339),
	)
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintln(f, line)
	return err
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "spotwatch.yaml", "Path to config file")
	flag.StringVar(&cfg.token, "token", "", "Telegram bot token (overrides TELEGRAM_BOT_TOKEN)")
	flag.StringVar(&cfg.chatID, "chat-id", "", "Telegram chat id (overrides TELEGRAM_CHAT_ID)")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "Print the summary locally instead of sending it")

	flag.Parse()

	return cfg
}
