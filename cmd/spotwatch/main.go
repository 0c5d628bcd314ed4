package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"spotwatch/internal/booking"
	"spotwatch/internal/config"
	"spotwatch/internal/export"
	appLog "spotwatch/internal/log"
	"spotwatch/internal/notify"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	watch      bool
	icsPath    string
	debug      bool
}

func main() {
	// A local .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	flags := parseFlags()

	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	appLog.Info("spotwatch starting",
		"schedule_url", booking.RedactURL(conf.ScheduleURL),
		"instructor_id", conf.InstructorID,
		"window_days", conf.WindowDays,
		"pages", len(conf.Pages),
		"country", conf.Country,
		"watch", flags.watch,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if !flags.watch {
		if _, err := runOnce(ctx, conf, flags); err != nil {
			appLog.Error("run failed", err)
			appLog.Sync()
			os.Exit(1)
		}
		appLog.Sync()
		return
	}

	// Watch mode: run immediately, then on the configured cron schedule
	// until a signal arrives. Each run's summary is delivered via
	// Telegram when the env credentials are set. Individual run
	// failures are logged but do not stop the loop.
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if token == "" || chatID == "" {
		appLog.Info("telegram delivery disabled; set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID to enable")
	}
	sender := notify.NewSender()

	runAndNotify := func() {
		res, err := runOnce(ctx, conf, flags)
		if err != nil {
			appLog.Error("run failed", err)
			return
		}

		sent, err := sender.SendSummary(ctx, token, chatID, res.Spots)
		if err != nil {
			appLog.Error("telegram delivery failed", err)
			return
		}
		if sent {
			appLog.Info("summary delivered", "available_spots", len(res.Spots))
		}
	}

	runAndNotify()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(conf.RefreshCron, runAndNotify); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		appLog.Sync()
		os.Exit(1)
	}

	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()

	appLog.Info("spotwatch exiting")
	appLog.Sync()
}

// runOnce executes one pipeline run, prints the spot list as indented
// JSON on stdout and optionally writes the ICS export.
func runOnce(ctx context.Context, conf *config.Config, flags flagConfig) (*booking.Result, error) {
	res, err := booking.Run(ctx, conf)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res.Spots); err != nil {
		return nil, err
	}

	if flags.icsPath != "" {
		if err := export.WriteFile(flags.icsPath, res); err != nil {
			return nil, err
		}
		appLog.Info("ics export written", "path", flags.icsPath, "events", len(res.Events))
	}

	return res, nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "spotwatch.yaml", "Path to config file")
	flag.BoolVar(&cfg.watch, "watch", false, "Keep running and re-check on the config refresh schedule")
	flag.StringVar(&cfg.icsPath, "ics", "", "Also write surviving classes to this iCalendar file")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
