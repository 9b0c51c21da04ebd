package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/example/elevate/internal/ai"
	"github.com/example/elevate/internal/api"
	"github.com/example/elevate/internal/cli"
	"github.com/example/elevate/internal/notify"
	"github.com/example/elevate/internal/scheduler"
	"github.com/example/elevate/internal/session"
	"github.com/example/elevate/internal/storage"
)

func main() {
	// .env is optional; real environment variables win either way
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	baseURL := os.Getenv("ELEVATE_API_URL")
	if baseURL == "" {
		log.Fatal("ELEVATE_API_URL environment variable is not set")
	}

	db, err := storage.Connect()
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	defer db.Close()

	credentials := storage.NewCredentialStore(db)
	history := storage.NewHistoryRepository(db)

	sessions := session.New(credentials)
	backend := api.New(baseURL, credentials)
	assistant := ai.New(baseURL, credentials)

	// A 401 from any endpoint forces a logout
	backend.OnUnauthorized(func() {
		sessions.Logout(func() {
			log.Println("Session expired, please sign in again.")
		})
	})

	// Derive the session from whatever token survived the last run
	sessions.Initialize()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notifier *notify.Telegram
	var sched *scheduler.Scheduler
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
		if err != nil {
			log.Printf("Warning: TELEGRAM_CHAT_ID is missing or invalid, reminders disabled")
		} else if notifier, err = notify.NewTelegram(token, chatID); err != nil {
			log.Printf("Warning: %v, reminders disabled", err)
			notifier = nil
		}
	}
	if notifier != nil && os.Getenv("ENABLE_SCHEDULER") != "false" {
		sched = scheduler.New(backend, notifier)
		sched.Start()
		defer sched.Stop()
	}

	// Stop the command loop on Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()
	}()

	app := cli.New(cli.DefaultConfig(), sessions, backend, assistant, history, sched,
		summaryNotifier(notifier), os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil && err != context.Canceled {
		log.Printf("Client error: %v", err)
	}
}

// summaryNotifier avoids handing the app a non-nil interface wrapping a nil
// *notify.Telegram
func summaryNotifier(notifier *notify.Telegram) cli.SummaryNotifier {
	if notifier == nil {
		return nil
	}
	return notifier
}
