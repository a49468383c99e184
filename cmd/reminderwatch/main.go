package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"workconnect/config"
	"workconnect/notify"
)

// reminderwatch follows one recipient's live reminder feed from a terminal:
// it loads the upcoming list, keeps the channel session registered, and
// prints each popup while it is live.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseURL := strings.TrimSpace(os.Getenv("WORKCONNECT_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Port
	}
	token := strings.TrimSpace(os.Getenv("WORKCONNECT_TOKEN"))
	recipient := strings.TrimSpace(os.Getenv("WORKCONNECT_RECIPIENT"))
	if token == "" || recipient == "" {
		log.Fatal("WORKCONNECT_TOKEN and WORKCONNECT_RECIPIENT are required")
	}

	center, client, rest := notify.New(notify.Options{
		BaseURL:          baseURL,
		Token:            token,
		RecipientID:      recipient,
		PopupAutoDismiss: cfg.PopupAutoDismiss,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	upcoming, err := rest.Upcoming(ctx)
	if err != nil {
		log.Printf("upcoming fetch failed: %v", err)
	} else {
		center.Load(upcoming)
	}
	log.Printf("watching %s: %d unread reminders", recipient, center.Unread())

	go client.Run(ctx)

	var lastShown string
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			popup, ok := center.Popup()
			if !ok || popup.ID == lastShown {
				continue
			}
			lastShown = popup.ID
			log.Printf("reminder due: %s at %s (unread %d)", popup.Title, popup.DueAt, center.Unread())
		}
	}
}
