package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/availability"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/reservationapi"
	"github.com/m04kA/EVCharge-ReservationService/pkg/logger"
)

// strip печатает 14-дневную полосу доступности сессии через REST API
func main() {
	var (
		baseURL   = flag.String("base-url", getenv("BASE_URL", "http://localhost:8000"), "reservation service base url")
		dateStr   = flag.String("date", time.Now().Format(domain.DateFormat), "center date YYYY-MM-DD")
		sessionID = flag.Int64("session", 1, "charging session id")
		open      = flag.String("open", string(domain.DefaultOpen), "business open HH:MM")
		closeAt   = flag.String("close", string(domain.DefaultClose), "business close HH:MM")
		timeout   = flag.Duration("timeout", 10*time.Second, "request timeout")
		logLevel  = flag.String("log-level", getenv("LOG_LEVEL", "warn"), "log level")
	)
	flag.Parse()

	log, err := logger.New("", *logLevel)
	if err != nil {
		fatal(err.Error())
	}
	defer log.Close()

	center, err := domain.ParseDate(*dateStr)
	if err != nil {
		fatal(fmt.Sprintf("invalid -date: %v", err))
	}
	hours, err := domain.NewBusinessHours(*open, *closeAt)
	if err != nil {
		fatal(fmt.Sprintf("invalid business hours: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := reservationapi.NewClient(*baseURL, *timeout, log)
	builder := availability.NewBuilder(client, hours)

	win, err := builder.Build(ctx, center, *sessionID)
	if err != nil {
		fatal(err.Error())
	}

	fmt.Printf("session %d, center %s\n\n", win.SessionID, win.Center.Format(domain.DateFormat))
	for _, e := range win.Entries {
		marker := " "
		if e.Date.Equal(win.Center) {
			marker = "*"
		}
		fmt.Printf("%s %-6s %3d%%  %s\n", marker, e.Label, e.FreePercent, e.Tier)
	}

	fmt.Println()
	for _, slot := range builder.Slots() {
		state := "free"
		if win.Occupied.Has(slot) {
			state = "busy"
		}
		fmt.Printf("  %s  %s\n", slot, state)
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
