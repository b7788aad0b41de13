package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/m04kA/EVCharge-ReservationService/internal/booking"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/reservationapi"
	"github.com/m04kA/EVCharge-ReservationService/pkg/logger"
)

// dashboard панель администратора в терминале: бронирования по сессиям с автообновлением
func main() {
	var (
		baseURL  = flag.String("base-url", getenv("BASE_URL", "http://localhost:8000"), "reservation service base url")
		email    = flag.String("email", getenv("ADMIN_EMAIL", ""), "admin email")
		password = flag.String("password", getenv("ADMIN_PASSWORD", ""), "admin password")
		dateStr  = flag.String("date", time.Now().Format(domain.DateFormat), "date YYYY-MM-DD")
		every    = flag.Duration("every", 10*time.Second, "refresh period")
		remove   = flag.String("delete", "", "reservation id to delete before watching")
		logLevel = flag.String("log-level", getenv("LOG_LEVEL", "warn"), "log level")
	)
	flag.Parse()

	log, err := logger.New("", *logLevel)
	if err != nil {
		fatal(err.Error())
	}
	defer log.Close()

	date, err := domain.ParseDate(*dateStr)
	if err != nil {
		fatal(fmt.Sprintf("invalid -date: %v", err))
	}
	if *every <= 0 {
		fatal(fmt.Sprintf("invalid -every: %s", *every))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := reservationapi.NewClient(*baseURL, 10*time.Second, log)
	dash := booking.NewDashboard(client, log)

	if err := dash.Login(ctx, *email, *password); err != nil {
		fatal(fmt.Sprintf("login failed: %s", dash.State().Error))
	}
	if err := dash.SetDate(ctx, date); err != nil {
		fatal(err.Error())
	}
	if *remove != "" {
		if err := dash.Delete(ctx, *remove); err != nil {
			fatal(fmt.Sprintf("delete failed: %s", dash.State().Error))
		}
		fmt.Printf("deleted %s\n", *remove)
	}

	done := make(chan error, 1)
	go func() { done <- dash.Run(ctx, *every) }()

	ticker := time.NewTicker(*every)
	defer ticker.Stop()

	var printed time.Time
	for {
		if st := dash.State(); !st.UpdatedAt.Equal(printed) || st.Error != "" {
			printState(st)
			printed = st.UpdatedAt
		}

		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				fatal(err.Error())
			}
			return
		case <-ticker.C:
		}
	}
}

func printState(st booking.DashboardState) {
	fmt.Printf("\n%s (updated %s)\n", st.Date.Format(domain.DateFormat), st.UpdatedAt.Format(time.TimeOnly))
	if st.Error != "" {
		fmt.Printf("  error: %s\n", st.Error)
	}
	for _, s := range st.Sessions {
		fmt.Printf("  %s (#%d): %d reservation(s)\n", s.Name, s.SessionID, len(s.Reservations))
		for _, r := range s.Reservations {
			fmt.Printf("    %s  %s-%s  %-12s %s\n", r.ID, r.StartTime, r.EndTime, r.Plate, r.Status)
		}
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
