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
	"github.com/m04kA/EVCharge-ReservationService/internal/booking"
	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/platerecognizer"
	"github.com/m04kA/EVCharge-ReservationService/internal/integrations/reservationapi"
	"github.com/m04kA/EVCharge-ReservationService/pkg/logger"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// book проходит пользовательский сценарий бронирования без интерфейса
func main() {
	var (
		baseURL   = flag.String("base-url", getenv("BASE_URL", "http://localhost:8000"), "reservation service base url")
		email     = flag.String("email", getenv("USER_EMAIL", ""), "user email")
		password  = flag.String("password", getenv("USER_PASSWORD", "demo"), "user password")
		plate     = flag.String("plate", "", "vehicle plate")
		image     = flag.String("image", "", "plate photo to recognize instead of -plate")
		dateStr   = flag.String("date", time.Now().Format(domain.DateFormat), "date YYYY-MM-DD")
		sessionID = flag.Int64("session", 1, "charging session id")
		start     = flag.String("start", "", "start time HH:MM")
		duration  = flag.Int("duration", booking.DefaultDurationMinutes, "duration in minutes")
		open      = flag.String("open", string(domain.DefaultOpen), "business open HH:MM")
		closeAt   = flag.String("close", string(domain.DefaultClose), "business close HH:MM")
		logLevel  = flag.String("log-level", getenv("LOG_LEVEL", "warn"), "log level")
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
	hours, err := domain.NewBusinessHours(*open, *closeAt)
	if err != nil {
		fatal(fmt.Sprintf("invalid business hours: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := reservationapi.NewClient(*baseURL, 30*time.Second, log)
	recognizer := platerecognizer.NewClient(strings.TrimRight(*baseURL, "/")+"/api/license-plates", 60*time.Second, log)
	ctrl := booking.NewController(
		client,
		availability.NewBuilder(client, hours),
		recognizer,
		booking.FileScanner{Path: *image},
		hours,
		log,
	)
	defer ctrl.Close()

	check := func(err error) {
		if err != nil {
			msg := ctrl.State().Error
			if msg == "" {
				msg = err.Error()
			}
			fatal(msg)
		}
	}

	check(ctrl.Login(ctx, *email, *password))

	if *image != "" {
		recognized, err := ctrl.ScanPlate(ctx)
		check(err)
		fmt.Printf("recognized plate: %s\n", recognized)
		*plate = recognized
	}
	check(ctrl.SubmitPlate(ctx, *plate))
	check(ctrl.SelectSession(ctx, *sessionID))
	check(ctrl.SelectDate(ctx, date))
	check(ctrl.SetDuration(*duration))

	st := ctrl.State()
	for _, e := range st.Strip {
		fmt.Printf("%-6s %3d%% %s\n", e.Label, e.FreePercent, e.Tier)
	}

	startAt := types.TimeString(*start)
	if startAt.IsZero() {
		// первый свободный слот, который укладывается до закрытия
		for _, slot := range availability.GenerateSlots(hours) {
			if ctrl.SelectStart(slot) == nil {
				startAt = slot
				break
			}
		}
	}
	check(ctrl.SelectStart(startAt))
	check(ctrl.Review())

	res, err := ctrl.Confirm(ctx)
	check(err)
	if res.Conflict || res.Reservation == nil {
		fatal(fmt.Sprintf("not booked: %s", res.Message))
	}

	r := res.Reservation
	fmt.Printf("booked %s: session %d, %s %s-%s, plate %s, status %s\n",
		r.ID, r.SessionID, r.Date, r.StartTime, r.EndTime, r.Plate, r.Status)
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
