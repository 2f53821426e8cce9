// Package ingest runs the once-daily sun-timing ingestion: a polling
// loop that detects UTC day rollover and drives one fetch→format→write
// cycle per calendar date, retrying until the whole cycle succeeds.
package ingest

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/wilson-cheng1110/Comp4436-GP/internal/hko"
)

// SunSource fetches the raw sun-timing payload for one date.
type SunSource interface {
	FetchDay(ctx context.Context, date string) (*hko.SunPayload, error)
}

// PointWriter is the slice of the store the scheduler needs.
type PointWriter interface {
	EnsureDatabase() error
	WritePoint(measurement string, tags map[string]string, fields map[string]interface{}, ts time.Time) error
}

// Scheduler is a two-state machine: Idle between poll ticks, Ingesting
// while a fetch→format→write cycle runs. The lastSuccess marker is the
// only state; it advances exclusively on a fully successful cycle, so
// any partial failure leaves the date pending and the next tick
// retries it. All access happens on the single job goroutine
// (SingletonMode guarantees no overlapping attempts).
type Scheduler struct {
	source      SunSource
	store       PointWriter
	measurement string
	interval    time.Duration

	cron        *gocron.Scheduler
	lastSuccess string // date of the last fully successful cycle; "" = unset

	// test seams
	now   func() time.Time
	sleep func(time.Duration)
}

func New(source SunSource, store PointWriter, measurement string, interval time.Duration) *Scheduler {
	return &Scheduler{
		source:      source,
		store:       store,
		measurement: measurement,
		interval:    interval,
		cron:        gocron.NewScheduler(time.UTC),
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// Start schedules the poll tick and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = 60
	}

	_, err := s.cron.Every(seconds).Seconds().SingletonMode().Do(s.runTick)
	if err != nil {
		return err
	}

	s.cron.StartAsync()
	log.Printf("ingest: started, checking for a new day every %ds", seconds)
	return nil
}

// Stop stops the scheduler and cancels any future ticks.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// runTick is the gocron job body. A panic anywhere in the cycle is
// caught, logged, and followed by an extra interval of sleep so a
// persistently failing dependency backs off to double the poll
// interval instead of crashing the process.
func (s *Scheduler) runTick() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ingest: unexpected error in poll loop: %v; backing off", r)
			s.sleep(s.interval)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.tick(ctx)
}

// tick performs one poll: decide whether today's date is still
// pending, and if so run the ingestion cycle. Returns true when the
// marker advanced.
func (s *Scheduler) tick(ctx context.Context) bool {
	today := s.now().UTC().Format(hko.DateLayout)
	if s.lastSuccess == today {
		return false
	}

	runID := uuid.NewString()[:8]
	log.Printf("ingest[%s]: new day detected (%s), attempting fetch and upload", runID, today)

	payload, err := s.source.FetchDay(ctx, today)
	if err != nil {
		log.Printf("ingest[%s]: fetch failed for %s: %v; will retry on next check", runID, today, err)
		return false
	}

	st, err := hko.FormatSunTimes(payload, today)
	if err != nil {
		log.Printf("ingest[%s]: format failed for %s: %v; will retry on next check", runID, today, err)
		return false
	}

	if err := s.write(st); err != nil {
		log.Printf("ingest[%s]: write failed for %s: %v; will retry on next check", runID, today, err)
		return false
	}

	s.lastSuccess = today
	log.Printf("ingest[%s]: data ingestion successful for %s", runID, today)
	return true
}

// write ensures the database exists and writes the day's point,
// timestamped at midnight UTC of the requested date.
func (s *Scheduler) write(st *hko.SunTimes) error {
	if err := s.store.EnsureDatabase(); err != nil {
		return err
	}

	day, err := time.Parse(hko.DateLayout, st.Date)
	if err != nil {
		return err
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	tags := map[string]string{
		"source":         "weather.gov.hk",
		"data_type":      "sun_rise_set",
		"requested_date": st.Date,
	}
	fields := map[string]interface{}{
		"sunrise":       st.Sunrise,
		"solar_transit": st.SolarTransit,
		"sunset":        st.Sunset,
	}
	return s.store.WritePoint(s.measurement, tags, fields, midnight)
}
