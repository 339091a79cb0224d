package scheduler

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

type noopHealth struct{}

func (noopHealth) HealthCheck(ctx context.Context) error { return nil }

func TestNewValidatesCronExpression(t *testing.T) {
	tests := []struct {
		name    string
		cron    string
		wantErr bool
	}{
		{"no cron uses the interval", "", false},
		{"valid every two hours", "0 */2 * * *", false},
		{"valid sunday morning", "0 4 * * 0", false},
		{"garbage", "whenever", true},
		{"too many fields", "0 0 0 0 0 0 0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, noopHealth{}, Config{
				Timezone:      "UTC",
				SweepInterval: time.Hour,
				SweepCron:     tt.cron,
			})
			if tt.wantErr && err == nil {
				t.Errorf("New() expected error for cron %q", tt.cron)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("New() error for cron %q: %v", tt.cron, err)
			}
		})
	}
}

func TestNewFallsBackToUTCOnBadTimezone(t *testing.T) {
	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)

	s, err := New(nil, noopHealth{}, Config{
		Timezone:      "Not/AZone",
		SweepInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if s.timezone != time.UTC {
		t.Errorf("timezone = %v, want UTC", s.timezone)
	}
	if !strings.Contains(logged.String(), "Not/AZone") {
		t.Errorf("expected a warning naming the bad timezone, got %q", logged.String())
	}
}

func TestStartAndStop(t *testing.T) {
	s, err := New(nil, noopHealth{}, Config{
		Timezone:      "UTC",
		SweepInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	// An hourly sweep will not fire during the test, so the nil
	// orchestrator is never dereferenced.
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop() error: %v", err)
	}
}
