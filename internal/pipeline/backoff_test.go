package pipeline_test

import (
	"testing"
	"time"

	"github.com/covenantlabs/covenant/internal/pipeline"
	"github.com/covenantlabs/covenant/internal/upstream"
)

func TestParseDelayHint(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want float64
	}{
		{"whole seconds with unit", "52s", 52.0},
		{"fractional seconds with unit", "1.2s", 1.2},
		{"bare number", "5", 5.0},
		{"padded", "  3s  ", 3.0},
		{"not a number falls back", "not-a-number", 10.0},
		{"empty falls back", "", 10.0},
		{"negative falls back", "-4s", 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pipeline.ParseDelayHint(tt.hint); got != tt.want {
				t.Errorf("ParseDelayHint(%q) = %v, want %v", tt.hint, got, tt.want)
			}
		})
	}
}

func TestBackoffRateLimited(t *testing.T) {
	t.Run("hint dominates early attempts", func(t *testing.T) {
		// max(10, 2^0) = 10 plus up to 1s jitter
		got := pipeline.Backoff(upstream.RateLimited, 0, "10s")
		if got < 10*time.Second || got >= 11*time.Second {
			t.Errorf("delay = %v, want [10s, 11s)", got)
		}
	})

	t.Run("exponential dominates small hints", func(t *testing.T) {
		// max(2, 2^3) = 8 plus up to 1s jitter
		got := pipeline.Backoff(upstream.RateLimited, 3, "2s")
		if got < 8*time.Second || got >= 9*time.Second {
			t.Errorf("delay = %v, want [8s, 9s)", got)
		}
	})

	t.Run("missing hint uses fallback", func(t *testing.T) {
		got := pipeline.Backoff(upstream.RateLimited, 0, "")
		if got < 10*time.Second || got >= 11*time.Second {
			t.Errorf("delay = %v, want [10s, 11s)", got)
		}
	})

	t.Run("clamped to cap", func(t *testing.T) {
		got := pipeline.Backoff(upstream.RateLimited, 10, "")
		if got != pipeline.DelayCap {
			t.Errorf("delay = %v, want %v", got, pipeline.DelayCap)
		}
	})
}

func TestBackoffServiceUnavailable(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 5 * time.Second},
		{1, 10 * time.Second},
		{2, 20 * time.Second},
		{3, pipeline.DelayCap},
	}

	for _, tt := range tests {
		got := pipeline.Backoff(upstream.ServiceUnavailable, tt.attempt, "")
		if got != tt.want {
			t.Errorf("attempt %d: delay = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoffFatal(t *testing.T) {
	if got := pipeline.Backoff(upstream.Fatal, 2, "5s"); got != 0 {
		t.Errorf("delay = %v, want 0", got)
	}
}
