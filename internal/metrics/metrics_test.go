package metrics

import (
	"testing"
	"time"

	"busmap.londonbus.dev/internal/models"
)

func TestSetMarkerTiers(t *testing.T) {
	SetMarkerTiers([]models.Tier{models.TierNear, models.TierNear, models.TierFar})

	tests := []struct {
		tier models.Tier
		want float64
	}{
		{models.TierNear, 2},
		{models.TierMedium, 0},
		{models.TierFar, 1},
	}
	for _, tt := range tests {
		got, err := getMetricValue(Markers.WithLabelValues(string(tt.tier)))
		if err != nil {
			t.Fatalf("Failed to read metric: %v", err)
		}
		if got != tt.want {
			t.Errorf("tier %s: expected %v, got %v", tt.tier, tt.want, got)
		}
	}

	t.Run("emptied tiers drop to zero", func(t *testing.T) {
		SetMarkerTiers(nil)
		got, err := getMetricValue(Markers.WithLabelValues(string(models.TierNear)))
		if err != nil {
			t.Fatalf("Failed to read metric: %v", err)
		}
		if got != 0 {
			t.Errorf("expected 0 near markers, got %v", got)
		}
	})
}

func TestObserveCycle(t *testing.T) {
	before, err := getMetricValue(PollCycles.WithLabelValues(OutcomePublished))
	if err != nil {
		t.Fatalf("Failed to read metric: %v", err)
	}
	countBefore, err := getHistogramCount(PollCycleDuration)
	if err != nil {
		t.Fatalf("Failed to read histogram: %v", err)
	}

	ObserveCycle(OutcomePublished, time.Now().Add(-time.Second))

	after, err := getMetricValue(PollCycles.WithLabelValues(OutcomePublished))
	if err != nil {
		t.Fatalf("Failed to read metric: %v", err)
	}
	if after != before+1 {
		t.Errorf("expected counter to grow by 1, got %v -> %v", before, after)
	}
	countAfter, err := getHistogramCount(PollCycleDuration)
	if err != nil {
		t.Fatalf("Failed to read histogram: %v", err)
	}
	if countAfter != countBefore+1 {
		t.Errorf("expected one more observation, got %d -> %d", countBefore, countAfter)
	}
}

func TestSetUpstreamStatus(t *testing.T) {
	SetUpstreamStatus("tfl", true)
	got, err := getMetricValue(UpstreamStatus.WithLabelValues("tfl"))
	if err != nil {
		t.Fatalf("Failed to read metric: %v", err)
	}
	if got != 1 {
		t.Errorf("expected 1, got %v", got)
	}

	SetUpstreamStatus("tfl", false)
	got, err = getMetricValue(UpstreamStatus.WithLabelValues("tfl"))
	if err != nil {
		t.Fatalf("Failed to read metric: %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}
