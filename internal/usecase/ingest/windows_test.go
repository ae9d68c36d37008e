package ingest

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSplitWindowsSingle(t *testing.T) {
	got := splitWindows(day(2024, 1, 1), day(2024, 1, 8), 90)
	if len(got) != 1 {
		t.Fatalf("windows = %d, want 1", len(got))
	}
	if !got[0].from.Equal(day(2024, 1, 1)) || !got[0].to.Equal(day(2024, 1, 8)) {
		t.Fatalf("window = %+v, want range clamped to request", got[0])
	}
}

func TestSplitWindowsMultiple(t *testing.T) {
	got := splitWindows(day(2024, 1, 1), day(2024, 7, 1), 90)
	if len(got) != 3 {
		t.Fatalf("windows = %d, want 3", len(got))
	}

	// Consecutive windows must not overlap: each starts one day after the
	// previous end, and the range ends are covered without gaps.
	if !got[0].from.Equal(day(2024, 1, 1)) || !got[0].to.Equal(day(2024, 3, 31)) {
		t.Fatalf("window 0 = [%s, %s]", got[0].from.Format("2006-01-02"), got[0].to.Format("2006-01-02"))
	}
	if !got[1].from.Equal(day(2024, 4, 1)) || !got[1].to.Equal(day(2024, 6, 30)) {
		t.Fatalf("window 1 = [%s, %s]", got[1].from.Format("2006-01-02"), got[1].to.Format("2006-01-02"))
	}
	if !got[2].from.Equal(day(2024, 7, 1)) || !got[2].to.Equal(day(2024, 7, 1)) {
		t.Fatalf("window 2 = [%s, %s]", got[2].from.Format("2006-01-02"), got[2].to.Format("2006-01-02"))
	}
}

func TestSplitWindowsExactSpan(t *testing.T) {
	got := splitWindows(day(2024, 1, 1), day(2024, 3, 31), 90)
	if len(got) != 1 {
		t.Fatalf("windows = %d, want 1", len(got))
	}
	if !got[0].to.Equal(day(2024, 3, 31)) {
		t.Fatalf("window = %+v", got[0])
	}
}

func TestSplitWindowsInvertedRange(t *testing.T) {
	if got := splitWindows(day(2024, 2, 1), day(2024, 1, 1), 90); got != nil {
		t.Fatalf("windows = %v, want nil", got)
	}
}

func TestSplitWindowsGuardsSpan(t *testing.T) {
	got := splitWindows(day(2024, 1, 1), day(2024, 1, 3), 0)
	if len(got) != 2 {
		t.Fatalf("windows = %d, want 2 with span clamped to 1", len(got))
	}
}
