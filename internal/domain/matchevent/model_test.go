package matchevent

import (
	"testing"
	"time"
)

func TestLastGoal(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "e1", Type: TypeGoal, Timestamp: base.Add(time.Minute)},
		{ID: "e2", Type: TypeAssist, Timestamp: base.Add(time.Minute)},
		{ID: "e3", Type: TypeSubIn, Timestamp: base.Add(4 * time.Minute)},
		{ID: "e4", Type: TypeGoal, Timestamp: base.Add(6 * time.Minute)},
		{ID: "e5", Type: TypeAssist, Timestamp: base.Add(6*time.Minute + 500*time.Millisecond)},
	}

	goal, assist, ok := LastGoal(events)
	if !ok {
		t.Fatalf("expected a goal")
	}
	if goal.ID != "e4" {
		t.Fatalf("expected e4, got %s", goal.ID)
	}
	if assist == nil || assist.ID != "e5" {
		t.Fatalf("expected linked assist e5, got %v", assist)
	}
}

func TestLastGoal_AssistOutsideWindow(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "a", Type: TypeAssist, Timestamp: base},
		{ID: "g", Type: TypeGoal, Timestamp: base.Add(3 * time.Second)},
	}

	_, assist, ok := LastGoal(events)
	if !ok || assist != nil {
		t.Fatalf("expected goal without assist, ok=%v assist=%v", ok, assist)
	}
}

func TestLastGoal_OpponentGoalHasNoAssist(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "g", Type: TypeGoal, Timestamp: base},
		{ID: "a", Type: TypeAssist, Timestamp: base},
		{ID: "o", Type: TypeOpponentGoal, Timestamp: base.Add(time.Minute)},
	}

	goal, assist, ok := LastGoal(events)
	if !ok || goal.ID != "o" || assist != nil {
		t.Fatalf("unexpected result goal=%s assist=%v ok=%v", goal.ID, assist, ok)
	}
}

func TestLastGoal_None(t *testing.T) {
	if _, _, ok := LastGoal([]Event{{Type: TypeSubIn}}); ok {
		t.Fatalf("expected no goal")
	}
}
