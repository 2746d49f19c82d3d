package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"siapkit/internal/modules/planner/service"
	"siapkit/internal/platform/clock"
)

func TestPostbackWaiterNeedsTwoConsecutiveCompleteReads(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		doc         *fakeDoc
		wantBools   int
		wantStrings int
	}{
		{name: "idle page", doc: &fakeDoc{}, wantBools: 2, wantStrings: 2},
		{name: "async resets streak", doc: &fakeDoc{async: []bool{false, true, false, false}}, wantBools: 4, wantStrings: 3},
		{name: "loading resets streak", doc: &fakeDoc{ready: []string{"complete", "loading", "complete", "complete"}}, wantBools: 4, wantStrings: 4},
		{name: "async first", doc: &fakeDoc{async: []bool{true, true, true}}, wantBools: 5, wantStrings: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			waiter := service.NewPostbackWaiter(clock.NewManual(epoch), 25*time.Second)
			if err := waiter.Wait(context.Background(), tc.doc); err != nil {
				t.Fatalf("wait: %v", err)
			}
			if tc.doc.boolEvals != tc.wantBools || tc.doc.stringEvals != tc.wantStrings {
				t.Fatalf("evals bool=%d string=%d, want %d/%d", tc.doc.boolEvals, tc.doc.stringEvals, tc.wantBools, tc.wantStrings)
			}
		})
	}
}

func TestPostbackWaiterTimesOutSilently(t *testing.T) {
	t.Parallel()
	clk := clock.NewManual(epoch)
	doc := &fakeDoc{alwaysAsync: true}
	if err := service.NewPostbackWaiter(clk, time.Second).Wait(context.Background(), doc); err != nil {
		t.Fatalf("timeout must be silent, got %v", err)
	}
	if doc.boolEvals != 10 {
		t.Fatalf("expected 10 polls at 100ms, got %d", doc.boolEvals)
	}
	if clk.Now().Sub(epoch) < time.Second {
		t.Fatalf("waiter returned before its timeout")
	}
}

func TestPostbackWaiterStopsOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := service.NewPostbackWaiter(clock.NewManual(epoch), time.Second).Wait(ctx, &fakeDoc{alwaysAsync: true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
