package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shortcast/internal/inventory"
	"shortcast/internal/ledger"
	"shortcast/internal/logging"
)

type fakeGenerator struct {
	calls   []int
	failOn  map[int]bool
	baseDir string
}

func (g *fakeGenerator) Generate(_ context.Context, index int, date string) (string, error) {
	g.calls = append(g.calls, index)
	if g.failOn[index] {
		return "", errors.New("render failed")
	}
	return filepath.Join(g.baseDir, fmt.Sprintf("%s_%d.mp4", date, index)), nil
}

func newFixture(t *testing.T) (*ledger.Store, *fakeGenerator) {
	t.Helper()
	dir := t.TempDir()
	store := ledger.NewStore(filepath.Join(dir, "posts.json"))
	return store, &fakeGenerator{baseDir: dir, failOn: map[int]bool{}}
}

func TestEnsureFillsEmptyDateWithSequentialSlots(t *testing.T) {
	store, gen := newFixture(t)
	rep := inventory.New(store, gen, nil, 10, 10, logging.NewNop())

	added, err := rep.Ensure(context.Background(), "2024-01-01", 10)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if added != 10 {
		t.Fatalf("expected 10 added, got %d", added)
	}

	schedule, _, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	posts := schedule["2024-01-01"]
	if len(posts) != 10 {
		t.Fatalf("expected 10 posts, got %d", len(posts))
	}
	for i, post := range posts {
		want := fmt.Sprintf("%02d:00", 10+i)
		if post.Time != want {
			t.Fatalf("post %d slot = %q, want %q", i, post.Time, want)
		}
		if post.Status != ledger.StatusPending {
			t.Fatalf("post %d status = %q", i, post.Status)
		}
		if !strings.Contains(post.Caption, fmt.Sprintf("#%d ", i+1)) {
			t.Fatalf("post %d caption %q missing 1-based index", i, post.Caption)
		}
	}
}

func TestEnsureIsNoOpWhenTargetMet(t *testing.T) {
	store, gen := newFixture(t)
	schedule := ledger.Schedule{"2024-01-01": make([]ledger.Post, 10)}
	for i := range schedule["2024-01-01"] {
		schedule["2024-01-01"][i] = ledger.Post{VideoPath: "v.mp4", Time: "10:00", Status: ledger.StatusPending}
	}
	if err := store.Save(schedule); err != nil {
		t.Fatalf("Save: %v", err)
	}
	before, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	rep := inventory.New(store, gen, nil, 10, 10, logging.NewNop())
	added, err := rep.Ensure(context.Background(), "2024-01-01", 10)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected no additions, got %d", added)
	}
	if len(gen.calls) != 0 {
		t.Fatalf("expected no generation calls, got %v", gen.calls)
	}
	after, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("ledger changed despite sufficient inventory")
	}
}

func TestEnsureWrapsSlotHoursModulo24(t *testing.T) {
	store, gen := newFixture(t)
	existing := make([]ledger.Post, 20)
	for i := range existing {
		existing[i] = ledger.Post{VideoPath: "v.mp4", Time: ledger.FormatSlot(10 + i), Status: ledger.StatusUploaded}
	}
	if err := store.Save(ledger.Schedule{"2024-01-01": existing}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rep := inventory.New(store, gen, nil, 10, 10, logging.NewNop())
	added, err := rep.Ensure(context.Background(), "2024-01-01", 22)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 added, got %d", added)
	}

	schedule, _, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	posts := schedule["2024-01-01"]
	// Slots 10+20=30 and 10+21=31 wrap to 06:00 and 07:00.
	if posts[20].Time != "06:00" || posts[21].Time != "07:00" {
		t.Fatalf("unexpected wrapped slots: %q %q", posts[20].Time, posts[21].Time)
	}
}

func TestEnsureSkipsFailedUnitsAndContinues(t *testing.T) {
	store, gen := newFixture(t)
	gen.failOn[2] = true

	rep := inventory.New(store, gen, nil, 10, 10, logging.NewNop())
	added, err := rep.Ensure(context.Background(), "2024-01-01", 3)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 added after one failure, got %d", added)
	}
	if len(gen.calls) != 3 {
		t.Fatalf("expected 3 generation attempts, got %v", gen.calls)
	}

	schedule, _, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(schedule["2024-01-01"]) != 2 {
		t.Fatalf("expected 2 persisted posts, got %d", len(schedule["2024-01-01"]))
	}
}

func TestEnsureUpcomingCoversTodayAndTomorrow(t *testing.T) {
	store, gen := newFixture(t)
	rep := inventory.New(store, gen, nil, 10, 2, logging.NewNop())

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := rep.EnsureUpcoming(context.Background(), now); err != nil {
		t.Fatalf("EnsureUpcoming: %v", err)
	}

	schedule, _, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(schedule["2024-01-01"]) != 2 {
		t.Fatalf("today not replenished: %v", schedule)
	}
	if len(schedule["2024-01-02"]) != 2 {
		t.Fatalf("tomorrow not replenished: %v", schedule)
	}
}
