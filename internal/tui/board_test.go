package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestBoard(t *testing.T) (*Board, *board.Store) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	seed := []*task.Task{
		{ID: 1, Column: "todo", Title: "Wedding film", Client: "Lena", Payment: task.Unbilled},
		{ID: 2, Column: "todo", Title: "Product ad", Client: "Northwind", Payment: task.Unbilled},
		{ID: 3, Column: "in-progress", Title: "Tour vlog", Client: "Sam", Payment: task.Unbilled},
	}
	store := board.New(config.NewDefault("Studio"), seed,
		board.WithClock(func() time.Time { return testNow }),
		board.WithLogger(logger))

	b := NewBoard(store)
	b.log = logger
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return b, store
}

func send(b *Board, msgs ...tea.Msg) {
	for _, m := range msgs {
		b.Update(m)
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	right = tea.KeyMsg{Type: tea.KeyRight}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestViewBeforeResize(t *testing.T) {
	store := board.New(config.NewDefault("Studio"), nil)
	if got := NewBoard(store).View(); got != "Loading..." {
		t.Fatalf("View = %q", got)
	}
}

func TestKeyboardDragMovesTask(t *testing.T) {
	b, store := newTestBoard(t)

	send(b, space, right, space)

	got, _ := store.Task(1)
	if got.Column != "in-progress" {
		t.Fatalf("task 1 column = %q", got.Column)
	}
	acts := store.Activities(1)
	if len(acts) != 1 || acts[0].Content != "Moved to In Progress" {
		t.Fatalf("expected one move record, got %+v", acts)
	}
	if b.status != "#1 moved to In Progress" {
		t.Fatalf("status = %q", b.status)
	}
	if b.activeCol != 1 {
		t.Fatalf("cursor should follow the moved card, column %d", b.activeCol)
	}
	if !strings.Contains(b.View(), "Wedding film") {
		t.Fatal("board view lost the moved card")
	}
}

func TestKeyboardPickupCancel(t *testing.T) {
	b, store := newTestBoard(t)

	send(b, space, right, esc)

	got, _ := store.Task(1)
	if got.Column != "todo" || len(store.Activities(1)) != 0 {
		t.Fatalf("cancelled drag changed the board: %+v", got)
	}
	if b.status != "Dropped #1 back" {
		t.Fatalf("status = %q", b.status)
	}
}

func TestMouseDragMovesTask(t *testing.T) {
	b, store := newTestBoard(t)

	send(b,
		tea.MouseMsg{X: 2, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 32, Y: 2, Action: tea.MouseActionMotion},
		tea.MouseMsg{X: 32, Y: 2, Action: tea.MouseActionRelease},
	)

	got, _ := store.Task(1)
	if got.Column != "in-progress" {
		t.Fatalf("task 1 column = %q", got.Column)
	}
	if len(store.Activities(1)) != 1 {
		t.Fatalf("expected one record, got %d", len(store.Activities(1)))
	}
}

func TestMouseClickOpensDetail(t *testing.T) {
	b, store := newTestBoard(t)

	send(b,
		tea.MouseMsg{X: 2, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 2, Y: 2, Action: tea.MouseActionRelease},
	)

	if b.view != viewDetail || b.detailID != 1 {
		t.Fatalf("expected detail of #1, view %d id %d", b.view, b.detailID)
	}
	got, _ := store.Task(1)
	if got.Column != "todo" || len(store.Activities(1)) != 0 {
		t.Fatal("a click must not move the task")
	}

	send(b, esc)
	if b.view != viewBoard {
		t.Fatal("esc should close the detail view")
	}
}

func TestCommentFlow(t *testing.T) {
	b, store := newTestBoard(t)

	send(b, runes("c"), runes("h"), runes("i"), enter)
	acts := store.Activities(1)
	if len(acts) != 1 || acts[0].Kind != task.KindComment || acts[0].Content != "hi" {
		t.Fatalf("unexpected journal %+v", acts)
	}
	if b.view != viewBoard {
		t.Fatal("enter should return to the board")
	}

	send(b, runes("c"), enter)
	if n := len(store.Activities(1)); n != 1 {
		t.Fatalf("blank comment should be ignored, got %d records", n)
	}
}

func TestInvoiceKey(t *testing.T) {
	b, store := newTestBoard(t)
	send(b, runes("b"), runes("b"))

	got, _ := store.Task(1)
	if got.Payment != task.Paid || got.PaidAt == nil {
		t.Fatalf("expected Paid with paidAt, got %s %v", got.Payment, got.PaidAt)
	}
	if b.status != "#1 invoice Paid" {
		t.Fatalf("status = %q", b.status)
	}
}

func TestReloadSwapsRegistries(t *testing.T) {
	b, store := newTestBoard(t)
	reg := &config.Registries{Tags: []config.TagConfig{{Label: "MIX"}}}
	send(b, ReloadMsg{Registries: reg})
	if store.Registries() != reg {
		t.Fatal("registries not swapped")
	}
}
