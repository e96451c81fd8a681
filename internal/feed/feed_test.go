package feed

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

func newPublisher(t *testing.T, maxLen int) (*Publisher, *miniredis.Miniredis) {
	t.Helper()
	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(m.Close)
	rc := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return NewPublisher(rc, "cutboard:test", maxLen), m
}

func entry(id int, content string) board.Entry {
	return board.Entry{
		TaskID: id,
		Column: "todo",
		Activity: task.Activity{
			ID:        content,
			Kind:      task.KindComment,
			Content:   content,
			Timestamp: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
			Actor:     "You",
		},
	}
}

func TestCloseReleasesClient(t *testing.T) {
	pub, _ := newPublisher(t, 0)
	if err := pub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := pub.Record(context.Background(), entry(1, "late")); err == nil {
		t.Fatal("Record after Close should fail")
	}
}

func TestRecordTrimsRecentList(t *testing.T) {
	pub, m := newPublisher(t, 2)
	ctx := context.Background()

	for i, c := range []string{"one", "two", "three"} {
		if err := pub.Record(ctx, entry(i+1, c)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	list, err := m.List("cutboard:test:recent")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected list trimmed to 2, got %d", len(list))
	}

	recent, err := pub.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Activity.Content != "three" || recent[1].Activity.Content != "two" {
		t.Fatalf("expected newest first, got %+v", recent)
	}
	if recent[0].TaskID != 3 || recent[0].Activity.Kind != task.KindComment {
		t.Fatalf("entry not decoded: %+v", recent[0])
	}
}

func TestRecentEmpty(t *testing.T) {
	pub, _ := newPublisher(t, 10)
	got, err := pub.Recent(context.Background(), 5)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no entries, got %v %v", got, err)
	}
	if got, _ := pub.Recent(context.Background(), 0); got != nil {
		t.Fatalf("n=0 should return nil, got %v", got)
	}
}

func TestRecordFailsWhenServerDown(t *testing.T) {
	pub, m := newPublisher(t, 10)
	m.Close()
	if err := pub.Record(context.Background(), entry(1, "lost")); err == nil {
		t.Fatal("expected an error with redis down")
	}
}

func TestStoreSinkPublishesMoves(t *testing.T) {
	pub, _ := newPublisher(t, 10)
	seed := []*task.Task{{ID: 1, Column: "todo", Title: "Reel", Payment: task.Unbilled}}
	s := board.New(config.NewDefault("test"), seed, board.WithSink(pub))

	s.Reconcile(board.Intent{Subject: 1, Target: board.ColumnTarget("in-progress")})
	s.Comment(1, "on it")

	recent, err := pub.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[1].Activity.Kind != task.KindMove || recent[1].Column != "in-progress" {
		t.Fatalf("unexpected move entry %+v", recent[1])
	}
}

func TestFollow(t *testing.T) {
	pub, m := newPublisher(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan board.Entry, 1)
	done := make(chan error, 1)
	go func() {
		done <- pub.Follow(ctx, func(e board.Entry) { got <- e })
	}()

	deadline := time.Now().Add(2 * time.Second)
	for m.PubSubNumSub(pub.Channel())[pub.Channel()] == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := pub.Record(context.Background(), entry(4, "live")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	select {
	case e := <-got:
		if e.TaskID != 4 || e.Activity.Content != "live" {
			t.Fatalf("unexpected entry %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no entry received")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Follow: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Follow did not stop")
	}
}

func TestDial(t *testing.T) {
	rc := Dial("cache.example.com:6380,password=s3cret,ssl=true")
	defer rc.Close()
	opts := rc.Options()
	if opts.Addr != "cache.example.com:6380" || opts.Password != "s3cret" || opts.TLSConfig == nil {
		t.Fatalf("connection string not parsed: %+v", opts)
	}

	rc2 := Dial("redis://:pw@localhost:6390/2")
	defer rc2.Close()
	if o := rc2.Options(); o.Addr != "localhost:6390" || o.DB != 2 || o.Password != "pw" {
		t.Fatalf("url not parsed: %+v", o)
	}
}
