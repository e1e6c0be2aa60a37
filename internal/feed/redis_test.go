package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rook-computer/boardview/internal/board"
)

type chanSink chan frame

func (s chanSink) SetBoard(m board.Matrix, source string) { s <- frame{m: m, source: source} }

func TestRedisSubscriberForwardsFrames(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := make(chanSink, 4)
	done := make(chan error, 1)
	go func() { done <- NewRedisSubscriber(rdb, "boards").Run(ctx, sink) }()

	deadline := time.Now().Add(3 * time.Second)
	for mr.PubSubNumSub("boards")["boards"] == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	mr.Publish("boards", "fen not a position")
	mr.Publish("boards", "R.......\n........\n........\n........\n........\n........\n........\n.......r")

	select {
	case f := <-sink:
		if f.source != SourceRedis || f.m[0][0] != 'R' || f.m[7][7] != 'r' || f.m[0][1] != board.EmptySymbol {
			t.Fatalf("unexpected frame %q from %s", f.m, f.source)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no frame forwarded")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run ignored cancellation")
	}
}

func TestParseRedisURL(t *testing.T) {
	opts, channel, err := ParseRedisURL("redis://127.0.0.1:6380/2?channel=table-1")
	if err != nil {
		t.Fatal(err)
	}
	if opts.Addr != "127.0.0.1:6380" || opts.DB != 2 || channel != "table-1" {
		t.Fatalf("got %s db=%d channel=%s", opts.Addr, opts.DB, channel)
	}
	if _, channel, _ := ParseRedisURL("redis://localhost:6379"); channel != DefaultRedisChannel {
		t.Fatalf("default channel %q", channel)
	}
}

func TestDecodeFrameKeepsLeadingEmptyCells(t *testing.T) {
	m, source, err := DecodeFrame("   R    \n" + "        \n        \n        \n        \n        \n        \n        \n")
	if err != nil {
		t.Fatal(err)
	}
	if source != SourceRows || board.Validate(m) != nil || m[0][3] != 'R' {
		t.Fatalf("got %q from %s", m, source)
	}
}
