// Package feed publishes journal records to redis so other tools can follow
// board activity. The feed is outbound only; a store never reads it back.
package feed

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
)

const recordTimeout = 2 * time.Second

// Publisher is a board.Sink that publishes every record on a channel and keeps
// the newest MaxLen records in a list named "<channel>:recent".
type Publisher struct {
	client  *redis.Client
	channel string
	maxLen  int
}

// NewPublisher wraps an existing client.
func NewPublisher(client *redis.Client, channel string, maxLen int) *Publisher {
	return &Publisher{client: client, channel: channel, maxLen: maxLen}
}

// Dial builds a client from either a redis:// URL or a
// "host:port,password=...,ssl=true" connection string.
func Dial(conn string) *redis.Client {
	opts, err := redis.ParseURL(conn)
	if err != nil {
		parts := strings.Split(conn, ",")
		opts = &redis.Options{Addr: parts[0]}
		for _, p := range parts[1:] {
			kv := strings.SplitN(p, "=", 2)
			if len(kv) != 2 {
				continue
			}
			switch strings.ToLower(kv[0]) {
			case "password":
				opts.Password = kv[1]
			case "ssl":
				if strings.EqualFold(kv[1], "true") {
					opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
				}
			}
		}
	}
	return redis.NewClient(opts)
}

// Close releases the underlying client.
func (p *Publisher) Close() error { return p.client.Close() }

// Channel returns the pub/sub channel name.
func (p *Publisher) Channel() string { return p.channel }

func (p *Publisher) recentKey() string { return p.channel + ":recent" }

// Record implements board.Sink.
func (p *Publisher) Record(ctx context.Context, e board.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling feed entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	_, err = p.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, p.channel, data)
		pipe.LPush(ctx, p.recentKey(), data)
		if p.maxLen > 0 {
			pipe.LTrim(ctx, p.recentKey(), 0, int64(p.maxLen-1))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("publishing feed entry: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first.
func (p *Publisher) Recent(ctx context.Context, n int) ([]board.Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := p.client.LRange(ctx, p.recentKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading recent feed: %w", err)
	}
	out := make([]board.Entry, 0, len(raw))
	for _, r := range raw {
		var e board.Entry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, fmt.Errorf("decoding feed entry: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Follow calls fn for every record published until ctx ends.
// Undecodable messages are skipped.
func (p *Publisher) Follow(ctx context.Context, fn func(board.Entry)) error {
	sub := p.client.Subscribe(ctx, p.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribing to %s: %w", p.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var e board.Entry
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				continue
			}
			fn(e)
		}
	}
}
