package telemetry

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"

	"github.com/j-veylop/uranus/internal/models"
)

func TestMetrics_Emit(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	ctx := context.Background()
	_ = m.Emit(ctx, rec("1", models.AudioInput("audio/webm", 1), okOutcome(flash, 40, 1500)))
	_ = m.Emit(ctx, rec("2", models.AudioInput("audio/webm", 1), okOutcome(flash, 60, 500)))
	_ = m.Emit(ctx, rec("3", models.URLInput("u"), models.FailedOutcome(pro, 10, "boom")))

	if got := testutil.ToFloat64(m.Requests.WithLabelValues(flash.ID, "audio", "true")); got != 2 {
		t.Errorf("flash successes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues(pro.ID, "url", "false")); got != 1 {
		t.Errorf("pro failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Tokens.WithLabelValues(flash.ID, "input")); got != 100 {
		t.Errorf("flash input tokens = %v, want 100", got)
	}
	if got := testutil.CollectAndCount(m.Latency); got != 2 {
		t.Errorf("latency series = %d, want 2", got)
	}

	if _, err := NewMetrics(reg); err == nil {
		t.Error("registering twice should fail")
	}
}

func TestRedisSink_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	sink, err := NewRedisSink("redis://"+mr.Addr(), "uranus:test")
	if err != nil {
		t.Fatalf("NewRedisSink failed: %v", err)
	}
	defer sink.Close()

	if err := sink.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	sub := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer sub.Close()
	pubsub := sub.Subscribe(ctx, "uranus:test")
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	want := rec("abc", models.URLInput("https://shop.example"), okOutcome(pro, 12, 34))
	if err := sink.Emit(ctx, want); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	select {
	case msg := <-pubsub.Channel():
		var got models.TelemetryRecord
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("payload is not a record: %v", err)
		}
		if got != want {
			t.Errorf("published %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}
}

func TestNewRedisSink_InvalidURL(t *testing.T) {
	if _, err := NewRedisSink("not-a-url", "c"); err == nil {
		t.Error("expected error for invalid url")
	}
}
