package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/redis"
)

func newBrokerForTest(t *testing.T) *redrepo.NotifyRepo {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redrepo.NewNotifyRepo(client)
}

func TestPublishReachesSubscriber(t *testing.T) {
	svc := NewService(newBrokerForTest(t), nil)
	ctx := context.Background()

	events, cancel, err := svc.Subscribe(ctx, 42)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	svc.Publish(ctx, 42, EventConnectionRequested, 7, map[string]int64{"connectionId": 11})

	select {
	case payload := <-events:
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if event.Type != EventConnectionRequested || event.ActorID != 7 {
			t.Fatalf("unexpected event: %+v", event)
		}
		var data struct {
			ConnectionID int64 `json:"connectionId"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			t.Fatalf("decode event data: %v", err)
		}
		if data.ConnectionID != 11 {
			t.Fatalf("unexpected connection id: %d", data.ConnectionID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event not delivered")
	}
}

func TestPublishOnNilServiceIsNoop(t *testing.T) {
	var svc *Service
	svc.Publish(context.Background(), 1, EventMessageCreated, 2, nil)
}

func TestSubscribeWithoutBrokerFails(t *testing.T) {
	svc := NewService(nil, nil)
	if _, _, err := svc.Subscribe(context.Background(), 1); err == nil {
		t.Fatalf("expected error without broker")
	}
}
