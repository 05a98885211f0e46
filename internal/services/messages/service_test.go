package messages

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
)

type memMessageStore struct {
	nextID  int64
	records []pgrepo.MessageRecord
}

func (s *memMessageStore) Create(_ context.Context, connectionID, senderID int64, body string) (pgrepo.MessageRecord, error) {
	s.nextID++
	record := pgrepo.MessageRecord{
		ID:           s.nextID,
		ConnectionID: connectionID,
		SenderID:     senderID,
		Body:         body,
		CreatedAt:    time.Now(),
	}
	s.records = append(s.records, record)
	return record, nil
}

func (s *memMessageStore) ListByConnection(_ context.Context, connectionID, beforeID int64, limit int) ([]pgrepo.MessageRecord, error) {
	var out []pgrepo.MessageRecord
	for i := len(s.records) - 1; i >= 0; i-- {
		record := s.records[i]
		if record.ConnectionID != connectionID {
			continue
		}
		if beforeID > 0 && record.ID >= beforeID {
			continue
		}
		out = append(out, record)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type connectionStoreStub struct {
	conns map[int64]pgrepo.ConnectionRecord
}

func (s connectionStoreStub) GetByID(_ context.Context, connectionID int64) (pgrepo.ConnectionRecord, error) {
	conn, ok := s.conns[connectionID]
	if !ok {
		return pgrepo.ConnectionRecord{}, pgrepo.ErrConnectionNotFound
	}
	return conn, nil
}

func newMessagesServiceForTest() (*Service, *memMessageStore) {
	store := &memMessageStore{}
	svc := NewService(Dependencies{
		Messages: store,
		Connections: connectionStoreStub{conns: map[int64]pgrepo.ConnectionRecord{
			5: {ID: 5, User1ID: 1, User2ID: 2, Status: "accepted"},
			6: {ID: 6, User1ID: 1, User2ID: 3, Status: "pending"},
		}},
	})
	return svc, store
}

func TestSendStoresMessageForParticipant(t *testing.T) {
	svc, store := newMessagesServiceForTest()

	record, err := svc.Send(context.Background(), 1, 5, "  see you at 18:00  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if record.Body != "see you at 18:00" {
		t.Fatalf("body not trimmed: %q", record.Body)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected one stored message, got %d", len(store.records))
	}
}

func TestSendGuards(t *testing.T) {
	svc, _ := newMessagesServiceForTest()
	ctx := context.Background()

	cases := []struct {
		name         string
		senderID     int64
		connectionID int64
		body         string
		wantErr      error
	}{
		{"empty body", 1, 5, "   ", ErrValidation},
		{"unknown connection", 1, 99, "hi", ErrConnectionNotFound},
		{"outsider", 7, 5, "hi", ErrNotParticipant},
		{"pending connection", 1, 6, "hi", ErrConnectionInactive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Send(ctx, tc.senderID, tc.connectionID, tc.body); !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v want %v", err, tc.wantErr)
			}
		})
	}
}

func TestListConversationPagesBackwards(t *testing.T) {
	svc, _ := newMessagesServiceForTest()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Send(ctx, 1, 5, "message"); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	page, err := svc.ListConversation(ctx, 2, 5, 0, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].ID != 5 || page[1].ID != 4 {
		t.Fatalf("unexpected first page: %+v", page)
	}

	page, err = svc.ListConversation(ctx, 2, 5, page[1].ID, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].ID != 3 || page[1].ID != 2 {
		t.Fatalf("unexpected second page: %+v", page)
	}
}

func TestListConversationRequiresParticipant(t *testing.T) {
	svc, _ := newMessagesServiceForTest()

	if _, err := svc.ListConversation(context.Background(), 7, 5, 0, 10); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("got %v want %v", err, ErrNotParticipant)
	}
}
