package connections

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
)

type memConnectionStore struct {
	nextID  int64
	records map[int64]pgrepo.ConnectionRecord
}

func newMemConnectionStore() *memConnectionStore {
	return &memConnectionStore{records: map[int64]pgrepo.ConnectionRecord{}}
}

func (s *memConnectionStore) pairTaken(a, b int64) (pgrepo.ConnectionRecord, bool) {
	for _, rec := range s.records {
		if (rec.User1ID == a && rec.User2ID == b) || (rec.User1ID == b && rec.User2ID == a) {
			return rec, true
		}
	}
	return pgrepo.ConnectionRecord{}, false
}

func (s *memConnectionStore) CreateRequest(_ context.Context, _ pgx.Tx, user1ID, user2ID int64, skill1, skill2 string) (pgrepo.ConnectionRecord, bool, error) {
	if _, taken := s.pairTaken(user1ID, user2ID); taken {
		return pgrepo.ConnectionRecord{}, false, nil
	}
	s.nextID++
	rec := pgrepo.ConnectionRecord{
		ID:      s.nextID,
		User1ID: user1ID,
		User2ID: user2ID,
		Skill1:  skill1,
		Skill2:  skill2,
		Status:  "pending",
	}
	s.records[rec.ID] = rec
	return rec, true, nil
}

func (s *memConnectionStore) GetByPair(_ context.Context, userA, userB int64) (pgrepo.ConnectionRecord, error) {
	if rec, ok := s.pairTaken(userA, userB); ok {
		return rec, nil
	}
	return pgrepo.ConnectionRecord{}, pgrepo.ErrConnectionNotFound
}

func (s *memConnectionStore) GetByID(_ context.Context, connectionID int64) (pgrepo.ConnectionRecord, error) {
	rec, ok := s.records[connectionID]
	if !ok {
		return pgrepo.ConnectionRecord{}, pgrepo.ErrConnectionNotFound
	}
	return rec, nil
}

func (s *memConnectionStore) UpdateStatusIfPending(_ context.Context, _ pgx.Tx, connectionID int64, status string) (pgrepo.ConnectionRecord, bool, error) {
	rec, ok := s.records[connectionID]
	if !ok || rec.Status != "pending" {
		return pgrepo.ConnectionRecord{}, false, nil
	}
	rec.Status = status
	s.records[connectionID] = rec
	return rec, true, nil
}

func (s *memConnectionStore) ListPendingForRecipient(_ context.Context, userID int64) ([]pgrepo.PendingRequestRecord, error) {
	var out []pgrepo.PendingRequestRecord
	for _, rec := range s.records {
		if rec.User2ID == userID && rec.Status == "pending" {
			out = append(out, pgrepo.PendingRequestRecord{ConnectionRecord: rec})
		}
	}
	return out, nil
}

func (s *memConnectionStore) ListAcceptedForUser(_ context.Context, userID int64) ([]pgrepo.ConnectionRecord, error) {
	var out []pgrepo.ConnectionRecord
	for _, rec := range s.records {
		if rec.Status == "accepted" && (rec.User1ID == userID || rec.User2ID == userID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memConnectionStore) DeleteByID(_ context.Context, _ pgx.Tx, connectionID int64) (bool, error) {
	if _, ok := s.records[connectionID]; !ok {
		return false, nil
	}
	delete(s.records, connectionID)
	return true, nil
}

type stubUserStore struct{ missing map[int64]bool }

func (s *stubUserStore) Exists(_ context.Context, userID int64) (bool, error) {
	return !s.missing[userID], nil
}

type memMeetingStore struct {
	meetings map[int64]pgrepo.MeetingRecord
	deleted  []int64
}

func newMemMeetingStore() *memMeetingStore {
	return &memMeetingStore{meetings: map[int64]pgrepo.MeetingRecord{}}
}

func (s *memMeetingStore) ListFutureByConnection(_ context.Context, connectionID int64, now time.Time) ([]pgrepo.MeetingRecord, error) {
	var out []pgrepo.MeetingRecord
	for _, m := range s.meetings {
		if m.ConnectionID == connectionID && m.StartsAt.After(now) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMeetingStore) DeleteByID(_ context.Context, _ pgx.Tx, meetingID int64) error {
	delete(s.meetings, meetingID)
	s.deleted = append(s.deleted, meetingID)
	return nil
}

type stubMessageStore struct{ deletedFor []int64 }

func (s *stubMessageStore) DeleteByConnection(_ context.Context, _ pgx.Tx, connectionID int64) (int64, error) {
	s.deletedFor = append(s.deletedFor, connectionID)
	return 0, nil
}

type recordingVideoCleaner struct {
	calls []string
	fail  bool
}

func (c *recordingVideoCleaner) Enabled() bool { return true }

func (c *recordingVideoCleaner) DeleteMeeting(_ context.Context, meetingID string) error {
	c.calls = append(c.calls, meetingID)
	if c.fail {
		return fmt.Errorf("zoom says no")
	}
	return nil
}

type recordingCalendarCleaner struct{ calls []string }

func (c *recordingCalendarCleaner) Enabled() bool { return true }

func (c *recordingCalendarCleaner) DeleteEvent(_ context.Context, eventID string) error {
	c.calls = append(c.calls, eventID)
	return nil
}

type fixture struct {
	svc         *Service
	connections *memConnectionStore
	meetings    *memMeetingStore
	messages    *stubMessageStore
	video       *recordingVideoCleaner
	calendar    *recordingCalendarCleaner
}

func newFixture() *fixture {
	f := &fixture{
		connections: newMemConnectionStore(),
		meetings:    newMemMeetingStore(),
		messages:    &stubMessageStore{},
		video:       &recordingVideoCleaner{},
		calendar:    &recordingCalendarCleaner{},
	}
	f.svc = NewService(Dependencies{
		Connections: f.connections,
		Users:       &stubUserStore{missing: map[int64]bool{}},
		Meetings:    f.meetings,
		Messages:    f.messages,
		Video:       f.video,
		Calendar:    f.calendar,
	})
	f.svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	return f
}

func TestSendRequestEnforcesSinglePair(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	rec, err := f.svc.SendRequest(ctx, 1, 2, "Python", "guitar")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if rec.Skill1 != "python" {
		t.Fatalf("teach skill should be normalized, got %q", rec.Skill1)
	}

	if _, err := f.svc.SendRequest(ctx, 1, 2, "python", "guitar"); !errors.Is(err, ErrAlreadyPending) {
		t.Fatalf("duplicate request should conflict as pending, got %v", err)
	}
	if _, err := f.svc.SendRequest(ctx, 2, 1, "guitar", "python"); !errors.Is(err, ErrAlreadyPending) {
		t.Fatalf("reversed pair should conflict too, got %v", err)
	}

	if _, err := f.svc.Respond(ctx, 2, rec.ID, "accepted"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if _, err := f.svc.SendRequest(ctx, 1, 2, "python", "guitar"); !errors.Is(err, ErrAlreadyMatched) {
		t.Fatalf("request against accepted pair should conflict as matched, got %v", err)
	}
}

func TestSendRequestValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.SendRequest(ctx, 1, 1, "python", "guitar"); !errors.Is(err, ErrSelfRequest) {
		t.Fatalf("self request should fail, got %v", err)
	}
	if _, err := f.svc.SendRequest(ctx, 1, 2, "  ", "guitar"); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank skill should fail validation, got %v", err)
	}

	f.svc.users = &stubUserStore{missing: map[int64]bool{3: true}}
	if _, err := f.svc.SendRequest(ctx, 1, 3, "python", "guitar"); !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("missing recipient should fail, got %v", err)
	}
}

func TestRespondOnlyRecipientAndOnlyOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	rec, err := f.svc.SendRequest(ctx, 1, 2, "python", "guitar")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}

	if _, err := f.svc.Respond(ctx, 1, rec.ID, "accepted"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("sender must not respond, got %v", err)
	}
	if _, err := f.svc.Respond(ctx, 2, rec.ID, "maybe"); !errors.Is(err, ErrValidation) {
		t.Fatalf("invalid status should fail validation, got %v", err)
	}
	if _, err := f.svc.Respond(ctx, 2, 999, "accepted"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown request should be not found, got %v", err)
	}

	updated, err := f.svc.Respond(ctx, 2, rec.ID, "accepted")
	if err != nil {
		t.Fatalf("first respond: %v", err)
	}
	if updated.Status != "accepted" {
		t.Fatalf("status = %q, want accepted", updated.Status)
	}

	if _, err := f.svc.Respond(ctx, 2, rec.ID, "accepted"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("second respond should conflict, got %v", err)
	}
}

func TestEndCascadesMeetingsAndExternalCleanup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	rec, err := f.svc.SendRequest(ctx, 1, 2, "python", "guitar")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if _, err := f.svc.Respond(ctx, 2, rec.ID, "accepted"); err != nil {
		t.Fatalf("respond: %v", err)
	}

	future := time.Now().Add(48 * time.Hour)
	f.meetings.meetings[100] = pgrepo.MeetingRecord{
		ID: 100, ConnectionID: rec.ID, StartsAt: future,
		ZoomMeetingID: "zoom-1", CalendarEvent: "cal-1",
	}
	f.meetings.meetings[101] = pgrepo.MeetingRecord{
		ID: 101, ConnectionID: rec.ID, StartsAt: future,
	}
	// Past meetings stay untouched by the cascade.
	f.meetings.meetings[102] = pgrepo.MeetingRecord{
		ID: 102, ConnectionID: rec.ID, StartsAt: time.Now().Add(-time.Hour),
	}

	f.video.fail = true

	removed, err := f.svc.End(ctx, 1, rec.ID, false)
	if err != nil {
		t.Fatalf("end connection: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if len(f.video.calls) != 1 || f.video.calls[0] != "zoom-1" {
		t.Fatalf("zoom cleanup calls = %v, want [zoom-1]", f.video.calls)
	}
	if len(f.calendar.calls) != 1 || f.calendar.calls[0] != "cal-1" {
		t.Fatalf("calendar cleanup calls = %v, want [cal-1]", f.calendar.calls)
	}
	if _, ok := f.meetings.meetings[102]; !ok {
		t.Fatalf("past meeting should survive the cascade")
	}
	if _, err := f.connections.GetByID(ctx, rec.ID); !errors.Is(err, pgrepo.ErrConnectionNotFound) {
		t.Fatalf("connection should be gone after failed zoom cleanup, got %v", err)
	}
	if len(f.messages.deletedFor) != 1 || f.messages.deletedFor[0] != rec.ID {
		t.Fatalf("messages should be removed with the connection, got %v", f.messages.deletedFor)
	}
}

func TestEndPermissions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	rec, err := f.svc.SendRequest(ctx, 1, 2, "python", "guitar")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}

	if _, err := f.svc.End(ctx, 99, rec.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider should be forbidden, got %v", err)
	}
	if _, err := f.svc.End(ctx, 99, rec.ID, true); err != nil {
		t.Fatalf("admin should be allowed, got %v", err)
	}
	if _, err := f.svc.End(ctx, 1, 424242, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown connection should be not found, got %v", err)
	}
}
