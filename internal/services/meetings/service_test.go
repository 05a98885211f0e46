package meetings_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/integrations/zoom"
	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/meetings"
)

type memMeetingStore struct {
	nextID   int64
	meetings map[int64]pgrepo.MeetingRecord
}

func newMemMeetingStore() *memMeetingStore {
	return &memMeetingStore{meetings: map[int64]pgrepo.MeetingRecord{}}
}

func (s *memMeetingStore) Create(_ context.Context, record pgrepo.MeetingRecord) (int64, error) {
	s.nextID++
	record.ID = s.nextID
	s.meetings[record.ID] = record
	return record.ID, nil
}

func (s *memMeetingStore) GetByID(_ context.Context, meetingID int64) (pgrepo.MeetingRecord, error) {
	m, ok := s.meetings[meetingID]
	if !ok {
		return pgrepo.MeetingRecord{}, pgrepo.ErrMeetingNotFound
	}
	return m, nil
}

func (s *memMeetingStore) ListUpcomingForUser(_ context.Context, _ int64, now time.Time, _ int) ([]pgrepo.MeetingRecord, error) {
	var out []pgrepo.MeetingRecord
	for _, m := range s.meetings {
		if m.StartsAt.After(now) && m.Status == "scheduled" {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMeetingStore) SetStatus(_ context.Context, meetingID int64, status string) (bool, error) {
	m, ok := s.meetings[meetingID]
	if !ok || m.Status != "scheduled" {
		return false, nil
	}
	m.Status = status
	s.meetings[meetingID] = m
	return true, nil
}

type stubConnectionStore struct {
	records map[int64]pgrepo.ConnectionRecord
}

func (s *stubConnectionStore) GetByID(_ context.Context, connectionID int64) (pgrepo.ConnectionRecord, error) {
	rec, ok := s.records[connectionID]
	if !ok {
		return pgrepo.ConnectionRecord{}, pgrepo.ErrConnectionNotFound
	}
	return rec, nil
}

type stubVideo struct {
	fail    bool
	created int
	deleted []string
}

func (v *stubVideo) Enabled() bool { return true }

func (v *stubVideo) CreateMeeting(_ context.Context, _ string, _ time.Time, _ int) (zoom.Meeting, error) {
	if v.fail {
		return zoom.Meeting{}, fmt.Errorf("zoom down")
	}
	v.created++
	return zoom.Meeting{ID: "z-1", JoinURL: "https://zoom.example/j/z-1"}, nil
}

func (v *stubVideo) DeleteMeeting(_ context.Context, id string) error {
	v.deleted = append(v.deleted, id)
	return nil
}

type stubCalendar struct{ created int }

func (c *stubCalendar) Enabled() bool { return true }

func (c *stubCalendar) CreateEvent(_ context.Context, _ string, _ time.Time, _ int) (string, error) {
	c.created++
	return "ev-1", nil
}

func (c *stubCalendar) DeleteEvent(_ context.Context, _ string) error { return nil }

func newService(store *memMeetingStore, video *stubVideo, calendar *stubCalendar) *meetings.Service {
	connections := &stubConnectionStore{records: map[int64]pgrepo.ConnectionRecord{
		5: {ID: 5, User1ID: 1, User2ID: 2, Skill1: "python", Skill2: "guitar", Status: "accepted"},
		6: {ID: 6, User1ID: 1, User2ID: 3, Status: "pending"},
	}}
	return meetings.NewService(meetings.Dependencies{
		Meetings:    store,
		Connections: connections,
		Video:       video,
		Calendar:    calendar,
	})
}

func TestScheduleAttachesIntegrations(t *testing.T) {
	store := newMemMeetingStore()
	video := &stubVideo{}
	calendar := &stubCalendar{}
	svc := newService(store, video, calendar)

	record, err := svc.Schedule(context.Background(), 1, meetings.ScheduleInput{
		ConnectionID: 5,
		StartsAt:     time.Now().Add(24 * time.Hour),
		DurationMin:  60,
		WithZoom:     true,
		WithCalendar: true,
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if record.ZoomMeetingID != "z-1" || record.CalendarEvent != "ev-1" {
		t.Fatalf("integrations not attached: %+v", record)
	}
	if video.created != 1 || calendar.created != 1 {
		t.Fatalf("provider calls = %d/%d, want 1/1", video.created, calendar.created)
	}
}

func TestScheduleSurvivesProviderFailure(t *testing.T) {
	store := newMemMeetingStore()
	video := &stubVideo{fail: true}
	svc := newService(store, video, &stubCalendar{})

	record, err := svc.Schedule(context.Background(), 1, meetings.ScheduleInput{
		ConnectionID: 5,
		StartsAt:     time.Now().Add(24 * time.Hour),
		DurationMin:  60,
		WithZoom:     true,
	})
	if err != nil {
		t.Fatalf("schedule should succeed without zoom, got %v", err)
	}
	if record.ZoomMeetingID != "" {
		t.Fatalf("failed provider should leave no zoom id, got %q", record.ZoomMeetingID)
	}
}

func TestScheduleGuards(t *testing.T) {
	svc := newService(newMemMeetingStore(), &stubVideo{}, &stubCalendar{})
	ctx := context.Background()
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name    string
		actor   int64
		input   meetings.ScheduleInput
		wantErr error
	}{
		{"past start", 1, meetings.ScheduleInput{ConnectionID: 5, StartsAt: time.Now().Add(-time.Hour), DurationMin: 60}, meetings.ErrValidation},
		{"too short", 1, meetings.ScheduleInput{ConnectionID: 5, StartsAt: future, DurationMin: 5}, meetings.ErrValidation},
		{"unknown connection", 1, meetings.ScheduleInput{ConnectionID: 404, StartsAt: future, DurationMin: 60}, meetings.ErrConnectionNotFound},
		{"outsider", 9, meetings.ScheduleInput{ConnectionID: 5, StartsAt: future, DurationMin: 60}, meetings.ErrForbidden},
		{"pending connection", 1, meetings.ScheduleInput{ConnectionID: 6, StartsAt: future, DurationMin: 60}, meetings.ErrConnectionNotActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Schedule(ctx, tc.actor, tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCancelCleansUpAndIsSingleShot(t *testing.T) {
	store := newMemMeetingStore()
	video := &stubVideo{}
	svc := newService(store, video, &stubCalendar{})
	ctx := context.Background()

	record, err := svc.Schedule(ctx, 1, meetings.ScheduleInput{
		ConnectionID: 5,
		StartsAt:     time.Now().Add(24 * time.Hour),
		DurationMin:  60,
		WithZoom:     true,
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if err := svc.Cancel(ctx, 9, record.ID); !errors.Is(err, meetings.ErrForbidden) {
		t.Fatalf("outsider cancel should be forbidden, got %v", err)
	}
	if err := svc.Cancel(ctx, 2, record.ID); err != nil {
		t.Fatalf("partner cancel: %v", err)
	}
	if len(video.deleted) != 1 || video.deleted[0] != "z-1" {
		t.Fatalf("zoom cleanup calls = %v", video.deleted)
	}
	if err := svc.Cancel(ctx, 2, record.ID); !errors.Is(err, meetings.ErrNotCancellable) {
		t.Fatalf("second cancel should fail, got %v", err)
	}
}
