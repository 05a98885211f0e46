package meetings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/enums"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/integrations/zoom"
	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/notify"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrConnectionNotFound  = errors.New("connection not found")
	ErrConnectionNotActive = errors.New("connection is not accepted")
	ErrForbidden           = errors.New("not a participant of this meeting")
	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrNotCancellable      = errors.New("meeting is not in a cancellable state")
)

const (
	minDurationMin = 15
	maxDurationMin = 240
)

type MeetingStore interface {
	Create(ctx context.Context, record pgrepo.MeetingRecord) (int64, error)
	GetByID(ctx context.Context, meetingID int64) (pgrepo.MeetingRecord, error)
	ListUpcomingForUser(ctx context.Context, userID int64, now time.Time, limit int) ([]pgrepo.MeetingRecord, error)
	SetStatus(ctx context.Context, meetingID int64, status string) (bool, error)
}

type ConnectionStore interface {
	GetByID(ctx context.Context, connectionID int64) (pgrepo.ConnectionRecord, error)
}

type VideoProvider interface {
	Enabled() bool
	CreateMeeting(ctx context.Context, topic string, startsAt time.Time, durationMin int) (zoom.Meeting, error)
	DeleteMeeting(ctx context.Context, meetingID string) error
}

type CalendarProvider interface {
	Enabled() bool
	CreateEvent(ctx context.Context, summary string, startsAt time.Time, durationMin int) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

type Service struct {
	meetings    MeetingStore
	connections ConnectionStore
	video       VideoProvider
	calendar    CalendarProvider
	notifier    *notify.Service
	logger      *zap.Logger
	now         func() time.Time
}

type Dependencies struct {
	Meetings    MeetingStore
	Connections ConnectionStore
	Video       VideoProvider
	Calendar    CalendarProvider
	Notifier    *notify.Service
	Logger      *zap.Logger
}

type ScheduleInput struct {
	ConnectionID int64
	StartsAt     time.Time
	DurationMin  int
	WithZoom     bool
	WithCalendar bool
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		meetings:    deps.Meetings,
		connections: deps.Connections,
		video:       deps.Video,
		calendar:    deps.Calendar,
		notifier:    deps.Notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Schedule books a session on an accepted connection. Zoom and calendar
// resources are attached best-effort: a provider failure downgrades the
// meeting to a plain record instead of failing the request.
func (s *Service) Schedule(ctx context.Context, organizerID int64, input ScheduleInput) (pgrepo.MeetingRecord, error) {
	if organizerID <= 0 || input.ConnectionID <= 0 {
		return pgrepo.MeetingRecord{}, ErrValidation
	}
	if input.DurationMin < minDurationMin || input.DurationMin > maxDurationMin {
		return pgrepo.MeetingRecord{}, ErrValidation
	}
	if !input.StartsAt.After(s.now()) {
		return pgrepo.MeetingRecord{}, ErrValidation
	}

	conn, err := s.connections.GetByID(ctx, input.ConnectionID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return pgrepo.MeetingRecord{}, ErrConnectionNotFound
		}
		return pgrepo.MeetingRecord{}, fmt.Errorf("get connection: %w", err)
	}
	if conn.User1ID != organizerID && conn.User2ID != organizerID {
		return pgrepo.MeetingRecord{}, ErrForbidden
	}
	if enums.ConnectionStatus(conn.Status) != enums.ConnectionAccepted {
		return pgrepo.MeetingRecord{}, ErrConnectionNotActive
	}

	record := pgrepo.MeetingRecord{
		ConnectionID: input.ConnectionID,
		OrganizerID:  organizerID,
		StartsAt:     input.StartsAt.UTC(),
		DurationMin:  input.DurationMin,
		Status:       string(enums.MeetingScheduled),
	}

	topic := fmt.Sprintf("Skill swap: %s / %s", conn.Skill1, conn.Skill2)
	if input.WithZoom && s.video != nil && s.video.Enabled() {
		zm, err := s.video.CreateMeeting(ctx, topic, record.StartsAt, record.DurationMin)
		if err != nil {
			s.logger.Warn("zoom create failed", zap.Int64("connection_id", conn.ID), zap.Error(err))
		} else {
			record.ZoomMeetingID = zm.ID
			record.ZoomJoinURL = zm.JoinURL
		}
	}
	if input.WithCalendar && s.calendar != nil && s.calendar.Enabled() {
		eventID, err := s.calendar.CreateEvent(ctx, topic, record.StartsAt, record.DurationMin)
		if err != nil {
			s.logger.Warn("calendar create failed", zap.Int64("connection_id", conn.ID), zap.Error(err))
		} else {
			record.CalendarEvent = eventID
		}
	}

	meetingID, err := s.meetings.Create(ctx, record)
	if err != nil {
		return pgrepo.MeetingRecord{}, fmt.Errorf("create meeting: %w", err)
	}
	record.ID = meetingID

	partnerID := conn.User1ID
	if partnerID == organizerID {
		partnerID = conn.User2ID
	}
	s.notifier.Publish(ctx, partnerID, notify.EventMeetingScheduled, organizerID, map[string]interface{}{
		"meetingId": meetingID,
		"startsAt":  record.StartsAt,
	})

	return record, nil
}

func (s *Service) ListUpcoming(ctx context.Context, userID int64, limit int) ([]pgrepo.MeetingRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	return s.meetings.ListUpcomingForUser(ctx, userID, s.now(), limit)
}

// Cancel marks a scheduled meeting cancelled and cleans up its external
// resources best-effort.
func (s *Service) Cancel(ctx context.Context, actorID, meetingID int64) error {
	meeting, conn, err := s.loadForParticipant(ctx, actorID, meetingID)
	if err != nil {
		return err
	}

	applied, err := s.meetings.SetStatus(ctx, meetingID, string(enums.MeetingCancelled))
	if err != nil {
		return fmt.Errorf("cancel meeting: %w", err)
	}
	if !applied {
		return ErrNotCancellable
	}

	if meeting.ZoomMeetingID != "" && s.video != nil && s.video.Enabled() {
		if err := s.video.DeleteMeeting(ctx, meeting.ZoomMeetingID); err != nil {
			s.logger.Warn("zoom cleanup failed", zap.Int64("meeting_id", meetingID), zap.Error(err))
		}
	}
	if meeting.CalendarEvent != "" && s.calendar != nil && s.calendar.Enabled() {
		if err := s.calendar.DeleteEvent(ctx, meeting.CalendarEvent); err != nil {
			s.logger.Warn("calendar cleanup failed", zap.Int64("meeting_id", meetingID), zap.Error(err))
		}
	}

	partnerID := conn.User1ID
	if partnerID == actorID {
		partnerID = conn.User2ID
	}
	s.notifier.Publish(ctx, partnerID, notify.EventMeetingCancelled, actorID, map[string]int64{
		"meetingId": meetingID,
	})

	return nil
}

func (s *Service) Complete(ctx context.Context, actorID, meetingID int64) error {
	if _, _, err := s.loadForParticipant(ctx, actorID, meetingID); err != nil {
		return err
	}

	applied, err := s.meetings.SetStatus(ctx, meetingID, string(enums.MeetingCompleted))
	if err != nil {
		return fmt.Errorf("complete meeting: %w", err)
	}
	if !applied {
		return ErrNotCancellable
	}
	return nil
}

func (s *Service) loadForParticipant(ctx context.Context, actorID, meetingID int64) (pgrepo.MeetingRecord, pgrepo.ConnectionRecord, error) {
	if actorID <= 0 || meetingID <= 0 {
		return pgrepo.MeetingRecord{}, pgrepo.ConnectionRecord{}, ErrValidation
	}

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMeetingNotFound) {
			return pgrepo.MeetingRecord{}, pgrepo.ConnectionRecord{}, ErrMeetingNotFound
		}
		return pgrepo.MeetingRecord{}, pgrepo.ConnectionRecord{}, fmt.Errorf("get meeting: %w", err)
	}

	conn, err := s.connections.GetByID(ctx, meeting.ConnectionID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return pgrepo.MeetingRecord{}, pgrepo.ConnectionRecord{}, ErrMeetingNotFound
		}
		return pgrepo.MeetingRecord{}, pgrepo.ConnectionRecord{}, fmt.Errorf("get connection: %w", err)
	}
	if conn.User1ID != actorID && conn.User2ID != actorID {
		return pgrepo.MeetingRecord{}, pgrepo.ConnectionRecord{}, ErrForbidden
	}

	return meeting, conn, nil
}
