package connections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/enums"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/rules"
	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/notify"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrSelfRequest       = errors.New("cannot send a request to yourself")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrNotFound          = errors.New("connection not found")
	ErrForbidden         = errors.New("not allowed for this connection")
	ErrAlreadyPending    = errors.New("a pending request already exists for this pair")
	ErrAlreadyMatched    = errors.New("these users are already connected")
	ErrAlreadyDecided    = errors.New("a previous request for this pair was already processed")
	ErrNotPending        = errors.New("request is no longer pending")
)

type ConnectionStore interface {
	CreateRequest(ctx context.Context, tx pgx.Tx, user1ID, user2ID int64, skill1, skill2 string) (pgrepo.ConnectionRecord, bool, error)
	GetByPair(ctx context.Context, userA, userB int64) (pgrepo.ConnectionRecord, error)
	GetByID(ctx context.Context, connectionID int64) (pgrepo.ConnectionRecord, error)
	UpdateStatusIfPending(ctx context.Context, tx pgx.Tx, connectionID int64, status string) (pgrepo.ConnectionRecord, bool, error)
	ListPendingForRecipient(ctx context.Context, userID int64) ([]pgrepo.PendingRequestRecord, error)
	ListAcceptedForUser(ctx context.Context, userID int64) ([]pgrepo.ConnectionRecord, error)
	DeleteByID(ctx context.Context, tx pgx.Tx, connectionID int64) (bool, error)
}

type UserStore interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

type MeetingStore interface {
	ListFutureByConnection(ctx context.Context, connectionID int64, now time.Time) ([]pgrepo.MeetingRecord, error)
	DeleteByID(ctx context.Context, tx pgx.Tx, meetingID int64) error
}

type MessageStore interface {
	DeleteByConnection(ctx context.Context, tx pgx.Tx, connectionID int64) (int64, error)
}

type VideoCleaner interface {
	Enabled() bool
	DeleteMeeting(ctx context.Context, meetingID string) error
}

type CalendarCleaner interface {
	Enabled() bool
	DeleteEvent(ctx context.Context, eventID string) error
}

type Service struct {
	pool        *pgxpool.Pool
	runTx       func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	connections ConnectionStore
	users       UserStore
	meetings    MeetingStore
	messages    MessageStore
	video       VideoCleaner
	calendar    CalendarCleaner
	notifier    *notify.Service
	logger      *zap.Logger
	now         func() time.Time
}

type Dependencies struct {
	Pool        *pgxpool.Pool
	Connections ConnectionStore
	Users       UserStore
	Meetings    MeetingStore
	Messages    MessageStore
	Video       VideoCleaner
	Calendar    CalendarCleaner
	Notifier    *notify.Service
	Logger      *zap.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pool := deps.Pool
	return &Service{
		pool: pool,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
		connections: deps.Connections,
		users:       deps.Users,
		meetings:    deps.Meetings,
		messages:    deps.Messages,
		video:       deps.Video,
		calendar:    deps.Calendar,
		notifier:    deps.Notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// SendRequest creates a pending connection from sender to recipient.
// Skill1 is what the sender teaches, skill2 what the recipient teaches.
func (s *Service) SendRequest(ctx context.Context, senderID, recipientID int64, teachSkill, learnSkill string) (pgrepo.ConnectionRecord, error) {
	teachSkill = rules.NormalizeSkill(teachSkill)
	learnSkill = rules.NormalizeSkill(learnSkill)
	if senderID <= 0 || recipientID <= 0 || teachSkill == "" || learnSkill == "" {
		return pgrepo.ConnectionRecord{}, ErrValidation
	}
	if senderID == recipientID {
		return pgrepo.ConnectionRecord{}, ErrSelfRequest
	}

	exists, err := s.users.Exists(ctx, recipientID)
	if err != nil {
		return pgrepo.ConnectionRecord{}, fmt.Errorf("check recipient: %w", err)
	}
	if !exists {
		return pgrepo.ConnectionRecord{}, ErrRecipientNotFound
	}

	var record pgrepo.ConnectionRecord
	var inserted bool
	err = s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		record, inserted, err = s.connections.CreateRequest(txCtx, tx, senderID, recipientID, teachSkill, learnSkill)
		return err
	})
	if err != nil {
		return pgrepo.ConnectionRecord{}, fmt.Errorf("create connection request: %w", err)
	}

	if !inserted {
		return pgrepo.ConnectionRecord{}, s.classifyExisting(ctx, senderID, recipientID)
	}

	s.notifier.Publish(ctx, recipientID, notify.EventConnectionRequested, senderID, map[string]int64{
		"connectionId": record.ID,
	})

	return record, nil
}

// classifyExisting keeps the distinct conflict messages for an occupied
// pair. Every branch is still the same conflict kind for the caller.
func (s *Service) classifyExisting(ctx context.Context, senderID, recipientID int64) error {
	existing, err := s.connections.GetByPair(ctx, senderID, recipientID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			// Lost between insert and lookup; report the generic variant.
			return ErrAlreadyDecided
		}
		return fmt.Errorf("inspect existing connection: %w", err)
	}

	switch enums.ConnectionStatus(existing.Status) {
	case enums.ConnectionPending:
		return ErrAlreadyPending
	case enums.ConnectionAccepted:
		return ErrAlreadyMatched
	default:
		return ErrAlreadyDecided
	}
}

// Respond transitions a pending request to accepted or rejected. Only the
// recipient may do this, and only once.
func (s *Service) Respond(ctx context.Context, actorID, requestID int64, status string) (pgrepo.ConnectionRecord, error) {
	st := enums.ConnectionStatus(status)
	if actorID <= 0 || requestID <= 0 || !st.Terminal() {
		return pgrepo.ConnectionRecord{}, ErrValidation
	}

	record, err := s.connections.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return pgrepo.ConnectionRecord{}, ErrNotFound
		}
		return pgrepo.ConnectionRecord{}, fmt.Errorf("get connection: %w", err)
	}
	if record.User2ID != actorID {
		return pgrepo.ConnectionRecord{}, ErrForbidden
	}

	var updated pgrepo.ConnectionRecord
	var applied bool
	err = s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		updated, applied, err = s.connections.UpdateStatusIfPending(txCtx, tx, requestID, string(st))
		return err
	})
	if err != nil {
		return pgrepo.ConnectionRecord{}, fmt.Errorf("update connection status: %w", err)
	}
	if !applied {
		return pgrepo.ConnectionRecord{}, ErrNotPending
	}

	if st == enums.ConnectionAccepted {
		s.notifier.Publish(ctx, updated.User1ID, notify.EventConnectionAccepted, actorID, map[string]int64{
			"connectionId": updated.ID,
		})
	}

	return updated, nil
}

func (s *Service) ListPending(ctx context.Context, userID int64) ([]pgrepo.PendingRequestRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	return s.connections.ListPendingForRecipient(ctx, userID)
}

func (s *Service) ListAccepted(ctx context.Context, userID int64) ([]pgrepo.ConnectionRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	return s.connections.ListAcceptedForUser(ctx, userID)
}

// End deletes a connection with its future meetings and messages. External
// Zoom and calendar resources are cleaned up best-effort first; a failed
// cleanup call is logged and never aborts the delete. Returns the number of
// removed meetings.
func (s *Service) End(ctx context.Context, actorID, connectionID int64, asAdmin bool) (int, error) {
	if actorID <= 0 || connectionID <= 0 {
		return 0, ErrValidation
	}

	record, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get connection: %w", err)
	}
	if !asAdmin && record.User1ID != actorID && record.User2ID != actorID {
		return 0, ErrForbidden
	}

	meetings, err := s.meetings.ListFutureByConnection(ctx, connectionID, s.now())
	if err != nil {
		return 0, fmt.Errorf("list future meetings: %w", err)
	}

	for _, meeting := range meetings {
		s.cleanupExternal(ctx, meeting)
	}

	err = s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		for _, meeting := range meetings {
			if err := s.meetings.DeleteByID(txCtx, tx, meeting.ID); err != nil {
				return err
			}
		}
		if s.messages != nil {
			if _, err := s.messages.DeleteByConnection(txCtx, tx, connectionID); err != nil {
				return err
			}
		}
		deleted, err := s.connections.DeleteByID(txCtx, tx, connectionID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("delete connection cascade: %w", err)
	}

	for _, userID := range []int64{record.User1ID, record.User2ID} {
		if userID != actorID {
			s.notifier.Publish(ctx, userID, notify.EventConnectionEnded, actorID, map[string]int64{
				"connectionId": connectionID,
			})
		}
	}

	return len(meetings), nil
}

func (s *Service) cleanupExternal(ctx context.Context, meeting pgrepo.MeetingRecord) {
	if meeting.ZoomMeetingID != "" && s.video != nil && s.video.Enabled() {
		if err := s.video.DeleteMeeting(ctx, meeting.ZoomMeetingID); err != nil {
			s.logger.Warn("zoom cleanup failed",
				zap.Int64("meeting_id", meeting.ID),
				zap.String("zoom_meeting_id", meeting.ZoomMeetingID),
				zap.Error(err),
			)
		}
	}
	if meeting.CalendarEvent != "" && s.calendar != nil && s.calendar.Enabled() {
		if err := s.calendar.DeleteEvent(ctx, meeting.CalendarEvent); err != nil {
			s.logger.Warn("calendar cleanup failed",
				zap.Int64("meeting_id", meeting.ID),
				zap.String("calendar_event", meeting.CalendarEvent),
				zap.Error(err),
			)
		}
	}
}
