package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/enums"
	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/notify"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrNotParticipant     = errors.New("not a participant of this connection")
	ErrConnectionInactive = errors.New("connection is not accepted")
)

const maxBodyLen = 4000

type MessageStore interface {
	Create(ctx context.Context, connectionID, senderID int64, body string) (pgrepo.MessageRecord, error)
	ListByConnection(ctx context.Context, connectionID, beforeID int64, limit int) ([]pgrepo.MessageRecord, error)
}

type ConnectionStore interface {
	GetByID(ctx context.Context, connectionID int64) (pgrepo.ConnectionRecord, error)
}

type Service struct {
	messages    MessageStore
	connections ConnectionStore
	notifier    *notify.Service
}

type Dependencies struct {
	Messages    MessageStore
	Connections ConnectionStore
	Notifier    *notify.Service
}

func NewService(deps Dependencies) *Service {
	return &Service{
		messages:    deps.Messages,
		connections: deps.Connections,
		notifier:    deps.Notifier,
	}
}

func (s *Service) Send(ctx context.Context, senderID, connectionID int64, body string) (pgrepo.MessageRecord, error) {
	body = strings.TrimSpace(body)
	if senderID <= 0 || connectionID <= 0 || body == "" || len(body) > maxBodyLen {
		return pgrepo.MessageRecord{}, ErrValidation
	}

	conn, err := s.loadParticipantConnection(ctx, senderID, connectionID)
	if err != nil {
		return pgrepo.MessageRecord{}, err
	}
	if enums.ConnectionStatus(conn.Status) != enums.ConnectionAccepted {
		return pgrepo.MessageRecord{}, ErrConnectionInactive
	}

	record, err := s.messages.Create(ctx, connectionID, senderID, body)
	if err != nil {
		return pgrepo.MessageRecord{}, fmt.Errorf("create message: %w", err)
	}

	recipientID := conn.User1ID
	if recipientID == senderID {
		recipientID = conn.User2ID
	}
	s.notifier.Publish(ctx, recipientID, notify.EventMessageCreated, senderID, map[string]interface{}{
		"messageId":    record.ID,
		"connectionId": connectionID,
	})

	return record, nil
}

func (s *Service) ListConversation(ctx context.Context, userID, connectionID, beforeID int64, limit int) ([]pgrepo.MessageRecord, error) {
	if userID <= 0 || connectionID <= 0 {
		return nil, ErrValidation
	}

	if _, err := s.loadParticipantConnection(ctx, userID, connectionID); err != nil {
		return nil, err
	}

	return s.messages.ListByConnection(ctx, connectionID, beforeID, limit)
}

func (s *Service) loadParticipantConnection(ctx context.Context, userID, connectionID int64) (pgrepo.ConnectionRecord, error) {
	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return pgrepo.ConnectionRecord{}, ErrConnectionNotFound
		}
		return pgrepo.ConnectionRecord{}, fmt.Errorf("get connection: %w", err)
	}
	if conn.User1ID != userID && conn.User2ID != userID {
		return pgrepo.ConnectionRecord{}, ErrNotParticipant
	}
	return conn, nil
}
