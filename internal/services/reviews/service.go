package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/enums"
	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotConnected = errors.New("users are not connected")
)

const maxCommentLen = 2000

type ReviewStore interface {
	Upsert(ctx context.Context, fromUserID, toUserID int64, rating int, comment string) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.ReviewRecord, error)
	AverageForUsers(ctx context.Context, userIDs []int64) (map[int64]pgrepo.RatingAggregate, error)
}

type ConnectionStore interface {
	GetByPair(ctx context.Context, userA, userB int64) (pgrepo.ConnectionRecord, error)
}

type Service struct {
	reviews     ReviewStore
	connections ConnectionStore
}

type Dependencies struct {
	Reviews     ReviewStore
	Connections ConnectionStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		reviews:     deps.Reviews,
		connections: deps.Connections,
	}
}

// Submit stores one review per reviewer/subject pair; a repeat submission
// overwrites the earlier rating. Only accepted partners may review each
// other.
func (s *Service) Submit(ctx context.Context, fromUserID, toUserID int64, rating int, comment string) error {
	comment = strings.TrimSpace(comment)
	if fromUserID <= 0 || toUserID <= 0 || fromUserID == toUserID {
		return ErrValidation
	}
	if rating < 1 || rating > 5 || len(comment) > maxCommentLen {
		return ErrValidation
	}

	conn, err := s.connections.GetByPair(ctx, fromUserID, toUserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return ErrNotConnected
		}
		return fmt.Errorf("get connection: %w", err)
	}
	if enums.ConnectionStatus(conn.Status) != enums.ConnectionAccepted {
		return ErrNotConnected
	}

	if err := s.reviews.Upsert(ctx, fromUserID, toUserID, rating, comment); err != nil {
		return fmt.Errorf("save review: %w", err)
	}
	return nil
}

func (s *Service) ListFor(ctx context.Context, userID int64, limit int) ([]pgrepo.ReviewRecord, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	return s.reviews.ListForUser(ctx, userID, limit)
}

// AverageFor feeds the matcher's rating annotation; one grouped query for
// the whole candidate set.
func (s *Service) AverageFor(ctx context.Context, userIDs []int64) (map[int64]pgrepo.RatingAggregate, error) {
	return s.reviews.AverageForUsers(ctx, userIDs)
}
