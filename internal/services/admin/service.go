package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/enums"
	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrUserNotFound   = errors.New("user not found")
	ErrReportNotFound = errors.New("report not found")
)

const maxDetailsLen = 2000

type UserStore interface {
	Exists(ctx context.Context, userID int64) (bool, error)
	SetBanned(ctx context.Context, userID int64, banned bool) (bool, error)
	List(ctx context.Context, limit, offset int) ([]pgrepo.UserListRecord, error)
}

type ReportStore interface {
	Create(ctx context.Context, reporterID, reportedUserID int64, reason, details string) (pgrepo.ReportRecord, error)
	List(ctx context.Context, onlyOpen bool, limit int) ([]pgrepo.ReportRecord, error)
	Resolve(ctx context.Context, reportID int64) (pgrepo.ReportRecord, error)
}

type SessionRevoker interface {
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type Service struct {
	users    UserStore
	reports  ReportStore
	sessions SessionRevoker
	logger   *zap.Logger
}

type Dependencies struct {
	Users    UserStore
	Reports  ReportStore
	Sessions SessionRevoker
	Logger   *zap.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:    deps.Users,
		reports:  deps.Reports,
		sessions: deps.Sessions,
		logger:   logger,
	}
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]pgrepo.UserListRecord, error) {
	return s.users.List(ctx, limit, offset)
}

// SetBanned flips a user's ban flag. Banning also revokes every live
// session so the user drops out immediately; revocation failure is logged
// since the ban flag alone already blocks logins.
func (s *Service) SetBanned(ctx context.Context, userID int64, banned bool) error {
	if userID <= 0 {
		return ErrValidation
	}

	applied, err := s.users.SetBanned(ctx, userID, banned)
	if err != nil {
		return fmt.Errorf("set banned: %w", err)
	}
	if !applied {
		return ErrUserNotFound
	}

	if banned && s.sessions != nil {
		if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
			s.logger.Warn("revoke banned user sessions", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	return nil
}

// SubmitReport is the user-facing entry for flagging another user.
func (s *Service) SubmitReport(ctx context.Context, reporterID, reportedUserID int64, reason, details string) (pgrepo.ReportRecord, error) {
	details = strings.TrimSpace(details)
	if reporterID <= 0 || reportedUserID <= 0 || reporterID == reportedUserID {
		return pgrepo.ReportRecord{}, ErrValidation
	}
	if !enums.ReportReason(reason).Valid() || len(details) > maxDetailsLen {
		return pgrepo.ReportRecord{}, ErrValidation
	}

	exists, err := s.users.Exists(ctx, reportedUserID)
	if err != nil {
		return pgrepo.ReportRecord{}, fmt.Errorf("check reported user: %w", err)
	}
	if !exists {
		return pgrepo.ReportRecord{}, ErrUserNotFound
	}

	record, err := s.reports.Create(ctx, reporterID, reportedUserID, reason, details)
	if err != nil {
		return pgrepo.ReportRecord{}, fmt.Errorf("create report: %w", err)
	}
	return record, nil
}

func (s *Service) ListReports(ctx context.Context, onlyOpen bool, limit int) ([]pgrepo.ReportRecord, error) {
	return s.reports.List(ctx, onlyOpen, limit)
}

func (s *Service) ResolveReport(ctx context.Context, reportID int64) (pgrepo.ReportRecord, error) {
	if reportID <= 0 {
		return pgrepo.ReportRecord{}, ErrValidation
	}

	record, err := s.reports.Resolve(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrReportNotFound) {
			return pgrepo.ReportRecord{}, ErrReportNotFound
		}
		return pgrepo.ReportRecord{}, fmt.Errorf("resolve report: %w", err)
	}
	return record, nil
}
