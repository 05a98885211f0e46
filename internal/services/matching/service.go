package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/rules"
	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrRequesterNotFound = errors.New("requester not found")
)

type CandidateStore interface {
	GetRequesterContext(ctx context.Context, userID int64) (pgrepo.RequesterContext, error)
	ListCandidates(ctx context.Context, requesterID int64, interest string, requesterSkills []string, excludeIDs []int64) ([]pgrepo.CandidateRecord, error)
}

type ConnectionStore interface {
	ListAcceptedPartnerIDs(ctx context.Context, userID int64) ([]int64, error)
}

type RatingStore interface {
	AverageForUsers(ctx context.Context, userIDs []int64) (map[int64]pgrepo.RatingAggregate, error)
}

type Service struct {
	candidates  CandidateStore
	connections ConnectionStore
	ratings     RatingStore
}

type Dependencies struct {
	Candidates  CandidateStore
	Connections ConnectionStore
	Ratings     RatingStore
}

// CandidateMatch is recomputed on every request; nothing here is persisted.
type CandidateMatch struct {
	UserID         int64
	DisplayName    string
	SkillsTheyWant []string
	AvgRating      *float64
	ReviewCount    int
}

func NewService(deps Dependencies) *Service {
	return &Service{
		candidates:  deps.Candidates,
		connections: deps.Connections,
		ratings:     deps.Ratings,
	}
}

// FindMatches returns reciprocal candidates for one requested interest:
// users who teach the interest and themselves want something the requester
// teaches. Candidates keep the order the store yields them in.
func (s *Service) FindMatches(ctx context.Context, requesterID int64, interest string) ([]CandidateMatch, error) {
	interest = rules.NormalizeSkill(interest)
	if requesterID <= 0 || interest == "" {
		return nil, ErrValidation
	}

	requester, err := s.candidates.GetRequesterContext(ctx, requesterID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrRequesterNotFound) {
			return nil, ErrRequesterNotFound
		}
		return nil, fmt.Errorf("load requester context: %w", err)
	}

	connectedIDs, err := s.connections.ListAcceptedPartnerIDs(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list accepted partners: %w", err)
	}

	candidates, err := s.candidates.ListCandidates(ctx, requesterID, interest, requester.Skills, connectedIDs)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	// An empty requester schedule passes everyone through; incomplete
	// profiles still get matches.
	filterByTime := len(requester.Availability) > 0

	surviving := make([]CandidateMatch, 0, len(candidates))
	survivingIDs := make([]int64, 0, len(candidates))
	for _, candidate := range candidates {
		if filterByTime && !rules.AnyOverlap(requester.Availability, candidate.Availability) {
			continue
		}
		surviving = append(surviving, CandidateMatch{
			UserID:         candidate.UserID,
			DisplayName:    candidate.DisplayName,
			SkillsTheyWant: rules.Intersect(candidate.Interests, requester.Skills),
		})
		survivingIDs = append(survivingIDs, candidate.UserID)
	}

	if len(survivingIDs) > 0 && s.ratings != nil {
		aggregates, err := s.ratings.AverageForUsers(ctx, survivingIDs)
		if err != nil {
			return nil, fmt.Errorf("aggregate candidate ratings: %w", err)
		}
		for i := range surviving {
			if agg, ok := aggregates[surviving[i].UserID]; ok {
				avg := agg.Avg
				surviving[i].AvgRating = &avg
				surviving[i].ReviewCount = agg.Count
			}
		}
	}

	return surviving, nil
}
