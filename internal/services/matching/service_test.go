package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/model"
	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/matching"
)

type stubCandidateStore struct {
	requester  pgrepo.RequesterContext
	requestErr error
	candidates []pgrepo.CandidateRecord

	lastInterest string
	lastExclude  []int64
}

func (s *stubCandidateStore) GetRequesterContext(_ context.Context, _ int64) (pgrepo.RequesterContext, error) {
	if s.requestErr != nil {
		return pgrepo.RequesterContext{}, s.requestErr
	}
	return s.requester, nil
}

func (s *stubCandidateStore) ListCandidates(_ context.Context, requesterID int64, interest string, requesterSkills []string, excludeIDs []int64) ([]pgrepo.CandidateRecord, error) {
	s.lastInterest = interest
	s.lastExclude = excludeIDs

	out := make([]pgrepo.CandidateRecord, 0, len(s.candidates))
	for _, candidate := range s.candidates {
		if candidate.UserID == requesterID || containsID(excludeIDs, candidate.UserID) {
			continue
		}
		out = append(out, candidate)
	}
	return out, nil
}

type stubConnectionStore struct {
	partnerIDs []int64
}

func (s *stubConnectionStore) ListAcceptedPartnerIDs(_ context.Context, _ int64) ([]int64, error) {
	return s.partnerIDs, nil
}

type stubRatingStore struct {
	aggregates map[int64]pgrepo.RatingAggregate
	queried    []int64
}

func (s *stubRatingStore) AverageForUsers(_ context.Context, userIDs []int64) (map[int64]pgrepo.RatingAggregate, error) {
	s.queried = userIDs
	return s.aggregates, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func newMatchingService(candidates *stubCandidateStore, connections *stubConnectionStore, ratings *stubRatingStore) *matching.Service {
	return matching.NewService(matching.Dependencies{
		Candidates:  candidates,
		Connections: connections,
		Ratings:     ratings,
	})
}

func TestFindMatchesReciprocityAndWantedSkills(t *testing.T) {
	candidates := &stubCandidateStore{
		requester: pgrepo.RequesterContext{UserID: 1, Skills: []string{"python"}},
		candidates: []pgrepo.CandidateRecord{
			{UserID: 10, DisplayName: "X", Interests: []string{"python", "spanish"}},
		},
	}
	svc := newMatchingService(candidates, &stubConnectionStore{}, &stubRatingStore{})

	result, err := svc.FindMatches(context.Background(), 1, "guitar")
	if err != nil {
		t.Fatalf("find matches: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("got %d matches, want 1", len(result))
	}
	match := result[0]
	if match.UserID != 10 {
		t.Fatalf("match user = %d, want 10", match.UserID)
	}
	if len(match.SkillsTheyWant) != 1 || match.SkillsTheyWant[0] != "python" {
		t.Fatalf("skillsTheyWant = %v, want [python]", match.SkillsTheyWant)
	}
	if match.AvgRating != nil || match.ReviewCount != 0 {
		t.Fatalf("unrated candidate should have nil avg and zero count, got %v/%d", match.AvgRating, match.ReviewCount)
	}
	if candidates.lastInterest != "guitar" {
		t.Fatalf("interest passed to store = %q", candidates.lastInterest)
	}
}

func TestFindMatchesExcludesAcceptedPartners(t *testing.T) {
	candidates := &stubCandidateStore{
		requester: pgrepo.RequesterContext{UserID: 1, Skills: []string{"python"}},
		candidates: []pgrepo.CandidateRecord{
			{UserID: 10, DisplayName: "X", Interests: []string{"python"}},
			{UserID: 11, DisplayName: "Y", Interests: []string{"python"}},
		},
	}
	svc := newMatchingService(candidates, &stubConnectionStore{partnerIDs: []int64{10}}, &stubRatingStore{})

	result, err := svc.FindMatches(context.Background(), 1, "guitar")
	if err != nil {
		t.Fatalf("find matches: %v", err)
	}
	if len(result) != 1 || result[0].UserID != 11 {
		t.Fatalf("connected candidate should be excluded, got %+v", result)
	}
	if !containsID(candidates.lastExclude, 10) {
		t.Fatalf("exclusion list should carry partner id, got %v", candidates.lastExclude)
	}
}

func TestFindMatchesAvailabilityGating(t *testing.T) {
	slot := func(day int, start, end string) model.AvailabilitySlot {
		return model.AvailabilitySlot{DayOfWeek: day, Start: start, End: end}
	}

	cases := []struct {
		name          string
		requesterAvai []model.AvailabilitySlot
		candidateAvai []model.AvailabilitySlot
		wantIncluded  bool
	}{
		{
			name:          "empty requester schedule skips the filter",
			requesterAvai: nil,
			candidateAvai: nil,
			wantIncluded:  true,
		},
		{
			name:          "touching slots do not overlap",
			requesterAvai: []model.AvailabilitySlot{slot(1, "18:00", "19:00")},
			candidateAvai: []model.AvailabilitySlot{slot(1, "19:00", "20:00")},
			wantIncluded:  false,
		},
		{
			name:          "partial overlap passes",
			requesterAvai: []model.AvailabilitySlot{slot(1, "18:00", "19:00")},
			candidateAvai: []model.AvailabilitySlot{slot(1, "18:30", "19:30")},
			wantIncluded:  true,
		},
		{
			name:          "same clock different day is excluded",
			requesterAvai: []model.AvailabilitySlot{slot(1, "18:00", "19:00")},
			candidateAvai: []model.AvailabilitySlot{slot(2, "18:00", "19:00")},
			wantIncluded:  false,
		},
		{
			name:          "malformed candidate slot is skipped",
			requesterAvai: []model.AvailabilitySlot{slot(1, "18:00", "19:00")},
			candidateAvai: []model.AvailabilitySlot{slot(1, "18h00", "19:00")},
			wantIncluded:  false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidates := &stubCandidateStore{
				requester: pgrepo.RequesterContext{
					UserID:       1,
					Skills:       []string{"python"},
					Availability: tc.requesterAvai,
				},
				candidates: []pgrepo.CandidateRecord{
					{UserID: 10, Interests: []string{"python"}, Availability: tc.candidateAvai},
				},
			}
			svc := newMatchingService(candidates, &stubConnectionStore{}, &stubRatingStore{})

			result, err := svc.FindMatches(context.Background(), 1, "guitar")
			if err != nil {
				t.Fatalf("find matches: %v", err)
			}
			if included := len(result) == 1; included != tc.wantIncluded {
				t.Fatalf("included = %v, want %v", included, tc.wantIncluded)
			}
		})
	}
}

func TestFindMatchesRatingAnnotation(t *testing.T) {
	candidates := &stubCandidateStore{
		requester: pgrepo.RequesterContext{UserID: 1, Skills: []string{"python"}},
		candidates: []pgrepo.CandidateRecord{
			{UserID: 10, Interests: []string{"python"}},
			{UserID: 11, Interests: []string{"python"}},
		},
	}
	ratings := &stubRatingStore{aggregates: map[int64]pgrepo.RatingAggregate{
		10: {Avg: 4.5, Count: 2},
	}}
	svc := newMatchingService(candidates, &stubConnectionStore{}, ratings)

	result, err := svc.FindMatches(context.Background(), 1, "guitar")
	if err != nil {
		t.Fatalf("find matches: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("got %d matches, want 2", len(result))
	}
	if result[0].AvgRating == nil || *result[0].AvgRating != 4.5 || result[0].ReviewCount != 2 {
		t.Fatalf("rated candidate annotation wrong: %+v", result[0])
	}
	if result[1].AvgRating != nil || result[1].ReviewCount != 0 {
		t.Fatalf("unrated candidate should default to nil/0: %+v", result[1])
	}
	if len(ratings.queried) != 2 {
		t.Fatalf("ratings should be fetched in one batch for all survivors, got %v", ratings.queried)
	}
}

func TestFindMatchesErrors(t *testing.T) {
	svc := newMatchingService(&stubCandidateStore{requestErr: pgrepo.ErrRequesterNotFound}, &stubConnectionStore{}, &stubRatingStore{})

	if _, err := svc.FindMatches(context.Background(), 99, "guitar"); !errors.Is(err, matching.ErrRequesterNotFound) {
		t.Fatalf("missing requester should map to ErrRequesterNotFound, got %v", err)
	}
	if _, err := svc.FindMatches(context.Background(), 1, "   "); !errors.Is(err, matching.ErrValidation) {
		t.Fatalf("blank interest should fail validation, got %v", err)
	}
}
