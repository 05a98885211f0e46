package profiles_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/model"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/profiles"
)

type stubProfileStore struct {
	saved     map[int64]model.Profile
	lastSlots []model.AvailabilitySlot
}

func newStubProfileStore() *stubProfileStore {
	return &stubProfileStore{saved: map[int64]model.Profile{}}
}

func (s *stubProfileStore) Get(_ context.Context, userID int64) (model.Profile, error) {
	profile, ok := s.saved[userID]
	if !ok {
		return model.Profile{}, errors.New("profile not found")
	}
	return profile, nil
}

func (s *stubProfileStore) SaveCore(_ context.Context, userID int64, displayName, bio, timezone string) error {
	profile := s.saved[userID]
	profile.UserID = userID
	profile.DisplayName = displayName
	profile.Bio = bio
	profile.Timezone = timezone
	s.saved[userID] = profile
	return nil
}

func (s *stubProfileStore) SaveSkills(_ context.Context, userID int64, skills, interests []string) error {
	profile := s.saved[userID]
	profile.UserID = userID
	profile.Skills = skills
	profile.Interests = interests
	s.saved[userID] = profile
	return nil
}

func (s *stubProfileStore) SaveAvailability(_ context.Context, userID int64, slots []model.AvailabilitySlot) error {
	s.lastSlots = slots
	return nil
}

func TestUpdateCoreValidation(t *testing.T) {
	store := newStubProfileStore()
	svc := profiles.NewService(store)
	ctx := context.Background()

	if err := svc.UpdateCore(ctx, 1, profiles.CoreInput{DisplayName: "  Alice  ", Timezone: "Europe/Berlin"}); err != nil {
		t.Fatalf("update core: %v", err)
	}
	if store.saved[1].DisplayName != "Alice" {
		t.Fatalf("display name was not trimmed: %q", store.saved[1].DisplayName)
	}

	if err := svc.UpdateCore(ctx, 1, profiles.CoreInput{DisplayName: "   "}); !errors.Is(err, profiles.ErrValidation) {
		t.Fatalf("blank display name should fail validation, got %v", err)
	}
	if err := svc.UpdateCore(ctx, 0, profiles.CoreInput{DisplayName: "Alice"}); !errors.Is(err, profiles.ErrValidation) {
		t.Fatalf("zero user id should fail validation, got %v", err)
	}
}

func TestUpdateSkillsNormalizes(t *testing.T) {
	store := newStubProfileStore()
	svc := profiles.NewService(store)

	err := svc.UpdateSkills(context.Background(), 7, profiles.SkillsInput{
		Skills:    []string{" Guitar ", "guitar", "", "Cooking"},
		Interests: []string{"Spanish"},
	})
	if err != nil {
		t.Fatalf("update skills: %v", err)
	}

	got := store.saved[7].Skills
	want := []string{"guitar", "cooking"}
	if len(got) != len(want) {
		t.Fatalf("skills = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("skills = %v, want %v", got, want)
		}
	}
}

func TestUpdateAvailabilityRejectsMalformedSlots(t *testing.T) {
	svc := profiles.NewService(newStubProfileStore())
	ctx := context.Background()

	good := []model.AvailabilitySlot{{DayOfWeek: 2, Start: "18:00", End: "19:30"}}
	if err := svc.UpdateAvailability(ctx, 3, good); err != nil {
		t.Fatalf("valid slots rejected: %v", err)
	}

	cases := []struct {
		name string
		slot model.AvailabilitySlot
	}{
		{"bad day", model.AvailabilitySlot{DayOfWeek: 7, Start: "18:00", End: "19:00"}},
		{"bad clock", model.AvailabilitySlot{DayOfWeek: 1, Start: "18h00", End: "19:00"}},
		{"minute overflow", model.AvailabilitySlot{DayOfWeek: 1, Start: "18:75", End: "19:00"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.UpdateAvailability(ctx, 3, []model.AvailabilitySlot{tc.slot})
			if !errors.Is(err, profiles.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}
