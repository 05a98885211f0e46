package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/model"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/rules"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/pkg/validate"
)

var ErrValidation = errors.New("validation error")

const (
	maxDisplayNameLen = 80
	maxBioLen         = 1000
	maxSkills         = 30
	maxSlots          = 50
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (model.Profile, error)
	SaveCore(ctx context.Context, userID int64, displayName, bio, timezone string) error
	SaveSkills(ctx context.Context, userID int64, skills, interests []string) error
	SaveAvailability(ctx context.Context, userID int64, slots []model.AvailabilitySlot) error
}

type Service struct {
	store ProfileStore
}

type CoreInput struct {
	DisplayName string
	Bio         string
	Timezone    string
}

type SkillsInput struct {
	Skills    []string
	Interests []string
}

func NewService(store ProfileStore) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, ErrValidation
	}

	profile, err := s.store.Get(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

func (s *Service) UpdateCore(ctx context.Context, userID int64, input CoreInput) error {
	if userID <= 0 {
		return ErrValidation
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if !validate.Required(displayName) || !validate.MaxLen(displayName, maxDisplayNameLen) {
		return ErrValidation
	}
	if !validate.MaxLen(input.Bio, maxBioLen) {
		return ErrValidation
	}

	if err := s.store.SaveCore(ctx, userID, displayName, strings.TrimSpace(input.Bio), strings.TrimSpace(input.Timezone)); err != nil {
		return fmt.Errorf("save profile core: %w", err)
	}
	return nil
}

func (s *Service) UpdateSkills(ctx context.Context, userID int64, input SkillsInput) error {
	if userID <= 0 {
		return ErrValidation
	}

	skills := rules.NormalizeSkills(input.Skills)
	interests := rules.NormalizeSkills(input.Interests)
	if len(skills) > maxSkills || len(interests) > maxSkills {
		return ErrValidation
	}

	if err := s.store.SaveSkills(ctx, userID, skills, interests); err != nil {
		return fmt.Errorf("save profile skills: %w", err)
	}
	return nil
}

func (s *Service) UpdateAvailability(ctx context.Context, userID int64, slots []model.AvailabilitySlot) error {
	if userID <= 0 {
		return ErrValidation
	}
	if len(slots) > maxSlots {
		return ErrValidation
	}
	for _, slot := range slots {
		if !rules.ValidSlot(slot) {
			return ErrValidation
		}
	}

	if err := s.store.SaveAvailability(ctx, userID, slots); err != nil {
		return fmt.Errorf("save profile availability: %w", err)
	}
	return nil
}
