package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/runningplanet/crew-service/internal/domain"
	"github.com/runningplanet/crew-service/internal/repository"
)

// MemberProfile представляет профиль участника вместе с его крю, если есть
type MemberProfile struct {
	Member   *domain.Member `json:"member"`
	CrewID   *int64         `json:"crew_id,omitempty"`
	CrewName *string        `json:"crew_name,omitempty"`
}

// MemberService exposes member profile lookups
type MemberService struct {
	memberRepo     repository.MemberRepository
	crewRepo       repository.CrewRepository
	crewMemberRepo repository.CrewMemberRepository
	logger         *slog.Logger
}

// NewMemberService creates a new MemberService
func NewMemberService(
	memberRepo repository.MemberRepository,
	crewRepo repository.CrewRepository,
	crewMemberRepo repository.CrewMemberRepository,
	logger *slog.Logger,
) *MemberService {
	return &MemberService{
		memberRepo:     memberRepo,
		crewRepo:       crewRepo,
		crewMemberRepo: crewMemberRepo,
		logger:         logger,
	}
}

// GetProfile returns the member with their crew attachment when present
func (s *MemberService) GetProfile(ctx context.Context, memberID int64) (*MemberProfile, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	profile := &MemberProfile{Member: member}

	cm, err := s.crewMemberRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			return profile, nil
		}
		return nil, err
	}

	crew, err := s.crewRepo.GetByID(ctx, cm.CrewID)
	if err != nil {
		// Членство ссылается на несуществующее крю
		s.logger.Error("membership points to missing crew", "crew_id", cm.CrewID, "member_id", memberID)
		return nil, domain.ErrDataIntegrity
	}

	profile.CrewID = &crew.ID
	profile.CrewName = &crew.Name

	return profile, nil
}
