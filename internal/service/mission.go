package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/runningplanet/crew-service/internal/domain"
	"github.com/runningplanet/crew-service/internal/repository"
)

// MissionService computes daily mission progress from the member's
// running records and commits mission completion
type MissionService struct {
	missionRepo    repository.CrewMissionRepository
	crewRepo       repository.CrewRepository
	memberRepo     repository.MemberRepository
	crewMemberRepo repository.CrewMemberRepository
	recordRepo     repository.RecordRepository
	txManager      TxManager
	logger         *slog.Logger
}

// NewMissionService creates a new MissionService
func NewMissionService(
	missionRepo repository.CrewMissionRepository,
	crewRepo repository.CrewRepository,
	memberRepo repository.MemberRepository,
	crewMemberRepo repository.CrewMemberRepository,
	recordRepo repository.RecordRepository,
	txManager TxManager,
	logger *slog.Logger,
) *MissionService {
	return &MissionService{
		missionRepo:    missionRepo,
		crewRepo:       crewRepo,
		memberRepo:     memberRepo,
		crewMemberRepo: crewMemberRepo,
		recordRepo:     recordRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// GetCrewMission returns the member's missions in crewID with progress
// recomputed from today's records. Progress is capped at 100 and the
// completed flag is reported as persisted.
func (s *MissionService) GetCrewMission(ctx context.Context, crewID, memberID int64) ([]domain.MissionProgress, error) {
	crew, err := s.authorize(ctx, crewID, memberID)
	if err != nil {
		return nil, err
	}

	missions, err := s.missionRepo.GetAllByCrewAndMember(ctx, crewID, memberID)
	if err != nil {
		return nil, err
	}
	if len(missions) == 0 {
		// Строки миссий создаются вместе с членством; их отсутствие
		// означает поврежденные данные, а не пустой результат
		s.logger.Error("crew member has no mission rows", "crew_id", crewID, "member_id", memberID)
		return nil, domain.ErrDataIntegrity
	}

	totalTime, totalDistance, err := s.todayTotals(ctx, memberID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.MissionProgress, 0, len(missions))
	for _, m := range missions {
		result = append(result, domain.MissionProgress{
			MissionID: m.ID,
			Type:      m.Type,
			Progress:  missionProgress(m.Type, crew.Rule, totalTime, totalDistance),
			Completed: m.Completed,
		})
	}

	return result, nil
}

// SuccessMission marks a mission completed. The flip is idempotent and
// monotonic; progress is re-validated server-side before committing.
func (s *MissionService) SuccessMission(ctx context.Context, crewID, missionID, memberID int64) error {
	crew, err := s.authorize(ctx, crewID, memberID)
	if err != nil {
		return err
	}

	mission, err := s.missionRepo.GetByID(ctx, missionID)
	if err != nil {
		return err
	}
	// Чужая миссия неотличима от несуществующей
	if mission.CrewID != crewID || mission.MemberID != memberID {
		return domain.ErrMissionNotFound
	}

	if mission.Completed {
		return nil
	}

	totalTime, totalDistance, err := s.todayTotals(ctx, memberID)
	if err != nil {
		return err
	}

	if missionProgress(mission.Type, crew.Rule, totalTime, totalDistance) < 100 {
		return domain.ErrMissionNotDone
	}

	return s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.missionRepo.Complete(ctx, mission.ID)
	})
}

// authorize validates crew, member and membership for mission access.
// A missing membership is Forbidden rather than NotFound: the caller is
// authenticated but has no access to this crew's missions.
func (s *MissionService) authorize(ctx context.Context, crewID, memberID int64) (*domain.Crew, error) {
	crew, err := s.crewRepo.GetByID(ctx, crewID)
	if err != nil {
		return nil, err
	}

	memberExists, err := s.memberRepo.ExistsByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !memberExists {
		return nil, domain.ErrMemberNotFound
	}

	inCrew, err := s.crewMemberRepo.ExistsByCrewAndMember(ctx, crewID, memberID)
	if err != nil {
		return nil, err
	}
	if !inCrew {
		return nil, domain.ErrNotCrewMember
	}

	return crew, nil
}

func (s *MissionService) todayTotals(ctx context.Context, memberID int64) (int, float64, error) {
	from, to := todayRange(time.Now())

	records, err := s.recordRepo.GetAllByMemberBetween(ctx, memberID, from, to)
	if err != nil {
		return 0, 0, err
	}

	var totalTime int
	var totalDistance float64
	for _, rec := range records {
		totalTime += rec.RunTime
		totalDistance += rec.RunDistance
	}

	return totalTime, totalDistance, nil
}

// missionProgress returns the completion percentage for one mission type,
// capped at 100
func missionProgress(missionType domain.MissionType, rule domain.Rule, totalTime int, totalDistance float64) float64 {
	var ratio float64
	switch missionType {
	case domain.MissionDistance:
		if rule.DistanceTarget > 0 {
			ratio = totalDistance / float64(rule.DistanceTarget)
		}
	case domain.MissionDuration:
		if rule.DurationTarget > 0 {
			ratio = float64(totalTime) / float64(rule.DurationTarget)
		}
	}

	return math.Min(100, ratio*100)
}
