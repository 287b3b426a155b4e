package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/runningplanet/crew-service/internal/broadcast"
	"github.com/runningplanet/crew-service/internal/domain"
	"github.com/runningplanet/crew-service/internal/repository"
)

// SaveRecordRequest содержит данные для сохранения записи о пробежке
type SaveRecordRequest struct {
	RunTime     int     `json:"run_time"`
	RunDistance float64 `json:"run_distance"`
	Calories    int     `json:"calories"`
	AvgPaceMin  int     `json:"avg_pace_min"`
	AvgPaceSec  int     `json:"avg_pace_sec"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	IsEnd       bool    `json:"is_end"`
}

// RecordDetail представляет запись о пробежке вместе с ее GPS-треком
type RecordDetail struct {
	Record      *domain.Record       `json:"record"`
	Coordinates []*domain.Coordinate `json:"coordinates"`
}

// CurrentRecord представляет незавершенную пробежку с последней GPS-точкой
type CurrentRecord struct {
	Record         *domain.Record     `json:"record"`
	LastCoordinate *domain.Coordinate `json:"last_coordinate,omitempty"`
}

// RecordService manages running records and the daily running status
// aggregation built on top of them
type RecordService struct {
	recordRepo     repository.RecordRepository
	memberRepo     repository.MemberRepository
	crewRepo       repository.CrewRepository
	crewMemberRepo repository.CrewMemberRepository
	publisher      broadcast.Publisher
	txManager      TxManager
	logger         *slog.Logger
}

// NewRecordService creates a new RecordService
func NewRecordService(
	recordRepo repository.RecordRepository,
	memberRepo repository.MemberRepository,
	crewRepo repository.CrewRepository,
	crewMemberRepo repository.CrewMemberRepository,
	publisher broadcast.Publisher,
	txManager TxManager,
	logger *slog.Logger,
) *RecordService {
	return &RecordService{
		recordRepo:     recordRepo,
		memberRepo:     memberRepo,
		crewRepo:       crewRepo,
		crewMemberRepo: crewMemberRepo,
		publisher:      publisher,
		txManager:      txManager,
		logger:         logger,
	}
}

// Save upserts the member's open running record. While the run is in
// progress, repeated calls keep updating the same row; IsEnd closes it.
// After the row is committed the member's daily status is broadcast to
// their crew channel; a failed broadcast is logged, never rolled back.
func (s *RecordService) Save(ctx context.Context, memberID int64, req SaveRecordRequest) (*domain.Record, error) {
	exists, err := s.memberRepo.ExistsByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrMemberNotFound
	}

	rec, err := s.recordRepo.GetOpenByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &domain.Record{MemberID: memberID}
	}

	rec.RunTime = req.RunTime
	rec.RunDistance = req.RunDistance
	rec.Calories = req.Calories
	rec.AvgPace = req.AvgPaceMin*60 + req.AvgPaceSec
	if req.IsEnd {
		now := time.Now()
		rec.EndTime = &now
	}

	var saved *domain.Record
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		saved, err = s.recordRepo.Save(ctx, rec)
		if err != nil {
			return err
		}

		return s.recordRepo.AddCoordinate(ctx, &domain.Coordinate{
			RecordID:  saved.ID,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		})
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStatus(ctx, memberID)

	return saved, nil
}

// FindAll returns the member's finished records for the given month
func (s *RecordService) FindAll(ctx context.Context, memberID int64, year int, month time.Month) ([]*domain.Record, error) {
	exists, err := s.memberRepo.ExistsByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrMemberNotFound
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	return s.recordRepo.GetFinishedByMemberBetween(ctx, memberID, from, to)
}

// Find returns one finished record of the member with its full GPS track
func (s *RecordService) Find(ctx context.Context, memberID, recordID int64) (*RecordDetail, error) {
	rec, err := s.recordRepo.GetByIDAndMember(ctx, recordID, memberID)
	if err != nil {
		return nil, err
	}

	coords, err := s.recordRepo.GetCoordinates(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	return &RecordDetail{Record: rec, Coordinates: coords}, nil
}

// FindCurrent returns the member's open record with its latest GPS point,
// or nil when no run is in progress
func (s *RecordService) FindCurrent(ctx context.Context, memberID int64) (*CurrentRecord, error) {
	rec, err := s.recordRepo.GetOpenByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	coord, err := s.recordRepo.GetLastCoordinate(ctx, rec.ID)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, err
	}

	return &CurrentRecord{Record: rec, LastCoordinate: coord}, nil
}

// FindAllRunningStatus returns today's aggregated running status of every
// crew member who has at least one record today. Members still running
// come first, then by total run time descending.
func (s *RecordService) FindAllRunningStatus(ctx context.Context, crewID, memberID int64) ([]*domain.RunningStatus, error) {
	exists, err := s.crewRepo.ExistsByID(ctx, crewID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrCrewNotFound
	}

	inCrew, err := s.crewMemberRepo.ExistsByCrewAndMember(ctx, crewID, memberID)
	if err != nil {
		return nil, err
	}
	if !inCrew {
		return nil, domain.ErrNotCrewMember
	}

	members, err := s.crewMemberRepo.GetMembersByCrewID(ctx, crewID)
	if err != nil {
		return nil, err
	}

	memberIDs := make([]int64, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}

	from, to := todayRange(time.Now())
	records, err := s.recordRepo.GetAllByMembersBetween(ctx, memberIDs, from, to)
	if err != nil {
		return nil, err
	}

	return buildRunningStatuses(members, records), nil
}

// broadcastStatus publishes the member's daily status to their crew's
// running channel. Members outside any crew have nobody to notify.
func (s *RecordService) broadcastStatus(ctx context.Context, memberID int64) {
	cm, err := s.crewMemberRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		if !errors.Is(err, domain.ErrMembershipNotFound) {
			s.logger.Error("failed to resolve crew for broadcast", "member_id", memberID, "error", err)
		}
		return
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		s.logger.Error("failed to load member for broadcast", "member_id", memberID, "error", err)
		return
	}

	from, to := todayRange(time.Now())
	records, err := s.recordRepo.GetAllByMemberBetween(ctx, memberID, from, to)
	if err != nil {
		s.logger.Error("failed to load records for broadcast", "member_id", memberID, "error", err)
		return
	}

	statuses := buildRunningStatuses([]*domain.Member{member}, records)
	if len(statuses) == 0 {
		return
	}

	topic := broadcast.RunningTopic(cm.CrewID)
	if err := s.publisher.Publish(ctx, topic, statuses[0]); err != nil {
		s.logger.Error("failed to broadcast running status", "topic", topic, "member_id", memberID, "error", err)
	}
}

// buildRunningStatuses aggregates records per member: run time and
// distance are summed, IsEnd holds only when every record is finished.
// Members without records today are omitted.
func buildRunningStatuses(members []*domain.Member, records []*domain.Record) []*domain.RunningStatus {
	byMember := make(map[int64]*domain.RunningStatus)
	for _, m := range members {
		byMember[m.ID] = &domain.RunningStatus{
			MemberID: m.ID,
			Nickname: m.Nickname,
			IsEnd:    true,
		}
	}

	seen := make(map[int64]bool)
	for _, rec := range records {
		status, ok := byMember[rec.MemberID]
		if !ok {
			continue
		}
		seen[rec.MemberID] = true
		status.RunTime += rec.RunTime
		status.RunDistance += rec.RunDistance
		if !rec.IsEnd() {
			status.IsEnd = false
		}
	}

	statuses := make([]*domain.RunningStatus, 0, len(seen))
	for _, m := range members {
		if seen[m.ID] {
			statuses = append(statuses, byMember[m.ID])
		}
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		if statuses[i].IsEnd != statuses[j].IsEnd {
			return !statuses[i].IsEnd
		}
		return statuses[i].RunTime > statuses[j].RunTime
	})

	return statuses
}
