package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/runningplanet/crew-service/internal/domain"
	"github.com/runningplanet/crew-service/internal/repository"
	"github.com/runningplanet/crew-service/internal/storage"
)

// CreateCrewRequest carries the crew attributes supplied on creation
type CreateCrewRequest struct {
	Name         string              `json:"crew_name"`
	Capacity     int                 `json:"limit_member_cnt"`
	Category     domain.Category     `json:"category"`
	Tags         []string            `json:"tags"`
	ApprovalType domain.ApprovalType `json:"approval_type"`
	Introduction string              `json:"introduction"`
	Rule         domain.Rule         `json:"rule"`
}

// UpdateCrewRequest carries the mutable crew attributes
type UpdateCrewRequest struct {
	Tags         []string            `json:"tags"`
	ApprovalType domain.ApprovalType `json:"approval_type"`
	Introduction string              `json:"introduction"`
	Rule         domain.Rule         `json:"rule"`
}

// ApplyCrewResult reports the state of an application after apply/cancel.
// IsPending is false when the application was auto-approved or cancelled.
type ApplyCrewResult struct {
	CrewID    int64 `json:"crew_id"`
	MemberID  int64 `json:"member_id"`
	IsPending bool  `json:"is_pending"`
}

// CrewLeader is the leader snapshot embedded in crew read models
type CrewLeader struct {
	MemberID int64  `json:"member_id"`
	Nickname string `json:"nickname"`
}

// CrewSummary is the read model returned by FindAllCrew and FindCrew
type CrewSummary struct {
	CrewID       int64               `json:"crew_id"`
	Name         string              `json:"crew_name"`
	Capacity     int                 `json:"limit_member_cnt"`
	MemberCount  int                 `json:"crew_member_cnt"`
	Category     domain.Category     `json:"category"`
	ApprovalType domain.ApprovalType `json:"approval_type"`
	Introduction string              `json:"introduction"`
	Tags         []string            `json:"tags"`
	Rule         domain.Rule         `json:"rule"`
	Leader       CrewLeader          `json:"crew_leader"`
	ImageURL     string              `json:"image_url,omitempty"`
}

// PendingApplication is the applicant snapshot shown to the crew leader
type PendingApplication struct {
	MemberID int64           `json:"member_id"`
	Nickname string          `json:"nickname"`
	Message  string          `json:"message"`
	RunScore int             `json:"run_score"`
	Gender   domain.Gender   `json:"gender"`
	Age      int             `json:"age"`
	Status   domain.Approval `json:"status"`
}

// CrewService handles the crew membership and application workflow
type CrewService struct {
	crewRepo        repository.CrewRepository
	crewMemberRepo  repository.CrewMemberRepository
	applicationRepo repository.CrewApplicationRepository
	missionRepo     repository.CrewMissionRepository
	memberRepo      repository.MemberRepository
	images          storage.Store
	txManager       TxManager
	logger          *slog.Logger
}

// NewCrewService creates a new CrewService
func NewCrewService(
	crewRepo repository.CrewRepository,
	crewMemberRepo repository.CrewMemberRepository,
	applicationRepo repository.CrewApplicationRepository,
	missionRepo repository.CrewMissionRepository,
	memberRepo repository.MemberRepository,
	images storage.Store,
	txManager TxManager,
	logger *slog.Logger,
) *CrewService {
	return &CrewService{
		crewRepo:        crewRepo,
		crewMemberRepo:  crewMemberRepo,
		applicationRepo: applicationRepo,
		missionRepo:     missionRepo,
		memberRepo:      memberRepo,
		images:          images,
		txManager:       txManager,
		logger:          logger,
	}
}

// CreateCrew creates a crew led by leaderID, together with the leader's
// membership row and both of the leader's daily missions
func (s *CrewService) CreateCrew(ctx context.Context, req CreateCrewRequest, image *storage.File, leaderID int64) (int64, error) {
	if _, err := s.memberRepo.GetByID(ctx, leaderID); err != nil {
		return 0, err
	}

	if err := s.ensureNotInCrew(ctx, leaderID); err != nil {
		return 0, err
	}

	// Image upload happens before the transaction; a failed upload aborts
	// the whole create, a failed transaction cleans up the uploaded asset.
	var imageURL string
	if image != nil {
		url, err := s.images.Upload(ctx, *image)
		if err != nil {
			return 0, err
		}
		imageURL = url
	}

	var crewID int64
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		crew := &domain.Crew{
			LeaderID:     leaderID,
			Name:         req.Name,
			Capacity:     req.Capacity,
			Category:     req.Category,
			ApprovalType: req.ApprovalType,
			Introduction: req.Introduction,
			Rule:         req.Rule,
		}

		id, err := s.crewRepo.Create(ctx, crew)
		if err != nil {
			return err
		}
		crewID = id

		if err := s.crewRepo.ReplaceTags(ctx, crewID, req.Tags); err != nil {
			return err
		}

		if imageURL != "" {
			if err := s.crewRepo.SetImageURL(ctx, crewID, image.Name, imageURL); err != nil {
				return err
			}
		}

		if err := s.crewMemberRepo.Create(ctx, &domain.CrewMember{
			CrewID:   crewID,
			MemberID: leaderID,
			Role:     domain.RoleLeader,
		}); err != nil {
			return err
		}

		return s.missionRepo.CreateForPairing(ctx, crewID, leaderID)
	})
	if err != nil {
		s.cleanupImage(ctx, imageURL)
		return 0, err
	}

	return crewID, nil
}

// ApplyCrew files an application for crewID on behalf of memberID.
// For AUTO crews the application is approved in the same transaction.
func (s *CrewService) ApplyCrew(ctx context.Context, message string, crewID, memberID int64) (*ApplyCrewResult, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	if err := s.ensureNotInCrew(ctx, memberID); err != nil {
		return nil, err
	}

	if _, err := s.applicationRepo.GetByCrewAndMember(ctx, crewID, memberID); err == nil {
		return nil, domain.ErrApplicationExists
	} else if !errors.Is(err, domain.ErrApplicationNotFound) {
		return nil, err
	}

	crew, err := s.crewRepo.GetByID(ctx, crewID)
	if err != nil {
		return nil, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		id, err := s.applicationRepo.Create(ctx, &domain.CrewApplication{
			CrewID:   crewID,
			MemberID: memberID,
			Message:  message,
		})
		if err != nil {
			return err
		}

		if crew.ApprovalType != domain.ApprovalAuto {
			return nil
		}

		return s.admitMember(ctx, crewID, memberID, id)
	})
	if err != nil {
		return nil, err
	}

	return &ApplyCrewResult{
		CrewID:    crewID,
		MemberID:  memberID,
		IsPending: crew.ApprovalType == domain.ApprovalManual,
	}, nil
}

// ProceedApplication approves or rejects a pending application. Only the
// crew leader may decide; approval re-validates membership and capacity
// inside the transaction to close the race with concurrent approvals.
func (s *CrewService) ProceedApplication(ctx context.Context, crewID, applicantID int64, approve bool, actorID int64) error {
	crew, err := s.crewRepo.GetByID(ctx, crewID)
	if err != nil {
		return err
	}

	if err := s.requireLeader(ctx, crewID, actorID); err != nil {
		return err
	}

	app, err := s.applicationRepo.GetPendingByCrewAndMember(ctx, crewID, applicantID)
	if err != nil {
		return err
	}

	return s.txManager.Do(ctx, func(ctx context.Context) error {
		if !approve {
			return s.applicationRepo.UpdateStatus(ctx, app.ID, domain.ApprovalRejected)
		}

		if err := s.ensureNotInCrew(ctx, applicantID); err != nil {
			return err
		}

		count, err := s.crewMemberRepo.CountByCrewID(ctx, crewID)
		if err != nil {
			return err
		}
		if count >= crew.Capacity {
			return domain.ErrCrewFull
		}

		if _, err := s.memberRepo.GetByID(ctx, applicantID); err != nil {
			return err
		}

		return s.admitMember(ctx, crewID, applicantID, app.ID)
	})
}

// GetApplications returns the pending applications of a crew with
// applicant snapshots. Only the crew leader may list them.
func (s *CrewService) GetApplications(ctx context.Context, crewID, actorID int64) ([]PendingApplication, error) {
	if err := s.requireLeader(ctx, crewID, actorID); err != nil {
		return nil, err
	}

	exists, err := s.crewRepo.ExistsByID(ctx, crewID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrCrewNotFound
	}

	apps, err := s.applicationRepo.GetAllPendingByCrewID(ctx, crewID)
	if err != nil {
		return nil, err
	}

	result := make([]PendingApplication, 0, len(apps))
	for _, app := range apps {
		applicant, err := s.memberRepo.GetByID(ctx, app.MemberID)
		if err != nil {
			if errors.Is(err, domain.ErrMemberNotFound) {
				s.logger.Error("application references missing member",
					"crew_id", crewID, "member_id", app.MemberID, "application_id", app.ID)
				return nil, domain.ErrDataIntegrity
			}
			return nil, err
		}

		result = append(result, PendingApplication{
			MemberID: applicant.ID,
			Nickname: applicant.Nickname,
			Message:  app.Message,
			RunScore: applicant.RunScore,
			Gender:   applicant.Gender,
			Age:      applicant.Age,
			Status:   app.Status,
		})
	}

	return result, nil
}

// CancelApplication withdraws the caller's pending application
func (s *CrewService) CancelApplication(ctx context.Context, crewID, memberID int64) (*ApplyCrewResult, error) {
	if err := s.ensureCrewAndMemberExist(ctx, crewID, memberID); err != nil {
		return nil, err
	}

	app, err := s.applicationRepo.GetPendingByCrewAndMember(ctx, crewID, memberID)
	if err != nil {
		return nil, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.applicationRepo.Delete(ctx, app.ID)
	})
	if err != nil {
		return nil, err
	}

	return &ApplyCrewResult{CrewID: crewID, MemberID: memberID, IsPending: false}, nil
}

// RemoveMember expels targetID from the crew. Only the leader may expel,
// and the leader themselves cannot be removed. Mission rows of the removed
// member are kept as history.
func (s *CrewService) RemoveMember(ctx context.Context, crewID, targetID, actorID int64) error {
	exists, err := s.crewRepo.ExistsByID(ctx, crewID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrCrewNotFound
	}

	if err := s.requireLeader(ctx, crewID, actorID); err != nil {
		return err
	}

	memberExists, err := s.memberRepo.ExistsByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !memberExists {
		return domain.ErrMemberNotFound
	}

	target, err := s.crewMemberRepo.GetByCrewAndMember(ctx, crewID, targetID)
	if err != nil {
		return err
	}
	if target.IsLeader() {
		return domain.ErrCannotRemoveLeader
	}

	return s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.crewMemberRepo.Delete(ctx, target.ID)
	})
}

// LeaveCrew removes the caller's membership. A leader may only leave when
// alone in the crew, in which case the crew itself is deleted: a crew
// cannot exist without its leader.
func (s *CrewService) LeaveCrew(ctx context.Context, crewID, memberID int64) error {
	if err := s.ensureCrewAndMemberExist(ctx, crewID, memberID); err != nil {
		return err
	}

	cm, err := s.crewMemberRepo.GetByCrewAndMember(ctx, crewID, memberID)
	if err != nil {
		return err
	}

	return s.txManager.Do(ctx, func(ctx context.Context) error {
		if !cm.IsLeader() {
			return s.crewMemberRepo.Delete(ctx, cm.ID)
		}

		count, err := s.crewMemberRepo.CountByCrewID(ctx, crewID)
		if err != nil {
			return err
		}
		if count > 1 {
			return domain.ErrCrewNotEmpty
		}

		if err := s.crewMemberRepo.Delete(ctx, cm.ID); err != nil {
			return err
		}

		return s.crewRepo.Delete(ctx, crewID)
	})
}

// UpdateCrew replaces the mutable crew attributes (tags, approval policy,
// introduction, mission rule) and optionally the crew image
func (s *CrewService) UpdateCrew(ctx context.Context, req UpdateCrewRequest, image *storage.File, crewID, actorID int64) error {
	crew, err := s.crewRepo.GetByID(ctx, crewID)
	if err != nil {
		return err
	}

	if err := s.requireLeader(ctx, crewID, actorID); err != nil {
		return err
	}

	memberExists, err := s.memberRepo.ExistsByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !memberExists {
		return domain.ErrMemberNotFound
	}

	var imageURL, oldURL string
	if image != nil {
		oldURL, err = s.crewRepo.GetImageURL(ctx, crewID)
		if err != nil {
			return err
		}

		imageURL, err = s.images.Upload(ctx, *image)
		if err != nil {
			return err
		}
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.crewRepo.ReplaceTags(ctx, crewID, req.Tags); err != nil {
			return err
		}

		crew.ApprovalType = req.ApprovalType
		crew.Introduction = req.Introduction
		crew.Rule = req.Rule
		if err := s.crewRepo.Update(ctx, crew); err != nil {
			return err
		}

		if imageURL != "" {
			return s.crewRepo.SetImageURL(ctx, crewID, image.Name, imageURL)
		}
		return nil
	})
	if err != nil {
		s.cleanupImage(ctx, imageURL)
		return err
	}

	// Старый ассет удаляем только после коммита: строка crew_images
	// не должна ссылаться на удаленный файл
	if oldURL != "" {
		s.cleanupImage(ctx, oldURL)
	}

	return nil
}

// FindAllCrew returns summaries for all active crews
func (s *CrewService) FindAllCrew(ctx context.Context) ([]CrewSummary, error) {
	crews, err := s.crewRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]CrewSummary, 0, len(crews))
	for _, crew := range crews {
		summary, err := s.buildSummary(ctx, crew)
		if err != nil {
			return nil, err
		}
		result = append(result, *summary)
	}

	return result, nil
}

// FindCrew returns the summary for a single crew
func (s *CrewService) FindCrew(ctx context.Context, crewID int64) (*CrewSummary, error) {
	crew, err := s.crewRepo.GetByID(ctx, crewID)
	if err != nil {
		return nil, err
	}

	return s.buildSummary(ctx, crew)
}

func (s *CrewService) buildSummary(ctx context.Context, crew *domain.Crew) (*CrewSummary, error) {
	tags, err := s.crewRepo.GetTags(ctx, crew.ID)
	if err != nil {
		return nil, err
	}

	leader, err := s.memberRepo.GetByID(ctx, crew.LeaderID)
	if err != nil {
		// Крю с несуществующим лидером это поврежденные данные, не NotFound
		if errors.Is(err, domain.ErrMemberNotFound) {
			s.logger.Error("crew references missing leader", "crew_id", crew.ID, "leader_id", crew.LeaderID)
			return nil, domain.ErrDataIntegrity
		}
		return nil, err
	}

	count, err := s.crewMemberRepo.CountByCrewID(ctx, crew.ID)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.crewRepo.GetImageURL(ctx, crew.ID)
	if err != nil {
		return nil, err
	}

	return &CrewSummary{
		CrewID:       crew.ID,
		Name:         crew.Name,
		Capacity:     crew.Capacity,
		MemberCount:  count,
		Category:     crew.Category,
		ApprovalType: crew.ApprovalType,
		Introduction: crew.Introduction,
		Tags:         tags,
		Rule:         crew.Rule,
		Leader:       CrewLeader{MemberID: leader.ID, Nickname: leader.Nickname},
		ImageURL:     imageURL,
	}, nil
}

// admitMember creates the membership and mission rows for an approved
// applicant and marks the application approved
func (s *CrewService) admitMember(ctx context.Context, crewID, memberID, applicationID int64) error {
	if err := s.crewMemberRepo.Create(ctx, &domain.CrewMember{
		CrewID:   crewID,
		MemberID: memberID,
		Role:     domain.RoleMember,
	}); err != nil {
		return err
	}

	if err := s.missionRepo.CreateForPairing(ctx, crewID, memberID); err != nil {
		return err
	}

	return s.applicationRepo.UpdateStatus(ctx, applicationID, domain.ApprovalApproved)
}

// ensureNotInCrew enforces the single-crew-membership invariant
func (s *CrewService) ensureNotInCrew(ctx context.Context, memberID int64) error {
	_, err := s.crewMemberRepo.GetByMemberID(ctx, memberID)
	if err == nil {
		return domain.ErrAlreadyInCrew
	}
	if !errors.Is(err, domain.ErrMembershipNotFound) {
		return err
	}
	return nil
}

// requireLeader checks that actorID is the leader of crewID
func (s *CrewService) requireLeader(ctx context.Context, crewID, actorID int64) error {
	cm, err := s.crewMemberRepo.GetByMemberID(ctx, actorID)
	if err != nil {
		return err
	}
	if cm.CrewID != crewID || !cm.IsLeader() {
		return domain.ErrNotLeader
	}
	return nil
}

func (s *CrewService) ensureCrewAndMemberExist(ctx context.Context, crewID, memberID int64) error {
	crewExists, err := s.crewRepo.ExistsByID(ctx, crewID)
	if err != nil {
		return err
	}
	if !crewExists {
		return domain.ErrCrewNotFound
	}

	memberExists, err := s.memberRepo.ExistsByID(ctx, memberID)
	if err != nil {
		return err
	}
	if !memberExists {
		return domain.ErrMemberNotFound
	}

	return nil
}

// cleanupImage best-effort deletes an image asset that is no longer referenced
func (s *CrewService) cleanupImage(ctx context.Context, imageURL string) {
	if imageURL == "" {
		return
	}
	if err := s.images.Delete(ctx, imageURL); err != nil {
		s.logger.Error("failed to clean up uploaded crew image", "url", imageURL, "error", err)
	}
}
