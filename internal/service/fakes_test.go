package service

import (
	"context"
	"fmt"
	"time"

	"github.com/runningplanet/crew-service/internal/domain"
	"github.com/runningplanet/crew-service/internal/storage"
)

// Фейки репозиториев для юнит-тестов сервисов. Данные хранятся в слайсах
// чтобы порядок выборок был детерминированным.

type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memberRepoFake struct {
	members []*domain.Member
}

func (f *memberRepoFake) add(m *domain.Member) {
	f.members = append(f.members, m)
}

func (f *memberRepoFake) GetByID(_ context.Context, memberID int64) (*domain.Member, error) {
	for _, m := range f.members {
		if m.ID == memberID {
			return m, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (f *memberRepoFake) ExistsByID(_ context.Context, memberID int64) (bool, error) {
	for _, m := range f.members {
		if m.ID == memberID {
			return true, nil
		}
	}
	return false, nil
}

type crewRepoFake struct {
	crews       []*domain.Crew
	tags        map[int64][]string
	images      map[int64]string
	nextID      int64
	setImageErr error
}

func newCrewRepoFake() *crewRepoFake {
	return &crewRepoFake{tags: map[int64][]string{}, images: map[int64]string{}, nextID: 1}
}

func (f *crewRepoFake) Create(_ context.Context, crew *domain.Crew) (int64, error) {
	crew.ID = f.nextID
	f.nextID++
	f.crews = append(f.crews, crew)
	return crew.ID, nil
}

func (f *crewRepoFake) GetByID(_ context.Context, crewID int64) (*domain.Crew, error) {
	for _, c := range f.crews {
		if c.ID == crewID {
			return c, nil
		}
	}
	return nil, domain.ErrCrewNotFound
}

func (f *crewRepoFake) GetAll(_ context.Context) ([]*domain.Crew, error) {
	return f.crews, nil
}

func (f *crewRepoFake) Update(ctx context.Context, crew *domain.Crew) error {
	_, err := f.GetByID(ctx, crew.ID)
	return err
}

func (f *crewRepoFake) Delete(_ context.Context, crewID int64) error {
	for i, c := range f.crews {
		if c.ID == crewID {
			f.crews = append(f.crews[:i], f.crews[i+1:]...)
			return nil
		}
	}
	return domain.ErrCrewNotFound
}

func (f *crewRepoFake) ExistsByID(ctx context.Context, crewID int64) (bool, error) {
	_, err := f.GetByID(ctx, crewID)
	return err == nil, nil
}

func (f *crewRepoFake) ReplaceTags(_ context.Context, crewID int64, tags []string) error {
	f.tags[crewID] = tags
	return nil
}

func (f *crewRepoFake) GetTags(_ context.Context, crewID int64) ([]string, error) {
	return f.tags[crewID], nil
}

func (f *crewRepoFake) GetImageURL(_ context.Context, crewID int64) (string, error) {
	return f.images[crewID], nil
}

func (f *crewRepoFake) SetImageURL(_ context.Context, crewID int64, _, url string) error {
	if f.setImageErr != nil {
		return f.setImageErr
	}
	f.images[crewID] = url
	return nil
}

type crewMemberRepoFake struct {
	rows    []*domain.CrewMember
	members *memberRepoFake
	nextID  int64
}

func newCrewMemberRepoFake(members *memberRepoFake) *crewMemberRepoFake {
	return &crewMemberRepoFake{members: members, nextID: 1}
}

func (f *crewMemberRepoFake) Create(_ context.Context, cm *domain.CrewMember) error {
	// Уникальный индекс по member_id
	for _, row := range f.rows {
		if row.MemberID == cm.MemberID {
			return domain.ErrAlreadyInCrew
		}
	}
	cm.ID = f.nextID
	f.nextID++
	f.rows = append(f.rows, cm)
	return nil
}

func (f *crewMemberRepoFake) GetByMemberID(_ context.Context, memberID int64) (*domain.CrewMember, error) {
	for _, row := range f.rows {
		if row.MemberID == memberID {
			return row, nil
		}
	}
	return nil, domain.ErrMembershipNotFound
}

func (f *crewMemberRepoFake) GetByCrewAndMember(_ context.Context, crewID, memberID int64) (*domain.CrewMember, error) {
	for _, row := range f.rows {
		if row.CrewID == crewID && row.MemberID == memberID {
			return row, nil
		}
	}
	return nil, domain.ErrMembershipNotFound
}

func (f *crewMemberRepoFake) ExistsByCrewAndMember(ctx context.Context, crewID, memberID int64) (bool, error) {
	_, err := f.GetByCrewAndMember(ctx, crewID, memberID)
	return err == nil, nil
}

func (f *crewMemberRepoFake) CountByCrewID(_ context.Context, crewID int64) (int, error) {
	count := 0
	for _, row := range f.rows {
		if row.CrewID == crewID {
			count++
		}
	}
	return count, nil
}

func (f *crewMemberRepoFake) GetMembersByCrewID(ctx context.Context, crewID int64) ([]*domain.Member, error) {
	var result []*domain.Member
	for _, row := range f.rows {
		if row.CrewID != crewID {
			continue
		}
		m, err := f.members.GetByID(ctx, row.MemberID)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, nil
}

func (f *crewMemberRepoFake) Delete(_ context.Context, id int64) error {
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrMembershipNotFound
}

type applicationRepoFake struct {
	rows   []*domain.CrewApplication
	nextID int64
}

func newApplicationRepoFake() *applicationRepoFake {
	return &applicationRepoFake{nextID: 1}
}

func (f *applicationRepoFake) Create(_ context.Context, app *domain.CrewApplication) (int64, error) {
	for _, row := range f.rows {
		if row.CrewID == app.CrewID && row.MemberID == app.MemberID && row.IsPending() {
			return 0, domain.ErrApplicationExists
		}
	}
	app.ID = f.nextID
	f.nextID++
	if app.Status == "" {
		app.Status = domain.ApprovalPending
	}
	f.rows = append(f.rows, app)
	return app.ID, nil
}

func (f *applicationRepoFake) GetByCrewAndMember(_ context.Context, crewID, memberID int64) (*domain.CrewApplication, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].CrewID == crewID && f.rows[i].MemberID == memberID {
			return f.rows[i], nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (f *applicationRepoFake) GetPendingByCrewAndMember(_ context.Context, crewID, memberID int64) (*domain.CrewApplication, error) {
	for _, row := range f.rows {
		if row.CrewID == crewID && row.MemberID == memberID && row.IsPending() {
			return row, nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (f *applicationRepoFake) GetAllPendingByCrewID(_ context.Context, crewID int64) ([]*domain.CrewApplication, error) {
	var result []*domain.CrewApplication
	for _, row := range f.rows {
		if row.CrewID == crewID && row.IsPending() {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *applicationRepoFake) UpdateStatus(_ context.Context, id int64, status domain.Approval) error {
	for _, row := range f.rows {
		if row.ID == id {
			row.Status = status
			return nil
		}
	}
	return domain.ErrApplicationNotFound
}

func (f *applicationRepoFake) Delete(_ context.Context, id int64) error {
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrApplicationNotFound
}

type missionRepoFake struct {
	rows   []*domain.CrewMission
	nextID int64
}

func newMissionRepoFake() *missionRepoFake {
	return &missionRepoFake{nextID: 1}
}

func (f *missionRepoFake) CreateForPairing(_ context.Context, crewID, memberID int64) error {
	for _, t := range []domain.MissionType{domain.MissionDistance, domain.MissionDuration} {
		f.rows = append(f.rows, &domain.CrewMission{
			ID:       f.nextID,
			CrewID:   crewID,
			MemberID: memberID,
			Type:     t,
		})
		f.nextID++
	}
	return nil
}

func (f *missionRepoFake) GetAllByCrewAndMember(_ context.Context, crewID, memberID int64) ([]*domain.CrewMission, error) {
	var result []*domain.CrewMission
	for _, row := range f.rows {
		if row.CrewID == crewID && row.MemberID == memberID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *missionRepoFake) GetByID(_ context.Context, missionID int64) (*domain.CrewMission, error) {
	for _, row := range f.rows {
		if row.ID == missionID {
			return row, nil
		}
	}
	return nil, domain.ErrMissionNotFound
}

func (f *missionRepoFake) Complete(ctx context.Context, missionID int64) error {
	m, err := f.GetByID(ctx, missionID)
	if err != nil {
		return err
	}
	m.Completed = true
	return nil
}

type recordRepoFake struct {
	rows   []*domain.Record
	coords []*domain.Coordinate
	nextID int64
}

func newRecordRepoFake() *recordRepoFake {
	return &recordRepoFake{nextID: 1}
}

func (f *recordRepoFake) Save(_ context.Context, rec *domain.Record) (*domain.Record, error) {
	if rec.ID == 0 {
		rec.ID = f.nextID
		f.nextID++
		rec.CreatedAt = time.Now()
		f.rows = append(f.rows, rec)
		return rec, nil
	}
	for i, row := range f.rows {
		if row.ID == rec.ID {
			f.rows[i] = rec
			return rec, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *recordRepoFake) GetOpenByMemberID(_ context.Context, memberID int64) (*domain.Record, error) {
	for _, row := range f.rows {
		if row.MemberID == memberID && !row.IsEnd() {
			return row, nil
		}
	}
	return nil, nil
}

func (f *recordRepoFake) GetByIDAndMember(_ context.Context, recordID, memberID int64) (*domain.Record, error) {
	for _, row := range f.rows {
		if row.ID == recordID && row.MemberID == memberID && row.IsEnd() {
			return row, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *recordRepoFake) GetAllByMemberBetween(_ context.Context, memberID int64, from, to time.Time) ([]*domain.Record, error) {
	var result []*domain.Record
	for _, row := range f.rows {
		if row.MemberID == memberID && !row.CreatedAt.Before(from) && row.CreatedAt.Before(to) {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *recordRepoFake) GetFinishedByMemberBetween(ctx context.Context, memberID int64, from, to time.Time) ([]*domain.Record, error) {
	all, err := f.GetAllByMemberBetween(ctx, memberID, from, to)
	if err != nil {
		return nil, err
	}
	var result []*domain.Record
	for _, row := range all {
		if row.IsEnd() {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *recordRepoFake) GetAllByMembersBetween(_ context.Context, memberIDs []int64, from, to time.Time) ([]*domain.Record, error) {
	ids := map[int64]bool{}
	for _, id := range memberIDs {
		ids[id] = true
	}
	var result []*domain.Record
	for _, row := range f.rows {
		if ids[row.MemberID] && !row.CreatedAt.Before(from) && row.CreatedAt.Before(to) {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *recordRepoFake) AddCoordinate(_ context.Context, coord *domain.Coordinate) error {
	coord.ID = int64(len(f.coords) + 1)
	coord.CreatedAt = time.Now()
	f.coords = append(f.coords, coord)
	return nil
}

func (f *recordRepoFake) GetCoordinates(_ context.Context, recordID int64) ([]*domain.Coordinate, error) {
	var result []*domain.Coordinate
	for _, c := range f.coords {
		if c.RecordID == recordID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f *recordRepoFake) GetLastCoordinate(_ context.Context, recordID int64) (*domain.Coordinate, error) {
	for i := len(f.coords) - 1; i >= 0; i-- {
		if f.coords[i].RecordID == recordID {
			return f.coords[i], nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

type storeFake struct {
	uploads int
	deleted []string
}

func (f *storeFake) Upload(_ context.Context, file storage.File) (string, error) {
	f.uploads++
	return fmt.Sprintf("http://images.local/%d-%s", f.uploads, file.Name), nil
}

func (f *storeFake) Delete(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type publisherFake struct {
	topics   []string
	payloads []any
	err      error
}

func (f *publisherFake) Publish(_ context.Context, topic string, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return nil
}
