package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тестовые структуры данных соответствующие API
type LoginRequest struct {
	MemberID int64 `json:"member_id"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type Rule struct {
	DistanceTarget int `json:"distance_target"`
	DurationTarget int `json:"duration_target"`
}

type CreateCrewRequest struct {
	Name         string   `json:"crew_name"`
	Capacity     int      `json:"limit_member_cnt"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	ApprovalType string   `json:"approval_type"`
	Introduction string   `json:"introduction"`
	Rule         Rule     `json:"rule"`
}

type CreateCrewResponse struct {
	CrewID int64 `json:"crew_id"`
}

type ApplyCrewResponse struct {
	CrewID    int64 `json:"crew_id"`
	MemberID  int64 `json:"member_id"`
	IsPending bool  `json:"is_pending"`
}

type CrewSummary struct {
	CrewID       int64    `json:"crew_id"`
	Name         string   `json:"crew_name"`
	Capacity     int      `json:"limit_member_cnt"`
	MemberCount  int      `json:"crew_member_cnt"`
	ApprovalType string   `json:"approval_type"`
	Tags         []string `json:"tags"`
	Rule         Rule     `json:"rule"`
}

type PendingApplication struct {
	MemberID int64  `json:"member_id"`
	Nickname string `json:"nickname"`
	Message  string `json:"message"`
	RunScore int    `json:"run_score"`
}

type MissionProgress struct {
	MissionID int64   `json:"mission_id"`
	Type      string  `json:"mission_type"`
	Progress  float64 `json:"mission_progress"`
	Completed bool    `json:"mission_complete"`
}

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

type Record struct {
	RecordID    int64   `json:"record_id"`
	RunTime     int     `json:"run_time"`
	RunDistance float64 `json:"run_distance"`
}

type RunningStatus struct {
	MemberID    int64   `json:"member_id"`
	Nickname    string  `json:"nickname"`
	RunTime     int     `json:"run_time"`
	RunDistance float64 `json:"run_distance"`
	IsEnd       bool    `json:"is_end"`
}

type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// login возвращает JWT токен участника
func login(t *testing.T, env *TestEnvironment, memberID int64) string {
	t.Helper()

	body, _ := json.Marshal(LoginRequest{MemberID: memberID})
	resp := env.MakeRequest(t, http.MethodPost, "/auth/login", bytes.NewReader(body), "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, "Login should succeed")

	var loginResp LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	require.NotEmpty(t, loginResp.Token)

	return loginResp.Token
}

// crewForm собирает multipart тело создания/обновления крю
func crewForm(t *testing.T, data any) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	payload, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("data", string(payload)))
	require.NoError(t, writer.Close())

	return buf, writer.FormDataContentType()
}

// createCrew создает крю от имени лидера и возвращает его ID
func createCrew(t *testing.T, env *TestEnvironment, token string, req CreateCrewRequest) int64 {
	t.Helper()

	body, contentType := crewForm(t, req)
	resp := env.MakeMultipartRequest(t, http.MethodPost, "/api/crews", body, contentType, token)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode, "Crew creation should succeed")

	var createResp CreateCrewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&createResp))
	require.NotZero(t, createResp.CrewID)

	return createResp.CrewID
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	return errResp.Error.Code
}

// TestE2E_CrewApplicationWorkflow тестирует полный цикл заявок с ручным одобрением
func TestE2E_CrewApplicationWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)
	env.WaitForHealthCheck(t)

	leaderID := env.SeedMember(t, "leader", 90)
	runnerID := env.SeedMember(t, "runner", 70)
	thirdID := env.SeedMember(t, "third", 50)

	leaderToken := login(t, env, leaderID)
	runnerToken := login(t, env, runnerID)
	thirdToken := login(t, env, thirdID)

	var crewID int64
	t.Run("Create Crew", func(t *testing.T) {
		crewID = createCrew(t, env, leaderToken, CreateCrewRequest{
			Name:         "Han River Runners",
			Capacity:     2,
			Category:     "RUNNING",
			Tags:         []string{"morning", "5k"},
			ApprovalType: "MANUAL",
			Introduction: "Easy pace, every day",
			Rule:         Rule{DistanceTarget: 5000, DurationTarget: 1800},
		})
	})

	t.Run("Apply Is Pending For Manual Crew", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"message": "let me in"})
		resp := env.MakeRequest(t, http.MethodPost, fmt.Sprintf("/api/crews/%d/applications", crewID), bytes.NewReader(body), runnerToken)
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var applyResp ApplyCrewResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&applyResp))
		assert.True(t, applyResp.IsPending)
	})

	t.Run("Duplicate Application Is Rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"message": "again"})
		resp := env.MakeRequest(t, http.MethodPost, fmt.Sprintf("/api/crews/%d/applications", crewID), bytes.NewReader(body), runnerToken)
		defer resp.Body.Close()

		require.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "APPLICATION_EXISTS", decodeError(t, resp))
	})

	t.Run("Leader Sees Pending Applications", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, fmt.Sprintf("/api/crews/%d/applications", crewID), nil, leaderToken)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var apps []PendingApplication
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&apps))
		require.Len(t, apps, 1)
		assert.Equal(t, "runner", apps[0].Nickname)
		assert.Equal(t, "let me in", apps[0].Message)
		assert.Equal(t, 70, apps[0].RunScore)
	})

	t.Run("Non-Leader Cannot List Applications", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, fmt.Sprintf("/api/crews/%d/applications", crewID), nil, runnerToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Leader Approves Application", func(t *testing.T) {
		body, _ := json.Marshal(map[string]bool{"approve": true})
		resp := env.MakeRequest(t, http.MethodPost, fmt.Sprintf("/api/crews/%d/applications/%d", crewID, runnerID), bytes.NewReader(body), leaderToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Crew Summary Counts Both Members", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, fmt.Sprintf("/api/crews/%d", crewID), nil, runnerToken)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var crew CrewSummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&crew))
		assert.Equal(t, 2, crew.MemberCount)
		assert.Equal(t, []string{"morning", "5k"}, crew.Tags)
	})

	t.Run("Approving Over Capacity Fails", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"message": "room for one more?"})
		resp := env.MakeRequest(t, http.MethodPost, fmt.Sprintf("/api/crews/%d/applications", crewID), bytes.NewReader(body), thirdToken)
		resp.Body.Close()

		approveBody, _ := json.Marshal(map[string]bool{"approve": true})
		resp = env.MakeRequest(t, http.MethodPost, fmt.Sprintf("/api/crews/%d/applications/%d", crewID, thirdID), bytes.NewReader(approveBody), leaderToken)
		defer resp.Body.Close()

		require.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CREW_FULL", decodeError(t, resp))
	})

	t.Run("Leader Cannot Leave With Members", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodDelete, fmt.Sprintf("/api/crews/%d/members/me", crewID), nil, leaderToken)
		defer resp.Body.Close()

		require.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CREW_NOT_EMPTY", decodeError(t, resp))
	})

	t.Run("Member Leaves Then Leader Deletes Crew By Leaving", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodDelete, fmt.Sprintf("/api/crews/%d/members/me", crewID), nil, runnerToken)
		resp.Body.Close()

		resp = env.MakeRequest(t, http.MethodDelete, fmt.Sprintf("/api/crews/%d/members/me", crewID), nil, leaderToken)
		resp.Body.Close()

		resp = env.MakeRequest(t, http.MethodGet, fmt.Sprintf("/api/crews/%d", crewID), nil, thirdToken)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

// TestE2E_AutoApproval тестирует автоматический прием в крю
func TestE2E_AutoApproval(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)
	env.WaitForHealthCheck(t)

	leaderID := env.SeedMember(t, "auto-leader", 80)
	runnerID := env.SeedMember(t, "auto-runner", 60)

	leaderToken := login(t, env, leaderID)
	runnerToken := login(t, env, runnerID)

	crewID := createCrew(t, env, leaderToken, CreateCrewRequest{
		Name:         "Open Crew",
		Capacity:     10,
		Category:     "RUNNING",
		ApprovalType: "AUTO",
		Rule:         Rule{DistanceTarget: 3000, DurationTarget: 1200},
	})

	t.Run("Apply Joins Immediately", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"message": ""})
		resp := env.MakeRequest(t, http.MethodPost, fmt.Sprintf("/api/crews/%d/applications", crewID), bytes.NewReader(body), runnerToken)
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var applyResp ApplyCrewResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&applyResp))
		assert.False(t, applyResp.IsPending)
	})

	t.Run("Member Count Reflects The Join", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, fmt.Sprintf("/api/crews/%d", crewID), nil, runnerToken)
		defer resp.Body.Close()

		var crew CrewSummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&crew))
		assert.Equal(t, 2, crew.MemberCount)
	})

	t.Run("Second Crew Application Is Rejected", func(t *testing.T) {
		otherLeaderID := env.SeedMember(t, "other-leader", 40)
		otherToken := login(t, env, otherLeaderID)
		otherCrewID := createCrew(t, env, otherToken, CreateCrewRequest{
			Name:         "Other Crew",
			Capacity:     5,
			Category:     "RUNNING",
			ApprovalType: "AUTO",
		})

		body, _ := json.Marshal(map[string]string{"message": ""})
		resp := env.MakeRequest(t, http.MethodPost, fmt.Sprintf("/api/crews/%d/applications", otherCrewID), bytes.NewReader(body), runnerToken)
		defer resp.Body.Close()

		require.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "ALREADY_IN_CREW", decodeError(t, resp))
	})
}

// TestE2E_MissionProgress тестирует прогресс и завершение миссий по записям за день
func TestE2E_MissionProgress(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)
	env.WaitForHealthCheck(t)

	leaderID := env.SeedMember(t, "mission-runner", 75)
	token := login(t, env, leaderID)

	crewID := createCrew(t, env, token, CreateCrewRequest{
		Name:         "Mission Crew",
		Capacity:     5,
		Category:     "RUNNING",
		ApprovalType: "AUTO",
		Rule:         Rule{DistanceTarget: 1000, DurationTarget: 600},
	})

	saveRecord := func(t *testing.T, req SaveRecordRequest) {
		t.Helper()
		body, _ := json.Marshal(req)
		resp := env.MakeRequest(t, http.MethodPost, "/api/records", bytes.NewReader(body), token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	getMissions := func(t *testing.T) []MissionProgress {
		t.Helper()
		resp := env.MakeRequest(t, http.MethodGet, fmt.Sprintf("/api/crews/%d/missions", crewID), nil, token)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var missions []MissionProgress
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&missions))
		require.Len(t, missions, 2)
		return missions
	}

	missionByType := func(missions []MissionProgress, mt string) MissionProgress {
		for _, m := range missions {
			if m.Type == mt {
				return m
			}
		}
		t.Fatalf("mission %s not found", mt)
		return MissionProgress{}
	}

	t.Run("Half Distance Gives Half Progress", func(t *testing.T) {
		saveRecord(t, SaveRecordRequest{RunTime: 200, RunDistance: 500, IsEnd: true})

		missions := getMissions(t)
		assert.InDelta(t, 50, missionByType(missions, "DISTANCE").Progress, 0.001)
	})

	t.Run("Unfinished Mission Cannot Be Completed", func(t *testing.T) {
		missions := getMissions(t)
		distance := missionByType(missions, "DISTANCE")

		resp := env.MakeRequest(t, http.MethodPost, fmt.Sprintf("/api/crews/%d/missions/%d/success", crewID, distance.MissionID), nil, token)
		defer resp.Body.Close()

		require.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "MISSION_NOT_DONE", decodeError(t, resp))
	})

	t.Run("Progress Is Capped At 100", func(t *testing.T) {
		saveRecord(t, SaveRecordRequest{RunTime: 300, RunDistance: 900, IsEnd: true})

		missions := getMissions(t)
		distance := missionByType(missions, "DISTANCE")
		assert.InDelta(t, 100, distance.Progress, 0.001)
		assert.False(t, distance.Completed)
	})

	t.Run("Completed Mission Sticks And Repeats Are Idempotent", func(t *testing.T) {
		missions := getMissions(t)
		distance := missionByType(missions, "DISTANCE")

		for i := 0; i < 2; i++ {
			resp := env.MakeRequest(t, http.MethodPost, fmt.Sprintf("/api/crews/%d/missions/%d/success", crewID, distance.MissionID), nil, token)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			resp.Body.Close()
		}

		missions = getMissions(t)
		assert.True(t, missionByType(missions, "DISTANCE").Completed)
	})
}

// TestE2E_RunningStatus тестирует агрегацию статусов бега по крю
func TestE2E_RunningStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)
	env.WaitForHealthCheck(t)

	leaderID := env.SeedMember(t, "status-leader", 85)
	runnerID := env.SeedMember(t, "status-runner", 65)
	restingID := env.SeedMember(t, "status-resting", 55)

	leaderToken := login(t, env, leaderID)
	runnerToken := login(t, env, runnerID)
	restingToken := login(t, env, restingID)

	crewID := createCrew(t, env, leaderToken, CreateCrewRequest{
		Name:         "Status Crew",
		Capacity:     10,
		Category:     "RUNNING",
		ApprovalType: "AUTO",
		Rule:         Rule{DistanceTarget: 5000, DurationTarget: 1800},
	})

	for _, token := range []string{runnerToken, restingToken} {
		body, _ := json.Marshal(map[string]string{"message": ""})
		resp := env.MakeRequest(t, http.MethodPost, fmt.Sprintf("/api/crews/%d/applications", crewID), bytes.NewReader(body), token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Лидер завершил пробежку, второй участник еще бежит, третий не бегал
	body, _ := json.Marshal(SaveRecordRequest{RunTime: 900, RunDistance: 3000, IsEnd: true})
	resp := env.MakeRequest(t, http.MethodPost, "/api/records", bytes.NewReader(body), leaderToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	body, _ = json.Marshal(SaveRecordRequest{RunTime: 120, RunDistance: 400})
	resp = env.MakeRequest(t, http.MethodPost, "/api/records", bytes.NewReader(body), runnerToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	t.Run("Running Members First Then By Run Time", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, fmt.Sprintf("/api/crews/%d/running-status", crewID), nil, restingToken)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var statuses []RunningStatus
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&statuses))
		require.Len(t, statuses, 2, "Members without records today are omitted")

		assert.Equal(t, runnerID, statuses[0].MemberID)
		assert.False(t, statuses[0].IsEnd)
		assert.Equal(t, leaderID, statuses[1].MemberID)
		assert.True(t, statuses[1].IsEnd)
	})

	t.Run("Outsider Is Forbidden", func(t *testing.T) {
		outsiderID := env.SeedMember(t, "outsider", 10)
		outsiderToken := login(t, env, outsiderID)

		resp := env.MakeRequest(t, http.MethodGet, fmt.Sprintf("/api/crews/%d/running-status", crewID), nil, outsiderToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

// TestE2E_Records тестирует сохранение и чтение записей о пробежках
func TestE2E_Records(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)
	env.WaitForHealthCheck(t)

	memberID := env.SeedMember(t, "record-runner", 50)
	token := login(t, env, memberID)

	var openRecordID int64
	t.Run("Save Updates The Same Open Record", func(t *testing.T) {
		body, _ := json.Marshal(SaveRecordRequest{RunTime: 60, RunDistance: 200, Latitude: 37.5, Longitude: 127.0})
		resp := env.MakeRequest(t, http.MethodPost, "/api/records", bytes.NewReader(body), token)
		var first Record
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
		resp.Body.Close()

		body, _ = json.Marshal(SaveRecordRequest{RunTime: 120, RunDistance: 450, Latitude: 37.6, Longitude: 127.1})
		resp = env.MakeRequest(t, http.MethodPost, "/api/records", bytes.NewReader(body), token)
		var second Record
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
		resp.Body.Close()

		assert.Equal(t, first.RecordID, second.RecordID)
		assert.Equal(t, 450.0, second.RunDistance)
		openRecordID = second.RecordID
	})

	t.Run("Current Record Returns The Open Run", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/api/records/current", nil, token)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var current struct {
			Record         Record `json:"record"`
			LastCoordinate *struct {
				Latitude float64 `json:"latitude"`
			} `json:"last_coordinate"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&current))
		assert.Equal(t, openRecordID, current.Record.RecordID)
		require.NotNil(t, current.LastCoordinate)
		assert.Equal(t, 37.6, current.LastCoordinate.Latitude)
	})

	t.Run("Closing The Run Moves It To History", func(t *testing.T) {
		body, _ := json.Marshal(SaveRecordRequest{RunTime: 600, RunDistance: 2000, IsEnd: true})
		resp := env.MakeRequest(t, http.MethodPost, "/api/records", bytes.NewReader(body), token)
		resp.Body.Close()

		resp = env.MakeRequest(t, http.MethodGet, "/api/records/current", nil, token)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp.Body.Close()

		resp = env.MakeRequest(t, http.MethodGet, fmt.Sprintf("/api/records/%d", openRecordID), nil, token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Unauthorized Request Is Rejected", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/api/records/current", nil, "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestE2E_MemberProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)
	env.WaitForHealthCheck(t)

	memberID := env.SeedMember(t, "profile-runner", 55)
	token := login(t, env, memberID)

	t.Run("Profile Keeps Fractional Stats", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/api/members/me", nil, token)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var profile struct {
			Member struct {
				MemberID      int64   `json:"member_id"`
				Nickname      string  `json:"nickname"`
				Weight        float64 `json:"weight"`
				AvgDistance   float64 `json:"avg_distance"`
				TotalDistance float64 `json:"total_distance"`
				RunScore      int     `json:"run_score"`
			} `json:"member"`
			CrewID *int64 `json:"crew_id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
		assert.Equal(t, memberID, profile.Member.MemberID)
		assert.Equal(t, "profile-runner", profile.Member.Nickname)
		assert.Equal(t, 70.5, profile.Member.Weight)
		assert.Equal(t, 5250.5, profile.Member.AvgDistance)
		assert.Equal(t, 120480.25, profile.Member.TotalDistance)
		assert.Equal(t, 55, profile.Member.RunScore)
		assert.Nil(t, profile.CrewID)
	})
}
