package domain

// MissionType представляет тип дневной миссии крю
type MissionType string

// Возможные типы миссий
const (
	MissionDistance MissionType = "DISTANCE" // Цель по дистанции
	MissionDuration MissionType = "DURATION" // Цель по времени бега
)

// CrewMission представляет дневную миссию участника внутри крю.
// Ровно две строки (DISTANCE и DURATION) создаются в момент появления
// пары (крю, участник). Флаг Completed выставляется один раз и не сбрасывается.
type CrewMission struct {
	ID        int64       `json:"mission_id"`
	CrewID    int64       `json:"crew_id"`
	MemberID  int64       `json:"member_id"`
	Type      MissionType `json:"mission_type"`
	Completed bool        `json:"completed"`
}

// MissionProgress представляет прогресс миссии по записям за текущий день
type MissionProgress struct {
	MissionID int64       `json:"mission_id"`
	Type      MissionType `json:"mission_type"`
	Progress  float64     `json:"mission_progress"` // Процент выполнения, 0..100
	Completed bool        `json:"mission_complete"`
}
