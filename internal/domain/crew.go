package domain

// ApprovalType представляет политику приема заявок в крю
type ApprovalType string

// Возможные политики приема
const (
	ApprovalAuto   ApprovalType = "AUTO"   // Заявка одобряется автоматически
	ApprovalManual ApprovalType = "MANUAL" // Заявку рассматривает лидер
)

// Category представляет категорию крю
type Category string

// Возможные категории
const (
	CategoryRunning Category = "RUNNING"
)

// Role представляет роль участника внутри крю
type Role string

// Возможные роли
const (
	RoleLeader Role = "LEADER" // Ровно один лидер на крю
	RoleMember Role = "MEMBER"
)

// Rule содержит дневные цели миссий крю
type Rule struct {
	DistanceTarget int `json:"distance_target"` // Цель по дистанции, м
	DurationTarget int `json:"duration_target"` // Цель по времени бега, сек
}

// Crew представляет беговое крю: группа участников с лимитом
// и политикой приема. Создается лидером, удаляется (мягко) когда
// лидер покидает пустое крю.
type Crew struct {
	ID           int64        `json:"crew_id"`
	LeaderID     int64        `json:"leader_id"`
	Name         string       `json:"crew_name"`
	Capacity     int          `json:"limit_member_cnt"`
	Category     Category     `json:"category"`
	ApprovalType ApprovalType `json:"approval_type"`
	Introduction string       `json:"introduction"`
	Rule         Rule         `json:"rule"`
}

// CrewMember представляет членство участника в крю.
// Инвариант: участник состоит не более чем в одном крю,
// он же закреплен уникальным индексом по member_id в хранилище.
type CrewMember struct {
	ID       int64 `json:"id"`
	CrewID   int64 `json:"crew_id"`
	MemberID int64 `json:"member_id"`
	Role     Role  `json:"role"`
}

// IsLeader возвращает true если участник лидер своего крю
func (cm *CrewMember) IsLeader() bool {
	return cm.Role == RoleLeader
}
