package domain

// Approval представляет статус заявки на вступление в крю
type Approval string

// Возможные статусы заявки
const (
	ApprovalPending  Approval = "PENDING"  // Ожидает решения лидера
	ApprovalApproved Approval = "APPROVED" // Одобрена, членство создано
	ApprovalRejected Approval = "REJECTED" // Отклонена, терминальный статус
)

// CrewApplication представляет заявку участника на вступление в крю.
// Инвариант: не более одной PENDING заявки на пару (крю, участник),
// закреплен частичным уникальным индексом в хранилище.
type CrewApplication struct {
	ID       int64    `json:"id"`
	CrewID   int64    `json:"crew_id"`
	MemberID int64    `json:"member_id"`
	Message  string   `json:"message"`
	Status   Approval `json:"status"`
}

// IsPending возвращает true если заявка еще не рассмотрена
func (a *CrewApplication) IsPending() bool {
	return a.Status == ApprovalPending
}
