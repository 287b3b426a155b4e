package domain

// Gender представляет пол участника
type Gender string

// Возможные значения пола
const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Member представляет участника сервиса. Управляется подсистемой членства,
// здесь читается и не изменяется (агрегатные показатели бега обновляются извне).
type Member struct {
	ID            int64   `json:"member_id"`
	Nickname      string  `json:"nickname"`
	Gender        Gender  `json:"gender"`
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	ProfileImg    string  `json:"profile_img"`
	AvgPace       int     `json:"avg_pace"`       // средний темп, сек/км
	AvgDistance   float64 `json:"avg_distance"`   // средняя дистанция, м
	TotalDistance float64 `json:"total_distance"` // суммарная дистанция, м
	RunScore      int     `json:"run_score"`
}
