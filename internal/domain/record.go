package domain

import "time"

// Record представляет запись о пробежке участника. Пока пробежка не
// завершена EndTime пустой; обновления идут в одну и ту же открытую запись.
type Record struct {
	ID          int64      `json:"record_id"`
	MemberID    int64      `json:"member_id"`
	RunTime     int        `json:"run_time"`     // Время бега, сек
	RunDistance float64    `json:"run_distance"` // Дистанция, м
	Calories    int        `json:"calories"`
	AvgPace     int        `json:"avg_pace"` // Средний темп, сек/км
	EndTime     *time.Time `json:"end_time,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsEnd возвращает true если пробежка завершена
func (r *Record) IsEnd() bool {
	return r.EndTime != nil
}

// Coordinate представляет GPS-точку, привязанную к записи о пробежке
type Coordinate struct {
	ID        int64     `json:"id"`
	RecordID  int64     `json:"record_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// RunningStatus представляет агрегированный статус бега участника за день:
// суммы по всем его записям и признак что все пробежки завершены.
type RunningStatus struct {
	MemberID    int64   `json:"member_id"`
	Nickname    string  `json:"nickname"`
	RunTime     int     `json:"run_time"`
	RunDistance float64 `json:"run_distance"`
	IsEnd       bool    `json:"is_end"`
}
