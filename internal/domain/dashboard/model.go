package dashboard

import "time"

// Stats is the role-scoped dashboard snapshot. Averages cover the trailing
// thirty days and report 0.0 when no assessments exist in the window.
type Stats struct {
	ActivePatients     int          `json:"active_patients"`
	CrisisPatients     int          `json:"crisis_patients"`
	TodaysAppointments int          `json:"todays_appointments"`
	AvgPHQ9Score       float64      `json:"avg_phq9_score"`
	AvgGAD7Score       float64      `json:"avg_gad7_score"`
	ScoreTrend         []TrendPoint `json:"score_trend"`
	GeneratedAt        time.Time    `json:"generated_at"`
}

// TrendPoint is one weekly average-score bucket for one instrument.
type TrendPoint struct {
	WeekStart    time.Time `json:"week_start"`
	InstrumentID string    `json:"instrument_id"`
	AvgScore     float64   `json:"avg_score"`
	Count        int       `json:"count"`
}
