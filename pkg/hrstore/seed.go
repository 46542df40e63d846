package hrstore

import (
	"context"
	"time"
)

// Seed populates an empty database with demo teams, employees, and a week of
// attendance records ending at today. It is idempotent: a non-empty employees
// table is left untouched.
func (s *Store) Seed(ctx context.Context, today time.Time) error {
	existing, err := s.GetAllEmployees(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	teams := []string{"Engineering", "Design", "Operations"}
	teamIDs := make([]int64, 0, len(teams))
	for _, name := range teams {
		id, err := s.CreateTeam(ctx, name)
		if err != nil {
			return err
		}
		teamIDs = append(teamIDs, id)
	}

	type emp struct {
		name  string
		email string
		team  int
		role  string
	}
	employees := []emp{
		{"Ana Soler", "ana@example.com", 0, "ADMIN"},
		{"Bram Koch", "bram@example.com", 0, "EMPLOYEE"},
		{"Carla Ionescu", "carla@example.com", 1, "EMPLOYEE"},
		{"Deniz Aydin", "deniz@example.com", 1, "EMPLOYEE"},
		{"Emeka Obi", "emeka@example.com", 2, "EMPLOYEE"},
	}
	statuses := []string{StatusPresent, StatusPresent, StatusWFH, StatusAbsent, StatusLeave}

	for i, e := range employees {
		teamID := teamIDs[e.team]
		empID, err := s.CreateEmployee(ctx, e.name, e.email, &teamID, e.role)
		if err != nil {
			return err
		}
		for d := 0; d < 7; d++ {
			date := today.AddDate(0, 0, -d).Format("2006-01-02")
			status := statuses[(i+d)%len(statuses)]
			checkIn := "09:00"
			checkOut := "17:30"
			if _, err := s.CreateAttendanceRecord(ctx, empID, date, status, &checkIn, &checkOut, nil); err != nil {
				return err
			}
		}
	}
	return nil
}
