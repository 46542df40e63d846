package hrstore

import (
	"context"
	"database/sql"
)

// Team mirrors one row of the teams table. Dates are ISO YYYY-MM-DD strings.
type Team struct {
	TeamID    int64  `json:"team_id"`
	TeamName  string `json:"team_name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

const teamColumns = "team_id, team_name, created_at, updated_at"

// CreateTeam inserts a team and returns its id.
func (s *Store) CreateTeam(ctx context.Context, teamName string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO teams (team_name) VALUES (?)", teamName)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetTeam returns the team with the given id, or nil when absent.
func (s *Store) GetTeam(ctx context.Context, teamID int64) (*Team, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+teamColumns+" FROM teams WHERE team_id = ?", teamID)
	return scanTeam(row)
}

// GetTeamByName returns the team with the exact name, or nil.
func (s *Store) GetTeamByName(ctx context.Context, teamName string) (*Team, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+teamColumns+" FROM teams WHERE team_name = ?", teamName)
	return scanTeam(row)
}

// GetAllTeams returns every team ordered by id.
func (s *Store) GetAllTeams(ctx context.Context) ([]Team, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+teamColumns+" FROM teams ORDER BY team_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeams(rows)
}

// SearchTeams returns teams whose name contains the given fragment. A nil
// fragment returns all teams.
func (s *Store) SearchTeams(ctx context.Context, teamName *string) ([]Team, error) {
	if teamName == nil {
		return s.GetAllTeams(ctx)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+teamColumns+" FROM teams WHERE team_name LIKE ? ORDER BY team_id",
		"%"+*teamName+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeams(rows)
}

func scanTeam(row *sql.Row) (*Team, error) {
	var t Team
	err := row.Scan(&t.TeamID, &t.TeamName, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTeams(rows *sql.Rows) ([]Team, error) {
	teams := []Team{}
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.TeamID, &t.TeamName, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}
