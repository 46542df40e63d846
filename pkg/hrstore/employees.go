package hrstore

import (
	"context"
	"database/sql"
)

// Employee mirrors one row of the employees table.
type Employee struct {
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	TeamID     *int64 `json:"team_id"`
	Role       string `json:"role"`
}

// EmployeeFilter narrows SearchEmployees. Nil fields match everything;
// name and email match partially.
type EmployeeFilter struct {
	Name   *string
	Email  *string
	TeamID *int64
	Role   *string
}

const employeeColumns = "employee_id, name, email, team_id, role"

// CreateEmployee inserts an employee and returns its id. Used by seeding and
// tests; the conversational tools never write.
func (s *Store) CreateEmployee(ctx context.Context, name, email string, teamID *int64, role string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO employees (name, email, team_id, role) VALUES (?, ?, ?, ?)",
		name, email, teamID, role)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetEmployee returns the employee with the given id, or nil when absent.
func (s *Store) GetEmployee(ctx context.Context, employeeID int64) (*Employee, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE employee_id = ?", employeeID)
	return scanEmployee(row)
}

// GetEmployeeByEmail returns the employee with the given email, or nil.
func (s *Store) GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE email = ?", email)
	return scanEmployee(row)
}

// GetAllEmployees returns every employee ordered by id.
func (s *Store) GetAllEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+employeeColumns+" FROM employees ORDER BY employee_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmployees(rows)
}

// SearchEmployees returns employees matching the filter, ordered by id.
func (s *Store) SearchEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees WHERE 1=1"
	var args []any
	if filter.Name != nil {
		query += " AND name LIKE ?"
		args = append(args, "%"+*filter.Name+"%")
	}
	if filter.Email != nil {
		query += " AND email LIKE ?"
		args = append(args, "%"+*filter.Email+"%")
	}
	if filter.TeamID != nil {
		query += " AND team_id = ?"
		args = append(args, *filter.TeamID)
	}
	if filter.Role != nil {
		query += " AND role = ?"
		args = append(args, *filter.Role)
	}
	query += " ORDER BY employee_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmployees(rows)
}

// GetEmployeesByTeam returns every employee of a team ordered by id.
func (s *Store) GetEmployeesByTeam(ctx context.Context, teamID int64) ([]Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE team_id = ? ORDER BY employee_id", teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmployees(rows)
}

func scanEmployee(row *sql.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.EmployeeID, &e.Name, &e.Email, &e.TeamID, &e.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEmployees(rows *sql.Rows) ([]Employee, error) {
	employees := []Employee{}
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.EmployeeID, &e.Name, &e.Email, &e.TeamID, &e.Role); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
