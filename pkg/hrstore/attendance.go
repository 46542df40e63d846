package hrstore

import (
	"context"
	"database/sql"
)

// Attendance status values.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusWFH     = "WFH"
	StatusLeave   = "Leave"
)

// Statuses lists the valid attendance status values.
var Statuses = []string{StatusPresent, StatusAbsent, StatusWFH, StatusLeave}

// AttendanceRecord mirrors one row of the attendance_records table. Dates are
// ISO YYYY-MM-DD strings, times HH:MM.
type AttendanceRecord struct {
	RecordID       int64   `json:"record_id"`
	EmployeeID     int64   `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	Status         string  `json:"status"`
	CheckInTime    *string `json:"check_in_time"`
	CheckOutTime   *string `json:"check_out_time"`
	Notes          *string `json:"notes"`
}

// AttendanceFilter narrows GetAttendanceByStatus. Nil fields match
// everything.
type AttendanceFilter struct {
	StartDate *string
	EndDate   *string
	TeamID    *int64
}

// TrendPoint is one day's status tally, used by the trends aggregate.
type TrendPoint struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	WFH     int    `json:"wfh"`
	Leave   int    `json:"leave"`
}

const attendanceColumns = "record_id, employee_id, attendance_date, status, check_in_time, check_out_time, notes"

// CreateAttendanceRecord inserts a record and returns its id. Seeding and
// tests only.
func (s *Store) CreateAttendanceRecord(ctx context.Context, employeeID int64, date, status string, checkIn, checkOut, notes *string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO attendance_records (employee_id, attendance_date, status, check_in_time, check_out_time, notes) VALUES (?, ?, ?, ?, ?, ?)",
		employeeID, date, status, checkIn, checkOut, notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetAttendanceRecord returns the record with the given id, or nil.
func (s *Store) GetAttendanceRecord(ctx context.Context, recordID int64) (*AttendanceRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+attendanceColumns+" FROM attendance_records WHERE record_id = ?", recordID)
	return scanRecord(row)
}

// GetAllAttendanceRecords returns every record ordered by date then id.
func (s *Store) GetAllAttendanceRecords(ctx context.Context) ([]AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+attendanceColumns+" FROM attendance_records ORDER BY attendance_date, record_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetAttendanceByDateRange returns records within [startDate, endDate], with
// optional employee and status filters.
func (s *Store) GetAttendanceByDateRange(ctx context.Context, startDate, endDate string, employeeID *int64, status *string) ([]AttendanceRecord, error) {
	query := "SELECT " + attendanceColumns + " FROM attendance_records WHERE attendance_date >= ? AND attendance_date <= ?"
	args := []any{startDate, endDate}
	if employeeID != nil {
		query += " AND employee_id = ?"
		args = append(args, *employeeID)
	}
	if status != nil {
		query += " AND status = ?"
		args = append(args, *status)
	}
	query += " ORDER BY attendance_date, record_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetAttendanceRecordsByEmployee returns all records for one employee.
func (s *Store) GetAttendanceRecordsByEmployee(ctx context.Context, employeeID int64) ([]AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+attendanceColumns+" FROM attendance_records WHERE employee_id = ? ORDER BY attendance_date, record_id",
		employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetAttendanceRecordsByTeam returns records for all employees of a team.
func (s *Store) GetAttendanceRecordsByTeam(ctx context.Context, teamID int64) ([]AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.record_id, r.employee_id, r.attendance_date, r.status, r.check_in_time, r.check_out_time, r.notes
		 FROM attendance_records r
		 JOIN employees e ON e.employee_id = r.employee_id
		 WHERE e.team_id = ?
		 ORDER BY r.attendance_date, r.record_id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetEmployeeAttendanceStats returns status counts for one employee within a
// date range. Every valid status is present in the result, zero when unseen.
func (s *Store) GetEmployeeAttendanceStats(ctx context.Context, employeeID int64, startDate, endDate string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM attendance_records
		 WHERE employee_id = ? AND attendance_date >= ? AND attendance_date <= ?
		 GROUP BY status`, employeeID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStats(rows)
}

// GetTeamAttendanceStats returns status counts for a whole team within a date
// range.
func (s *Store) GetTeamAttendanceStats(ctx context.Context, teamID int64, startDate, endDate string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.status, COUNT(*) FROM attendance_records r
		 JOIN employees e ON e.employee_id = r.employee_id
		 WHERE e.team_id = ? AND r.attendance_date >= ? AND r.attendance_date <= ?
		 GROUP BY r.status`, teamID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStats(rows)
}

// GetAttendanceByStatus returns records with the given status, optionally
// narrowed by date range and team.
func (s *Store) GetAttendanceByStatus(ctx context.Context, status string, filter AttendanceFilter) ([]AttendanceRecord, error) {
	query := `SELECT r.record_id, r.employee_id, r.attendance_date, r.status, r.check_in_time, r.check_out_time, r.notes
		FROM attendance_records r`
	args := []any{}
	if filter.TeamID != nil {
		query += " JOIN employees e ON e.employee_id = r.employee_id"
	}
	query += " WHERE r.status = ?"
	args = append(args, status)
	if filter.StartDate != nil {
		query += " AND r.attendance_date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND r.attendance_date <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.TeamID != nil {
		query += " AND e.team_id = ?"
		args = append(args, *filter.TeamID)
	}
	query += " ORDER BY r.attendance_date, r.record_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetEmployeesWithoutAttendance returns employees lacking a record for the
// given date, optionally narrowed by team.
func (s *Store) GetEmployeesWithoutAttendance(ctx context.Context, date string, teamID *int64) ([]Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees
		WHERE employee_id NOT IN (
			SELECT employee_id FROM attendance_records WHERE attendance_date = ?
		)`
	args := []any{date}
	if teamID != nil {
		query += " AND team_id = ?"
		args = append(args, *teamID)
	}
	query += " ORDER BY employee_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmployees(rows)
}

// GetAttendanceTrends returns one status tally per day within the range, in
// date order. Days without records are omitted.
func (s *Store) GetAttendanceTrends(ctx context.Context, startDate, endDate string) ([]TrendPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT attendance_date,
			SUM(CASE WHEN status = 'Present' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'Absent' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'WFH' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'Leave' THEN 1 ELSE 0 END)
		 FROM attendance_records
		 WHERE attendance_date >= ? AND attendance_date <= ?
		 GROUP BY attendance_date
		 ORDER BY attendance_date`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []TrendPoint{}
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Date, &p.Present, &p.Absent, &p.WFH, &p.Leave); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func scanRecord(row *sql.Row) (*AttendanceRecord, error) {
	var r AttendanceRecord
	err := row.Scan(&r.RecordID, &r.EmployeeID, &r.AttendanceDate, &r.Status,
		&r.CheckInTime, &r.CheckOutTime, &r.Notes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanRecords(rows *sql.Rows) ([]AttendanceRecord, error) {
	records := []AttendanceRecord{}
	for rows.Next() {
		var r AttendanceRecord
		if err := rows.Scan(&r.RecordID, &r.EmployeeID, &r.AttendanceDate, &r.Status,
			&r.CheckInTime, &r.CheckOutTime, &r.Notes); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanStats(rows *sql.Rows) (map[string]int, error) {
	stats := map[string]int{
		StatusPresent: 0,
		StatusAbsent:  0,
		StatusWFH:     0,
		StatusLeave:   0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}
