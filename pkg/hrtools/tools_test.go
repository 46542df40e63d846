package hrtools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tallyhq/tally/pkg/errors"
	"github.com/tallyhq/tally/pkg/hrstore"
	"github.com/tallyhq/tally/pkg/tool"
)

func newTestStore(t *testing.T) *hrstore.Store {
	t.Helper()
	s, err := hrstore.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestCatalog(t *testing.T, s *hrstore.Store) *tool.Catalog {
	t.Helper()
	catalog := tool.NewCatalog()
	for _, tl := range All(s, testClock) {
		if err := catalog.Register(tl); err != nil {
			t.Fatalf("register %s: %v", tl.Name(), err)
		}
	}
	return catalog
}

func TestAllToolsRegisterWithoutCollision(t *testing.T) {
	s := newTestStore(t)
	catalog := newTestCatalog(t, s)

	for _, name := range []string{
		"get_today_date", "process_date", "get_attendance_data",
		"get_all_employees", "get_employee", "search_employees",
		"get_all_teams", "get_team", "search_teams",
		"get_attendance_by_date_range", "get_attendance_records_by_employee",
		"get_attendance_records_by_team", "get_employee_attendance_stats",
		"get_team_attendance_stats", "get_attendance_by_status",
		"get_employees_without_attendance", "get_attendance_record",
	} {
		if !catalog.Has(name) {
			t.Errorf("catalog missing %s", name)
		}
	}
}

func TestSearchEmployeesThroughCatalog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	teamID, err := s.CreateTeam(ctx, "Engineering")
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if _, err := s.CreateEmployee(ctx, "Ana Soler", "ana@example.com", &teamID, "ADMIN"); err != nil {
		t.Fatalf("create employee: %v", err)
	}

	catalog := newTestCatalog(t, s)
	result, err := catalog.Invoke(ctx, "search_employees", map[string]any{"name": "Ana"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	employees, ok := result.([]hrstore.Employee)
	if !ok || len(employees) != 1 || employees[0].Name != "Ana Soler" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestAttendanceDataSummaryCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	teamID, err := s.CreateTeam(ctx, "Engineering")
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	empID, err := s.CreateEmployee(ctx, "Ana Soler", "ana@example.com", &teamID, "ADMIN")
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	for _, r := range []struct {
		date   string
		status string
	}{
		{"2026-08-28", hrstore.StatusPresent},
		{"2026-08-29", hrstore.StatusWFH},
		{"2026-08-30", hrstore.StatusPresent},
	} {
		if _, err := s.CreateAttendanceRecord(ctx, empID, r.date, r.status, nil, nil, nil); err != nil {
			t.Fatalf("create record: %v", err)
		}
	}

	catalog := newTestCatalog(t, s)
	result, err := catalog.Invoke(ctx, "get_attendance_data", map[string]any{"timeframe": "last week"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	summary, ok := result.(string)
	if !ok {
		t.Fatalf("expected string summary, got %T", result)
	}
	for _, want := range []string{"Total Records: 3", "Present: 2", "WFH: 1", "Daily breakdown:", "2026-08-29"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestAttendanceDataEmptyTimeframe(t *testing.T) {
	s := newTestStore(t)
	catalog := newTestCatalog(t, s)

	result, err := catalog.Invoke(context.Background(), "get_attendance_data", map[string]any{"timeframe": "today"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if result != "No attendance records found for today." {
		t.Fatalf("unexpected result: %v", result)
	}
}

func TestAttendanceDataRejectsUnknownTimeframe(t *testing.T) {
	s := newTestStore(t)
	catalog := newTestCatalog(t, s)

	_, err := catalog.Invoke(context.Background(), "get_attendance_data", map[string]any{"timeframe": "yesterday"})
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestSeededStoreAnswersStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := s.Seed(ctx, today); err != nil {
		t.Fatalf("seed: %v", err)
	}

	catalog := newTestCatalog(t, s)
	result, err := catalog.Invoke(ctx, "get_attendance_data", map[string]any{"timeframe": "last week"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if !strings.Contains(result.(string), "Total Records:") {
		t.Fatalf("unexpected summary: %v", result)
	}
}
