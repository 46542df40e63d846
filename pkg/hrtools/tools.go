// SPDX-License-Identifier: Apache-2.0

// Package hrtools binds the attendance data layer to the tool catalog. Each
// tool wraps exactly one read accessor; none performs a write.
package hrtools

import (
	"context"

	"github.com/tallyhq/tally/pkg/core"
	"github.com/tallyhq/tally/pkg/hrstore"
	"github.com/tallyhq/tally/pkg/llm"
	"github.com/tallyhq/tally/pkg/tool"
)

// All returns the full attendance tool set: employee, team, and attendance
// data tools plus the synthetic date tools.
func All(store *hrstore.Store, clock Clock) []core.Tool {
	tools := []core.Tool{
		todayTool(clock),
		processDateTool(clock),
		attendanceDataTool(store, clock),
	}
	tools = append(tools, employeeTools(store)...)
	tools = append(tools, teamTools(store)...)
	tools = append(tools, attendanceTools(store)...)
	return tools
}

func employeeTools(store *hrstore.Store) []core.Tool {
	return []core.Tool{
		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_all_employees",
				Description: "Retrieve all employees in the system.",
				Parameters:  tool.ObjectSchema(nil),
			},
		}, func(ctx context.Context, _ map[string]any) (any, error) {
			return store.GetAllEmployees(ctx)
		}),

		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_employee",
				Description: "Retrieve details for a specific employee by employee_id.",
				Parameters: tool.ObjectSchema(map[string]any{
					"employee_id": tool.IntProp("Employee identifier."),
				}, "employee_id"),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.GetEmployee(ctx, int64(intArg(args, "employee_id", 0)))
		}),

		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "search_employees",
				Description: "Search for employees by name, email, team_id, or role. Name and email match partially.",
				Parameters: tool.ObjectSchema(map[string]any{
					"name":    tool.StringProp("Full or partial employee name."),
					"email":   tool.StringProp("Full or partial email address."),
					"team_id": tool.IntProp("Team identifier."),
					"role":    tool.StringProp(`Employee role, "ADMIN" or "EMPLOYEE".`),
				}),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.SearchEmployees(ctx, hrstore.EmployeeFilter{
				Name:   optString(args, "name"),
				Email:  optString(args, "email"),
				TeamID: optInt64(args, "team_id"),
				Role:   optString(args, "role"),
			})
		}),
	}
}

func teamTools(store *hrstore.Store) []core.Tool {
	return []core.Tool{
		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_all_teams",
				Description: "Retrieve all teams in the system.",
				Parameters:  tool.ObjectSchema(nil),
			},
		}, func(ctx context.Context, _ map[string]any) (any, error) {
			return store.GetAllTeams(ctx)
		}),

		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_team",
				Description: "Retrieve details for a specific team by team_id.",
				Parameters: tool.ObjectSchema(map[string]any{
					"team_id": tool.IntProp("Team identifier."),
				}, "team_id"),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.GetTeam(ctx, int64(intArg(args, "team_id", 0)))
		}),

		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "search_teams",
				Description: "Search for teams by name. Matches partially.",
				Parameters: tool.ObjectSchema(map[string]any{
					"team_name": tool.StringProp("Full or partial team name."),
				}),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.SearchTeams(ctx, optString(args, "team_name"))
		}),
	}
}

func attendanceTools(store *hrstore.Store) []core.Tool {
	return []core.Tool{
		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_attendance_by_date_range",
				Description: "Retrieve attendance records within a date range with optional employee and status filters. Dates are YYYY-MM-DD.",
				Parameters: tool.ObjectSchema(map[string]any{
					"start_date":  tool.StringProp("Range start, YYYY-MM-DD."),
					"end_date":    tool.StringProp("Range end, YYYY-MM-DD."),
					"employee_id": tool.IntProp("Optional employee filter."),
					"status":      tool.StringProp(`Optional status filter: "Present", "Absent", "WFH", or "Leave".`),
				}, "start_date", "end_date"),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.GetAttendanceByDateRange(ctx,
				args["start_date"].(string), args["end_date"].(string),
				optInt64(args, "employee_id"), optString(args, "status"))
		}),

		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_attendance_records_by_employee",
				Description: "Retrieve all attendance records for a specific employee.",
				Parameters: tool.ObjectSchema(map[string]any{
					"employee_id": tool.IntProp("Employee identifier."),
				}, "employee_id"),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.GetAttendanceRecordsByEmployee(ctx, int64(intArg(args, "employee_id", 0)))
		}),

		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_attendance_records_by_team",
				Description: "Retrieve attendance records for all employees in a specific team.",
				Parameters: tool.ObjectSchema(map[string]any{
					"team_id": tool.IntProp("Team identifier."),
				}, "team_id"),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.GetAttendanceRecordsByTeam(ctx, int64(intArg(args, "team_id", 0)))
		}),

		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_employee_attendance_stats",
				Description: "Get attendance statistics (counts by status) for an employee within a date range.",
				Parameters: tool.ObjectSchema(map[string]any{
					"employee_id": tool.IntProp("Employee identifier."),
					"start_date":  tool.StringProp("Range start, YYYY-MM-DD."),
					"end_date":    tool.StringProp("Range end, YYYY-MM-DD."),
				}, "employee_id", "start_date", "end_date"),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.GetEmployeeAttendanceStats(ctx,
				int64(intArg(args, "employee_id", 0)),
				args["start_date"].(string), args["end_date"].(string))
		}),

		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_team_attendance_stats",
				Description: "Get attendance statistics (counts by status) for a team within a date range.",
				Parameters: tool.ObjectSchema(map[string]any{
					"team_id":    tool.IntProp("Team identifier."),
					"start_date": tool.StringProp("Range start, YYYY-MM-DD."),
					"end_date":   tool.StringProp("Range end, YYYY-MM-DD."),
				}, "team_id", "start_date", "end_date"),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.GetTeamAttendanceStats(ctx,
				int64(intArg(args, "team_id", 0)),
				args["start_date"].(string), args["end_date"].(string))
		}),

		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_attendance_by_status",
				Description: "Retrieve attendance records with a specific status and optional date range and team filters.",
				Parameters: tool.ObjectSchema(map[string]any{
					"status":     tool.StringProp(`Status: "Present", "Absent", "WFH", or "Leave".`),
					"start_date": tool.StringProp("Optional range start, YYYY-MM-DD."),
					"end_date":   tool.StringProp("Optional range end, YYYY-MM-DD."),
					"team_id":    tool.IntProp("Optional team filter."),
				}, "status"),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.GetAttendanceByStatus(ctx, args["status"].(string), hrstore.AttendanceFilter{
				StartDate: optString(args, "start_date"),
				EndDate:   optString(args, "end_date"),
				TeamID:    optInt64(args, "team_id"),
			})
		}),

		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_employees_without_attendance",
				Description: "Find employees who don't have an attendance record for a specific date, optionally filtered by team.",
				Parameters: tool.ObjectSchema(map[string]any{
					"date":    tool.StringProp("Date, YYYY-MM-DD."),
					"team_id": tool.IntProp("Optional team filter."),
				}, "date"),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.GetEmployeesWithoutAttendance(ctx, args["date"].(string), optInt64(args, "team_id"))
		}),

		tool.NewFunc(llm.Tool{
			Function: llm.FunctionDef{
				Name:        "get_attendance_record",
				Description: "Retrieve a specific attendance record by record_id.",
				Parameters: tool.ObjectSchema(map[string]any{
					"record_id": tool.IntProp("Record identifier."),
				}, "record_id"),
			},
		}, func(ctx context.Context, args map[string]any) (any, error) {
			return store.GetAttendanceRecord(ctx, int64(intArg(args, "record_id", 0)))
		}),
	}
}

func optString(args map[string]any, key string) *string {
	if v, ok := args[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func optInt64(args map[string]any, key string) *int64 {
	switch v := args[key].(type) {
	case float64:
		i := int64(v)
		return &i
	case int:
		i := int64(v)
		return &i
	case int64:
		return &v
	default:
		return nil
	}
}
