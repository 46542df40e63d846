package hrtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/tallyhq/tally/pkg/core"
	"github.com/tallyhq/tally/pkg/errors"
	"github.com/tallyhq/tally/pkg/hrstore"
	"github.com/tallyhq/tally/pkg/llm"
	"github.com/tallyhq/tally/pkg/tool"
)

// timeframes supported by get_attendance_data, mapped to day spans.
var timeframeDays = map[string]int{
	"today":      0,
	"last week":  7,
	"last month": 30,
}

// attendanceDataTool summarizes attendance for a named timeframe: total and
// per-status counts plus a per-day breakdown.
func attendanceDataTool(store *hrstore.Store, clock Clock) core.Tool {
	def := llm.Tool{
		Function: llm.FunctionDef{
			Name:        "get_attendance_data",
			Description: `Retrieve an attendance summary for a specific timeframe: "last week", "last month", or "today".`,
			Parameters: tool.ObjectSchema(map[string]any{
				"timeframe": tool.StringProp(`One of "last week", "last month", or "today".`),
			}, "timeframe"),
		},
	}
	return tool.NewFunc(def, func(ctx context.Context, args map[string]any) (any, error) {
		timeframe, _ := args["timeframe"].(string)
		days, ok := timeframeDays[timeframe]
		if !ok {
			return nil, errors.New(errors.CodeInvalidInput,
				fmt.Sprintf("invalid timeframe %q, supported: last week, last month, today", timeframe), nil).
				WithRecoverable(true)
		}

		today := clock.Now().Format(dateLayout)
		start := clock.Now().AddDate(0, 0, -days).Format(dateLayout)

		records, err := store.GetAttendanceByDateRange(ctx, start, today, nil, nil)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return fmt.Sprintf("No attendance records found for %s.", timeframe), nil
		}

		trends, err := store.GetAttendanceTrends(ctx, start, today)
		if err != nil {
			return nil, err
		}
		return summarize(records, trends), nil
	})
}

func summarize(records []hrstore.AttendanceRecord, trends []hrstore.TrendPoint) string {
	counts := map[string]int{}
	for _, r := range records {
		counts[r.Status]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total Records: %d\n", len(records))
	fmt.Fprintf(&b, "Present: %d\n", counts[hrstore.StatusPresent])
	fmt.Fprintf(&b, "Absent: %d\n", counts[hrstore.StatusAbsent])
	fmt.Fprintf(&b, "WFH: %d\n", counts[hrstore.StatusWFH])
	fmt.Fprintf(&b, "Leave: %d\n", counts[hrstore.StatusLeave])
	if len(trends) > 0 {
		b.WriteString("Daily breakdown:\n")
		for _, p := range trends {
			fmt.Fprintf(&b, "  %s: Present=%d Absent=%d WFH=%d Leave=%d\n",
				p.Date, p.Present, p.Absent, p.WFH, p.Leave)
		}
	}
	return b.String()
}
