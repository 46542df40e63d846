package hrtools

import (
	"context"
	"fmt"
	"time"

	"github.com/tallyhq/tally/pkg/core"
	"github.com/tallyhq/tally/pkg/errors"
	"github.com/tallyhq/tally/pkg/llm"
	"github.com/tallyhq/tally/pkg/tool"
)

// dateLayout is the ISO date format used across all tools.
const dateLayout = "2006-01-02"

// Clock abstracts the current date so tests stay deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Testing only.
type FixedClock struct{ T time.Time }

// Now implements Clock.
func (c FixedClock) Now() time.Time { return c.T }

// todayTool returns today's date in YYYY-MM-DD format.
func todayTool(clock Clock) core.Tool {
	def := llm.Tool{
		Function: llm.FunctionDef{
			Name:        "get_today_date",
			Description: "Get today's date in YYYY-MM-DD format.",
			Parameters:  tool.ObjectSchema(nil),
		},
	}
	return tool.NewFunc(def, func(_ context.Context, _ map[string]any) (any, error) {
		return clock.Now().Format(dateLayout), nil
	})
}

// processDateTool adds or subtracts days and weeks from an ISO date. Pure
// given its inputs.
func processDateTool(clock Clock) core.Tool {
	def := llm.Tool{
		Function: llm.FunctionDef{
			Name:        "process_date",
			Description: "Process a date string by adding or subtracting days and weeks. Returns the resulting date in YYYY-MM-DD format.",
			Parameters: tool.ObjectSchema(map[string]any{
				"date":      tool.StringProp("Base date in YYYY-MM-DD format. Defaults to today."),
				"days":      tool.IntProp("Number of days to add or subtract. Defaults to 0."),
				"weeks":     tool.IntProp("Number of weeks to add or subtract. Defaults to 0."),
				"operation": tool.StringProp(`Either "add" or "subtract". Defaults to "add".`),
			}),
		},
	}
	return tool.NewFunc(def, func(_ context.Context, args map[string]any) (any, error) {
		base := clock.Now()
		if raw, ok := args["date"].(string); ok && raw != "" {
			parsed, err := time.Parse(dateLayout, raw)
			if err != nil {
				return nil, errors.New(errors.CodeInvalidInput,
					fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw), nil).
					WithRecoverable(true)
			}
			base = parsed
		}

		days := intArg(args, "days", 0)
		weeks := intArg(args, "weeks", 0)
		operation := "add"
		if raw, ok := args["operation"].(string); ok && raw != "" {
			operation = raw
		}

		total := days + 7*weeks
		switch operation {
		case "add":
		case "subtract":
			total = -total
		default:
			return nil, errors.New(errors.CodeInvalidInput,
				fmt.Sprintf("invalid operation %q, expected add or subtract", operation), nil).
				WithRecoverable(true)
		}
		return base.AddDate(0, 0, total).Format(dateLayout), nil
	})
}

// intArg reads an integer argument that JSON decoding delivered as float64.
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return fallback
	}
}
