package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/tempus/internal/settings"
	"github.com/starford/tempus/internal/testutil"
	"github.com/starford/tempus/internal/tracker"
)

var testNow = time.Date(2018, time.March, 14, 12, 0, 0, 0, time.UTC)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(testutil.NewTracker(t, testutil.TestSQLite(t), testutil.FixedClock(testNow)))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so handlers are called
	// directly.
	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"check_in":        srv.checkIn,
		"check_out":       srv.checkOut,
		"add_checking":    srv.addChecking,
		"remove_checking": srv.removeChecking,
		"get_day":         srv.getDay,
		"get_week":        srv.getWeek,
		"get_month":       srv.getMonth,
		"get_year":        srv.getYear,
		"get_settings":    srv.getSettings,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(ctx, req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func decodeDay(t *testing.T, r *mcp.CallToolResult) tracker.DaySummary {
	t.Helper()
	if r.IsError {
		t.Fatalf("tool error: %s", resultText(r))
	}
	var day tracker.DaySummary
	if err := json.Unmarshal([]byte(resultText(r)), &day); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return day
}

func TestCheckInAndOut(t *testing.T) {
	srv := testServer(t)

	day := decodeDay(t, callTool(t, srv, "check_in", nil))
	if day.Date != "2018-03-14" || len(day.Checkings) != 1 || day.Checkings[0].Direction != "in" {
		t.Errorf("check_in = %+v", day)
	}

	day = decodeDay(t, callTool(t, srv, "check_out", nil))
	if len(day.Checkings) != 2 || day.Checkings[1].Direction != "out" {
		t.Errorf("check_out = %+v", day.Checkings)
	}
}

func TestAddAndRemoveChecking(t *testing.T) {
	srv := testServer(t)

	_ = callTool(t, srv, "add_checking", map[string]any{"date": "2018-03-02", "time": "09:00", "direction": "in"})
	day := decodeDay(t, callTool(t, srv, "add_checking", map[string]any{"date": "2018-03-02", "time": "12:30", "direction": "out"}))
	if want := (3*time.Hour + 30*time.Minute).Milliseconds(); day.DurationMS != want {
		t.Errorf("duration = %d, want %d", day.DurationMS, want)
	}

	day = decodeDay(t, callTool(t, srv, "remove_checking", map[string]any{"date": "2018-03-02", "id": day.Checkings[1].ID}))
	if len(day.Checkings) != 1 {
		t.Errorf("checkings after remove = %d", len(day.Checkings))
	}

	r := callTool(t, srv, "remove_checking", map[string]any{"date": "2018-03-02", "id": "nope"})
	if !r.IsError {
		t.Error("expected error for bad id")
	}
}

func TestAddCheckingMissingArgs(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "add_checking", map[string]any{"date": "2018-03-02"})
	if !r.IsError {
		t.Error("expected error for missing time")
	}
	r = callTool(t, srv, "add_checking", map[string]any{"date": "2018-03-02", "time": "09:00", "direction": "up"})
	if !r.IsError {
		t.Error("expected error for bad direction")
	}
	r = callTool(t, srv, "add_checking", map[string]any{"date": "2018-03-02", "time": "2018-03-20T09:00:00Z", "direction": "in"})
	if !r.IsError {
		t.Error("expected error for a timestamp on another day")
	}
}

func TestGetDayDefaultsToToday(t *testing.T) {
	srv := testServer(t)
	day := decodeDay(t, callTool(t, srv, "get_day", map[string]any{}))
	if day.Date != "2018-03-14" || !day.IsToday {
		t.Errorf("get_day = %+v", day)
	}
}

func TestViews(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_week", map[string]any{"date": "2018-02-14"})
	if r.IsError || !strings.Contains(resultText(r), `"2018-02-11"`) {
		t.Errorf("get_week = %s", resultText(r))
	}

	r = callTool(t, srv, "get_month", map[string]any{"month": "2018-02"})
	var month tracker.MonthSummary
	if err := json.Unmarshal([]byte(resultText(r)), &month); err != nil || len(month.Days) != 28 {
		t.Errorf("get_month = %s", resultText(r))
	}
	if r := callTool(t, srv, "get_month", map[string]any{"month": "February"}); !r.IsError {
		t.Error("expected error for bad month")
	}

	r = callTool(t, srv, "get_year", map[string]any{"year": "2018"})
	var year tracker.YearSummary
	if err := json.Unmarshal([]byte(resultText(r)), &year); err != nil || len(year.Months) != 12 {
		t.Errorf("get_year = %s", resultText(r))
	}
}

func TestGetSettings(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_settings", nil)
	var st settings.Settings
	if err := json.Unmarshal([]byte(resultText(r)), &st); err != nil || st.FirstDayOfWeek != time.Sunday {
		t.Errorf("get_settings = %s", resultText(r))
	}
}

func TestStorageFormatResource(t *testing.T) {
	srv := testServer(t)
	contents, err := srv.readStorageFormat(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != StorageFormatURI || !strings.Contains(tc.Text, `"dayInfos"`) {
		t.Errorf("resource = %+v", contents)
	}
}
