// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Tempus tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/tempus/internal/checking"
	"github.com/starford/tempus/internal/tracker"
)

// Server wraps the MCP server with Tempus tools.
type Server struct {
	mcp *server.MCPServer
	svc *tracker.Service
}

// New creates a new MCP server with all Tempus tools registered.
func New(svc *tracker.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Tempus",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("check_in",
		mcp.WithDescription("Record an arrival now."),
	), s.checkIn)

	s.mcp.AddTool(mcp.NewTool("check_out",
		mcp.WithDescription("Record a departure now."),
	), s.checkOut)

	s.mcp.AddTool(mcp.NewTool("add_checking",
		mcp.WithDescription("Record a checking on a given day."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day in YYYY-MM-DD form")),
		mcp.WithString("time", mcp.Required(), mcp.Description("Clock time HH:MM[:SS] or an RFC 3339 timestamp")),
		mcp.WithString("direction", mcp.Required(), mcp.Description("in or out")),
	), s.addChecking)

	s.mcp.AddTool(mcp.NewTool("remove_checking",
		mcp.WithDescription("Delete a checking. Ids come from get_day."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day in YYYY-MM-DD form")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Checking id")),
	), s.removeChecking)

	s.mcp.AddTool(mcp.NewTool("get_day",
		mcp.WithDescription("Get the checkings and worked time of a day. Defaults to today."),
		mcp.WithString("date", mcp.Description("Day in YYYY-MM-DD form")),
	), s.getDay)

	s.mcp.AddTool(mcp.NewTool("get_week",
		mcp.WithDescription("Get the week containing a day. Defaults to the current week."),
		mcp.WithString("date", mcp.Description("Any day of the week in YYYY-MM-DD form")),
	), s.getWeek)

	s.mcp.AddTool(mcp.NewTool("get_month",
		mcp.WithDescription("Get a month with per-day and per-week totals."),
		mcp.WithString("month", mcp.Required(), mcp.Description("Month in YYYY-MM form")),
	), s.getMonth)

	s.mcp.AddTool(mcp.NewTool("get_year",
		mcp.WithDescription("Get monthly totals of a year."),
		mcp.WithString("year", mcp.Required(), mcp.Description("Four-digit year")),
	), s.getYear)

	s.mcp.AddTool(mcp.NewTool("get_settings",
		mcp.WithDescription("Get user settings such as the first day of the week."),
	), s.getSettings)

	// Resource: storage format.
	s.mcp.AddResource(
		mcp.NewResource(StorageFormatURI, "Storage Format",
			mcp.WithResourceDescription("How months, checkings and settings are persisted."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readStorageFormat,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// dateArg reads an optional date argument, falling back to today.
func (s *Server) dateArg(req mcp.CallToolRequest) (time.Time, error) {
	if v, err := req.RequireString("date"); err == nil && v != "" {
		return s.svc.ParseDate(v)
	}
	return s.svc.Now(), nil
}

func (s *Server) checkIn(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.punch(ctx, checking.In)
}

func (s *Server) checkOut(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.punch(ctx, checking.Out)
}

func (s *Server) punch(ctx context.Context, dir checking.Direction) (*mcp.CallToolResult, error) {
	day, err := s.svc.Punch(ctx, dir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(day)
}

func (s *Server) addChecking(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	timeStr, err := req.RequireString("time")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dirStr, err := req.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	date, err := s.svc.ParseDate(dateStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.svc.ParseTimeOn(date, timeStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, err := checking.ParseDirection(dirStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	day, err := s.svc.AddCheckingOn(ctx, date, t, dir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(day)
}

func (s *Server) removeChecking(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date, err := s.svc.ParseDate(dateStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid id: %s", idStr)), nil
	}

	day, err := s.svc.RemoveChecking(ctx, date, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(day)
}

func (s *Server) getDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := s.dateArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day, err := s.svc.Day(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(day)
}

func (s *Server) getWeek(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := s.dateArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	week, err := s.svc.Week(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(week)
}

func (s *Server) getMonth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := req.RequireString("month")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := time.Parse("2006-01", v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("month must be YYYY-MM: %s", v)), nil
	}
	month, err := s.svc.Month(ctx, m.Year(), m.Month())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(month)
}

func (s *Server) getYear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := req.RequireString("year")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid year: %s", v)), nil
	}
	y, err := s.svc.Year(ctx, year)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(y)
}

func (s *Server) getSettings(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.svc.Settings(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(st)
}

func (s *Server) readStorageFormat(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      StorageFormatURI,
			MIMEType: "text/markdown",
			Text:     StorageFormat,
		},
	}, nil
}
