package client

import (
	"context"

	"taskboard-client/domain"
)

// Overview is the global reporting snapshot.
type Overview struct {
	TotalBoards    int `json:"totalBoards"`
	TotalTasks     int `json:"totalTasks"`
	TotalUsers     int `json:"totalUsers"`
	CompletedTasks int `json:"completedTasks"`
}

// BoardStats summarizes one board.
type BoardStats struct {
	Board          domain.Board `json:"board"`
	TotalTasks     int          `json:"totalTasks"`
	TodoTasks      int          `json:"todoTasks"`
	InProgress     int          `json:"inProgressTasks"`
	CompletedTasks int          `json:"completedTasks"`
}

// MemberStats summarizes one member's workload within a board.
type MemberStats struct {
	User           domain.User `json:"user"`
	AssignedTasks  int         `json:"assignedTasks"`
	CompletedTasks int         `json:"completedTasks"`
}

// ReportOverview fetches the global stats.
func (c *Client) ReportOverview(ctx context.Context) (Overview, error) {
	var out Overview
	if err := c.getJSON(ctx, "/reports/overview", &out); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// ReportBoards lists boards for admin reporting.
func (c *Client) ReportBoards(ctx context.Context) ([]domain.Board, error) {
	var boards []domain.Board
	if err := c.getJSON(ctx, "/reports/boards", &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// ReportBoardStats fetches per-board stats.
func (c *Client) ReportBoardStats(ctx context.Context, boardID string) (BoardStats, error) {
	var out BoardStats
	if err := c.getJSON(ctx, "/reports/boards/"+boardID, &out); err != nil {
		return BoardStats{}, err
	}
	return out, nil
}

// ReportBoardUserStats fetches per-member stats within a board.
func (c *Client) ReportBoardUserStats(ctx context.Context, boardID string) ([]MemberStats, error) {
	var out []MemberStats
	if err := c.getJSON(ctx, "/reports/boards/"+boardID+"/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}
