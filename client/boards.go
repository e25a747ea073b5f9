package client

import (
	"context"
	"net/http"

	"taskboard-client/domain"
)

type createBoardRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
}

// ManagerBoards lists boards owned by the calling manager.
func (c *Client) ManagerBoards(ctx context.Context) ([]domain.Board, error) {
	var boards []domain.Board
	if err := c.getJSON(ctx, "/boards/manager", &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// MyBoards lists boards the calling member belongs to.
func (c *Client) MyBoards(ctx context.Context) ([]domain.Board, error) {
	var boards []domain.Board
	if err := c.getJSON(ctx, "/boards/my-boards", &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// CreateBoard creates a board with the given member ids.
func (c *Client) CreateBoard(ctx context.Context, name, description string, members []string) (domain.Board, error) {
	if members == nil {
		members = []string{}
	}
	payload := createBoardRequest{Name: name, Description: description, Members: members}
	var board domain.Board
	if err := c.sendJSON(ctx, http.MethodPost, "/boards/create", payload, &board); err != nil {
		return domain.Board{}, err
	}
	return board, nil
}
