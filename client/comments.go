package client

import (
	"context"
	"net/http"

	"taskboard-client/domain"
)

// Comments lists the discussion of a task.
func (c *Client) Comments(ctx context.Context, taskID string) ([]domain.Comment, error) {
	var comments []domain.Comment
	if err := c.getJSON(ctx, "/comments/"+taskID, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment posts a comment with optional attachments as multipart
// form data.
func (c *Client) CreateComment(ctx context.Context, taskID, content string, files []FileUpload) (domain.Comment, error) {
	if len(files) > MaxUploadFiles {
		return domain.Comment{}, ErrTooManyFiles
	}
	fields := map[string][]string{"content": {content}}
	body, contentType, err := multipartBody(fields, "attachments", files)
	if err != nil {
		return domain.Comment{}, err
	}
	env, err := c.do(ctx, http.MethodPost, "/comments/create/"+taskID, contentType, body)
	if err != nil {
		return domain.Comment{}, err
	}
	var comment domain.Comment
	if err := decodeData(env, &comment); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}
