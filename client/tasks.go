package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"taskboard-client/domain"
)

// MaxUploadFiles caps attachments per submission. Enforced locally before
// any bytes leave the client.
const MaxUploadFiles = 10

var ErrTooManyFiles = errors.New("too many files: at most 10 allowed")

// FileUpload is one binary blob in a multipart submission.
type FileUpload struct {
	Name   string
	Reader io.Reader
}

// CreateTaskInput carries the multipart fields of POST /tasks/create.
type CreateTaskInput struct {
	Title       string
	Description string
	BoardID     string
	Status      domain.Status
	DueDate     string
	Assignees   []string
	Attachments []FileUpload
}

type moveTaskRequest struct {
	Status domain.Status `json:"status"`
}

// BoardTasks lists every task on a board.
func (c *Client) BoardTasks(ctx context.Context, boardID string) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.getJSON(ctx, "/tasks/boards/"+boardID+"/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// MyBoardTasks lists the tasks on a board assigned to the caller.
func (c *Client) MyBoardTasks(ctx context.Context, boardID string) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.getJSON(ctx, "/tasks/boards/"+boardID+"/my-tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask submits a new task as multipart form data.
func (c *Client) CreateTask(ctx context.Context, in CreateTaskInput) (domain.Task, error) {
	if len(in.Attachments) > MaxUploadFiles {
		return domain.Task{}, ErrTooManyFiles
	}

	fields := map[string][]string{
		"title":       {in.Title},
		"description": {in.Description},
		"boardId":     {in.BoardID},
		"status":      {string(in.Status)},
		"assignees":   in.Assignees,
	}
	if in.DueDate != "" {
		fields["dueDate"] = []string{in.DueDate}
	}
	body, contentType, err := multipartBody(fields, "attachments", in.Attachments)
	if err != nil {
		return domain.Task{}, err
	}

	env, err := c.do(ctx, http.MethodPost, "/tasks/create", contentType, body)
	if err != nil {
		return domain.Task{}, err
	}
	var task domain.Task
	if err := decodeData(env, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// MoveTask transitions a task to another column.
func (c *Client) MoveTask(ctx context.Context, taskID string, status domain.Status) (domain.Task, error) {
	if !status.Valid() {
		return domain.Task{}, fmt.Errorf("invalid status %q", status)
	}
	var task domain.Task
	if err := c.sendJSON(ctx, http.MethodPut, "/tasks/"+taskID+"/move", moveTaskRequest{Status: status}, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// UploadResult attaches result files to a task.
func (c *Client) UploadResult(ctx context.Context, taskID string, files []FileUpload) (domain.Task, error) {
	if len(files) > MaxUploadFiles {
		return domain.Task{}, ErrTooManyFiles
	}
	body, contentType, err := multipartBody(nil, "results", files)
	if err != nil {
		return domain.Task{}, err
	}
	env, err := c.do(ctx, http.MethodPut, "/tasks/"+taskID+"/upload-result", contentType, body)
	if err != nil {
		return domain.Task{}, err
	}
	var task domain.Task
	if err := decodeData(env, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// multipartBody assembles text fields plus file parts into a single
// multipart payload.
func multipartBody(fields map[string][]string, fileField string, files []FileUpload) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, values := range fields {
		for _, v := range values {
			if err := w.WriteField(name, v); err != nil {
				return nil, "", err
			}
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(fileField, f.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
