package domain

// Status is the wire identifier of a task column.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "progress"
	StatusDone       Status = "complete"
)

// Valid reports whether s is a known column.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Assignee is a user reference embedded in task payloads.
type Assignee struct {
	ID       string `json:"_id"`
	Fullname string `json:"fullname,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Attachment is a stored file reference.
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// Task is the client-side snapshot of a board item. The backend owns the
// authoritative copy; this is a cached, possibly stale view.
type Task struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      Status       `json:"status"`
	BoardID     string       `json:"boardId,omitempty"`
	Assignees   []Assignee   `json:"assignees"`
	DueDate     string       `json:"dueDate,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Results     []Attachment `json:"results,omitempty"`
}

// AssignedTo reports whether the task lists userID among its assignees.
func (t Task) AssignedTo(userID string) bool {
	if userID == "" {
		return false
	}
	for _, a := range t.Assignees {
		if a.ID == userID {
			return true
		}
	}
	return false
}

// Board groups tasks and members.
type Board struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Members     []Assignee `json:"members,omitempty"`
}

// User is an account as returned by the users endpoints.
type User struct {
	ID       string `json:"_id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Comment is a task discussion entry.
type Comment struct {
	ID          string       `json:"_id"`
	TaskID      string       `json:"taskId,omitempty"`
	Author      Assignee     `json:"author"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   string       `json:"createdAt,omitempty"`
}
