// Package devserver emulates the external task-management backend for
// local development and tests: the REST surface, HS256 token issuing and a
// WebSocket feed broadcasting task lifecycle events.
package devserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskboard-client/domain"
)

const tokenTTL = 24 * time.Hour

type account struct {
	user     domain.User
	password string
}

// Server holds the in-memory world.
type Server struct {
	echo   *echo.Echo
	log    *log.Logger
	secret []byte
	hub    *hub

	mu       sync.Mutex
	users    map[string]*account // keyed by email
	boards   map[string]*domain.Board
	tasks    map[string]*domain.Task
	comments map[string][]domain.Comment // keyed by task id
}

// New creates a Server with an optional seed of accounts.
func New(secret []byte, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Server{
		echo:     echo.New(),
		log:      logger,
		secret:   secret,
		hub:      newHub(logger),
		users:    make(map[string]*account),
		boards:   make(map[string]*domain.Board),
		tasks:    make(map[string]*domain.Task),
		comments: make(map[string][]domain.Comment),
	}
	s.echo.HideBanner = true
	s.routes()
	return s
}

// SeedUser registers an account directly, bypassing the register endpoint.
func (s *Server) SeedUser(fullname, email, password string, role domain.Role) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUser(fullname, email, password, role)
}

func (s *Server) addUser(fullname, email, password string, role domain.Role) domain.User {
	user := domain.User{ID: uuid.NewString(), Fullname: fullname, Email: email, Role: role}
	s.users[email] = &account{user: user, password: password}
	return user
}

// Handler exposes the HTTP handler for httptest servers.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until the process exits.
func (s *Server) Start(addr string) error { return s.echo.Start(addr) }

// Close drops all feed subscribers and shuts the server down.
func (s *Server) Close() error {
	s.hub.closeAll()
	return s.echo.Close()
}

func (s *Server) routes() {
	e := s.echo
	// One request at a time keeps the in-memory world consistent; the
	// feed endpoint stays concurrent because it blocks for the
	// connection's lifetime.
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().URL.Path == "/ws" {
				return next(c)
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			return next(c)
		}
	})
	e.POST("/auth/login", s.login)
	e.POST("/auth/register", s.register)
	e.POST("/auth/login-google", s.loginGoogle)

	e.GET("/users/profile", s.profile)
	e.GET("/users/admin/all-user", s.listUsers)
	e.GET("/users/admin/all-user1", s.listUsers)
	e.PUT("/users/:id", s.updateRole)

	e.GET("/boards/manager", s.listBoards)
	e.GET("/boards/my-boards", s.listMyBoards)
	e.POST("/boards/create", s.createBoard)

	e.POST("/tasks/create", s.createTask)
	e.GET("/tasks/boards/:id/tasks", s.boardTasks)
	e.GET("/tasks/boards/:id/my-tasks", s.myBoardTasks)
	e.PUT("/tasks/:id/move", s.moveTask)
	e.PUT("/tasks/:id/upload-result", s.uploadResult)

	e.GET("/comments/:taskId", s.listComments)
	e.POST("/comments/create/:taskId", s.createComment)

	e.GET("/reports/overview", s.reportOverview)
	e.GET("/reports/boards", s.reportBoards)
	e.GET("/reports/boards/:id", s.reportBoardStats)
	e.GET("/reports/boards/:id/users", s.reportBoardUserStats)

	e.GET("/ws", s.serveFeed)
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]any{"status": "fail", "message": message})
}

func ok(c echo.Context, data any) error {
	body := map[string]any{"status": "success"}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(http.StatusOK, body)
}

func (s *Server) authed(c echo.Context) (string, domain.Role, error) {
	return userFromAuthHeader(s.secret, c.Request().Header.Get("Authorization"))
}

func (s *Server) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	acc, ok := s.users[req.Email]
	if !ok || acc.password != req.Password {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	token, err := issueToken(s.secret, acc.user.ID, acc.user.Role, tokenTTL)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "token signing failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "success", "token": token})
}

func (s *Server) register(c echo.Context) error {
	var req struct {
		Fullname string `json:"fullname"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password required")
	}
	if _, exists := s.users[req.Email]; exists {
		return fail(c, http.StatusConflict, "email already registered")
	}
	user := s.addUser(req.Fullname, req.Email, req.Password, domain.RoleMember)
	return ok(c, user)
}

func (s *Server) loginGoogle(c echo.Context) error {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := c.Bind(&req); err != nil || req.IDToken == "" {
		return fail(c, http.StatusBadRequest, "missing idToken")
	}
	// The emulator accepts any id token and maps it to a synthetic member.
	user := s.addUser("Google User", "google-"+uuid.NewString()+"@example.com", "", domain.RoleMember)
	token, err := issueToken(s.secret, user.ID, user.Role, tokenTTL)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "token signing failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "success", "token": token})
}

func (s *Server) findUser(id string) *domain.User {
	for _, acc := range s.users {
		if acc.user.ID == id {
			return &acc.user
		}
	}
	return nil
}

func (s *Server) profile(c echo.Context) error {
	userID, _, err := s.authed(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, err.Error())
	}
	user := s.findUser(userID)
	if user == nil {
		return fail(c, http.StatusNotFound, "user not found")
	}
	return ok(c, map[string]any{"result": user})
}

func (s *Server) listUsers(c echo.Context) error {
	if _, role, err := s.authed(c); err != nil || role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "admin only")
	}
	users := make([]domain.User, 0, len(s.users))
	for _, acc := range s.users {
		users = append(users, acc.user)
	}
	return ok(c, users)
}

func (s *Server) updateRole(c echo.Context) error {
	if _, role, err := s.authed(c); err != nil || role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "admin only")
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	newRole, err := domain.ParseRole(req.Role)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	user := s.findUser(c.Param("id"))
	if user == nil {
		return fail(c, http.StatusNotFound, "user not found")
	}
	user.Role = newRole
	return ok(c, user)
}

func (s *Server) listBoards(c echo.Context) error {
	if _, role, err := s.authed(c); err != nil || role != domain.RoleManager {
		return fail(c, http.StatusForbidden, "manager only")
	}
	boards := make([]domain.Board, 0, len(s.boards))
	for _, b := range s.boards {
		boards = append(boards, *b)
	}
	return ok(c, boards)
}

func (s *Server) listMyBoards(c echo.Context) error {
	userID, _, err := s.authed(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, err.Error())
	}
	boards := make([]domain.Board, 0)
	for _, b := range s.boards {
		for _, m := range b.Members {
			if m.ID == userID {
				boards = append(boards, *b)
				break
			}
		}
	}
	return ok(c, boards)
}

func (s *Server) createBoard(c echo.Context) error {
	if _, role, err := s.authed(c); err != nil || role != domain.RoleManager {
		return fail(c, http.StatusForbidden, "manager only")
	}
	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Members     []string `json:"members"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return fail(c, http.StatusBadRequest, "board name required")
	}
	board := &domain.Board{ID: uuid.NewString(), Name: req.Name, Description: req.Description}
	for _, id := range req.Members {
		if u := s.findUser(id); u != nil {
			board.Members = append(board.Members, domain.Assignee{ID: u.ID, Fullname: u.Fullname, Email: u.Email})
		}
	}
	s.boards[board.ID] = board
	return ok(c, board)
}

func (s *Server) createTask(c echo.Context) error {
	if _, role, err := s.authed(c); err != nil || role != domain.RoleManager {
		return fail(c, http.StatusForbidden, "manager only")
	}
	status := domain.Status(c.FormValue("status"))
	if status == "" {
		status = domain.StatusTodo
	}
	if !status.Valid() {
		return fail(c, http.StatusBadRequest, "invalid status")
	}
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Status:      status,
		BoardID:     c.FormValue("boardId"),
		DueDate:     c.FormValue("dueDate"),
		Assignees:   []domain.Assignee{},
	}
	if task.Title == "" {
		return fail(c, http.StatusBadRequest, "task title required")
	}
	form, err := c.MultipartForm()
	if err == nil {
		for _, id := range form.Value["assignees"] {
			if u := s.findUser(id); u != nil {
				task.Assignees = append(task.Assignees, domain.Assignee{ID: u.ID, Fullname: u.Fullname})
			}
		}
		for _, fh := range form.File["attachments"] {
			task.Attachments = append(task.Attachments, domain.Attachment{
				URL:  "/uploads/" + uuid.NewString(),
				Name: fh.Filename,
			})
		}
	}
	s.tasks[task.ID] = task
	s.hub.broadcast(domain.TaskCreated, *task)
	return ok(c, task)
}

func (s *Server) boardTasks(c echo.Context) error {
	if _, _, err := s.authed(c); err != nil {
		return fail(c, http.StatusUnauthorized, err.Error())
	}
	boardID := c.Param("id")
	tasks := make([]domain.Task, 0)
	for _, t := range s.tasks {
		if t.BoardID == boardID {
			tasks = append(tasks, *t)
		}
	}
	return ok(c, tasks)
}

func (s *Server) myBoardTasks(c echo.Context) error {
	userID, _, err := s.authed(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, err.Error())
	}
	boardID := c.Param("id")
	tasks := make([]domain.Task, 0)
	for _, t := range s.tasks {
		if t.BoardID == boardID && t.AssignedTo(userID) {
			tasks = append(tasks, *t)
		}
	}
	return ok(c, tasks)
}

func (s *Server) moveTask(c echo.Context) error {
	if _, _, err := s.authed(c); err != nil {
		return fail(c, http.StatusUnauthorized, err.Error())
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	status := domain.Status(req.Status)
	if !status.Valid() {
		return fail(c, http.StatusBadRequest, "invalid status")
	}
	task, exists := s.tasks[c.Param("id")]
	if !exists {
		return fail(c, http.StatusNotFound, "task not found")
	}
	task.Status = status
	s.hub.broadcast(domain.TaskUpdated, *task)
	return ok(c, task)
}

func (s *Server) uploadResult(c echo.Context) error {
	if _, _, err := s.authed(c); err != nil {
		return fail(c, http.StatusUnauthorized, err.Error())
	}
	task, exists := s.tasks[c.Param("id")]
	if !exists {
		return fail(c, http.StatusNotFound, "task not found")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "multipart body required")
	}
	for _, fh := range form.File["results"] {
		task.Results = append(task.Results, domain.Attachment{
			URL:  "/uploads/" + uuid.NewString(),
			Name: fh.Filename,
		})
	}
	s.hub.broadcast(domain.TaskUpdated, *task)
	return ok(c, task)
}

func (s *Server) listComments(c echo.Context) error {
	if _, _, err := s.authed(c); err != nil {
		return fail(c, http.StatusUnauthorized, err.Error())
	}
	comments := s.comments[c.Param("taskId")]
	if comments == nil {
		comments = []domain.Comment{}
	}
	return ok(c, comments)
}

func (s *Server) createComment(c echo.Context) error {
	userID, _, err := s.authed(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, err.Error())
	}
	taskID := c.Param("taskId")
	if _, exists := s.tasks[taskID]; !exists {
		return fail(c, http.StatusNotFound, "task not found")
	}
	comment := domain.Comment{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Content:   c.FormValue("content"),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if u := s.findUser(userID); u != nil {
		comment.Author = domain.Assignee{ID: u.ID, Fullname: u.Fullname}
	}
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["attachments"] {
			comment.Attachments = append(comment.Attachments, domain.Attachment{
				URL:  "/uploads/" + uuid.NewString(),
				Name: fh.Filename,
			})
		}
	}
	s.comments[taskID] = append(s.comments[taskID], comment)
	return ok(c, comment)
}

func (s *Server) reportOverview(c echo.Context) error {
	if _, role, err := s.authed(c); err != nil || role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "admin only")
	}
	completed := 0
	for _, t := range s.tasks {
		if t.Status == domain.StatusDone {
			completed++
		}
	}
	return ok(c, map[string]int{
		"totalBoards":    len(s.boards),
		"totalTasks":     len(s.tasks),
		"totalUsers":     len(s.users),
		"completedTasks": completed,
	})
}

func (s *Server) reportBoards(c echo.Context) error {
	if _, role, err := s.authed(c); err != nil || role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "admin only")
	}
	boards := make([]domain.Board, 0, len(s.boards))
	for _, b := range s.boards {
		boards = append(boards, *b)
	}
	return ok(c, boards)
}

func (s *Server) reportBoardStats(c echo.Context) error {
	if _, role, err := s.authed(c); err != nil || role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "admin only")
	}
	board, exists := s.boards[c.Param("id")]
	if !exists {
		return fail(c, http.StatusNotFound, "board not found")
	}
	stats := map[string]any{"board": board}
	total, todo, progress, done := 0, 0, 0, 0
	for _, t := range s.tasks {
		if t.BoardID != board.ID {
			continue
		}
		total++
		switch t.Status {
		case domain.StatusTodo:
			todo++
		case domain.StatusInProgress:
			progress++
		case domain.StatusDone:
			done++
		}
	}
	stats["totalTasks"] = total
	stats["todoTasks"] = todo
	stats["inProgressTasks"] = progress
	stats["completedTasks"] = done
	return ok(c, stats)
}

func (s *Server) reportBoardUserStats(c echo.Context) error {
	if _, role, err := s.authed(c); err != nil || role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "admin only")
	}
	board, exists := s.boards[c.Param("id")]
	if !exists {
		return fail(c, http.StatusNotFound, "board not found")
	}
	stats := make([]map[string]any, 0, len(board.Members))
	for _, m := range board.Members {
		assigned, completed := 0, 0
		for _, t := range s.tasks {
			if t.BoardID != board.ID || !t.AssignedTo(m.ID) {
				continue
			}
			assigned++
			if t.Status == domain.StatusDone {
				completed++
			}
		}
		stats = append(stats, map[string]any{
			"user":           s.findUser(m.ID),
			"assignedTasks":  assigned,
			"completedTasks": completed,
		})
	}
	return ok(c, stats)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// serveFeed upgrades the connection and keeps it registered until the
// client goes away. The feed is receive-only; inbound frames are drained
// and dropped.
func (s *Server) serveFeed(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	s.hub.add(conn)
	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}
