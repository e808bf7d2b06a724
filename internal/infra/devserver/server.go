// Package devserver provides an in-memory TaskFlow API for local development and tests.
package devserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"golang.org/x/crypto/bcrypt"

	"github.com/runoshun/taskflow/internal/domain"
)

const (
	maxBodyBytes   = 1 << 20
	maxRecentTasks = 5
	maxCategoryAgg = 20
)

var (
	validate      = newValidator()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// user is a stored account.
type user struct {
	domain.User
	hash []byte
}

// Server is an in-memory implementation of the TaskFlow HTTP API.
// Bearer tokens are issued but not checked.
type Server struct {
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
	users      map[string]*user // by email
	tasks      []*domain.Task   // insertion order
	categories []domain.Category
	hashCost   int
	mu         sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithIDs sets the id generator.
func WithIDs(newID func() string) Option {
	return func(s *Server) { s.newID = newID }
}

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Server) { s.hashCost = cost }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates an empty Server.
func New(opts ...Option) *Server {
	s := &Server{
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
		newID:    uuid.NewString,
		users:    make(map[string]*user),
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler serving /api.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/{$}", s.handleRoot)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("PUT /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)
	mux.HandleFunc("GET /api/dashboard/stats", s.handleStats)
	mux.HandleFunc("POST /api/seed", s.handleSeed)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "TaskFlow API v1.0"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// === Auth ===

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
	Success bool        `json:"success"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		writeError(w, http.StatusBadRequest, "email is already registered")
		return
	}
	u := &user{
		User: domain.User{
			ID:        s.newID(),
			Name:      strings.TrimSpace(req.Name),
			Email:     email,
			Role:      "member",
			Avatar:    domain.Initials(req.Name),
			CreatedAt: s.now().UTC(),
		},
		hash: hash,
	}
	s.users[email] = u
	writeJSON(w, http.StatusOK, authResponse{Success: true, User: u.User, Token: tokenFor(u.ID)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	u, ok := s.users[strings.ToLower(strings.TrimSpace(req.Email))]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Success: true, User: u.User, Token: tokenFor(u.ID)})
}

func tokenFor(userID string) string {
	return "token_" + userID
}

// === Tasks ===

// taskJSON is the wire shape of a task. A missing due date is null.
type taskJSON struct {
	DueDate     *string `json:"dueDate"`
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toJSON(t *domain.Task) taskJSON {
	out := taskJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Category:    t.Category,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.HasDueDate() {
		due := t.DueDate.UTC().Format(time.RFC3339)
		out.DueDate = &due
	}
	return out
}

type listParams struct {
	Status   string `schema:"status"`
	Priority string `schema:"priority"`
	Category string `schema:"category"`
}

type createTaskRequest struct {
	DueDate     *string `json:"dueDate"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Category    string  `json:"category"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Category    *string `json:"category"`
	DueDate     *string `json:"dueDate"`
}

func (u updateTaskRequest) isEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.Category == nil && u.DueDate == nil
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var params listParams
	if err := schemaDecoder.Decode(&params, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}

	s.mu.Lock()
	out := make([]taskJSON, 0, len(s.tasks))
	for _, t := range s.newestFirst() {
		if params.Status != "" && string(t.Status) != params.Status {
			continue
		}
		if params.Priority != "" && string(t.Priority) != params.Priority {
			continue
		}
		if params.Category != "" && t.Category != params.Category {
			continue
		}
		out = append(out, toJSON(t))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	due, ok := parseDue(w, req.DueDate)
	if !ok {
		return
	}

	now := s.now().UTC()
	t := &domain.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      domain.Status(req.Status),
		Priority:    domain.Priority(req.Priority),
		Category:    req.Category,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Status == "" {
		t.Status = domain.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}

	s.mu.Lock()
	t.ID = s.newID()
	s.tasks = append(s.tasks, t)
	out := toJSON(t)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.isEmpty() {
		writeError(w, http.StatusBadRequest, "no changes")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	var due *time.Time
	if req.DueDate != nil {
		var ok bool
		if due, ok = parseDue(w, req.DueDate); !ok {
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTask(r.PathValue("id"))
	if t == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = domain.Status(*req.Status)
	}
	if req.Priority != nil {
		t.Priority = domain.Priority(*req.Priority)
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.DueDate != nil {
		t.DueDate = due
	}
	t.UpdatedAt = s.now().UTC()
	writeJSON(w, http.StatusOK, toJSON(t))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
	}
	writeError(w, http.StatusNotFound, "task not found")
}

func (s *Server) findTask(id string) *domain.Task {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// newestFirst returns tasks ordered by creation time, newest first.
// Caller must hold s.mu.
func (s *Server) newestFirst() []*domain.Task {
	out := make([]*domain.Task, len(s.tasks))
	copy(out, s.tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// parseDue decodes a due date. null and "" mean no due date.
func parseDue(w http.ResponseWriter, v *string) (*time.Time, bool) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, true
	}
	due, err := domain.ParseDueDate(*v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "dueDate: "+err.Error())
		return nil, false
	}
	return due, true
}

// === Categories ===

type createCategoryRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	color := req.Color
	if color == "" {
		color = domain.DefaultCategoryColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if domain.FindCategory(s.categories, name) != nil {
		writeError(w, http.StatusBadRequest, "category already exists")
		return
	}
	cat := domain.Category{
		ID:        s.newID(),
		Name:      name,
		Color:     color,
		CreatedAt: s.now().UTC(),
	}
	s.categories = append(s.categories, cat)
	writeJSON(w, http.StatusCreated, cat)
}

// handleDeleteCategory leaves tasks carrying the name untouched.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
	}
	writeError(w, http.StatusNotFound, "category not found")
}

// === Helpers ===

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// decodeBody decodes and validates a JSON body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationDetail(err))
		return false
	}
	return true
}

func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters long"
	case "hexcolor":
		return fe.Field() + " must be a hex color"
	default:
		return fe.Field() + " is invalid"
	}
}
