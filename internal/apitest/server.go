// Package apitest serves the todo HTTP contract from memory so the client,
// the page and the CLI can be tested end to end without a real backend.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/tada/internal/model"
)

// Request is one call the service received.
type Request struct {
	Method string
	Path   string
}

func (r Request) String() string { return r.Method + " " + r.Path }

// Service is an in-memory todo backend.
type Service struct {
	mu       sync.Mutex
	todos    []model.Todo
	nextID   int
	failures map[string]int // route key -> forced status
	requests []Request
	now      func() time.Time
}

// NewServer starts a Service behind an httptest server that is closed with the test.
func NewServer(t testing.TB, seed ...model.Todo) (*Service, *httptest.Server) {
	t.Helper()
	s := NewService(seed...)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func NewService(seed ...model.Todo) *Service {
	s := &Service{
		nextID:   1,
		failures: map[string]int{},
		now:      func() time.Time { return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC) },
	}
	for _, td := range seed {
		if td.ID == nil {
			td.ID = model.IntPtr(s.nextID)
		}
		if *td.ID >= s.nextID {
			s.nextID = *td.ID + 1
		}
		s.todos = append(s.todos, td)
	}
	return s
}

// Fail makes every request to route ("list", "create", "update", "delete")
// answer with status until Recover is called.
func (s *Service) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

func (s *Service) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]int{}
}

// Requests returns the calls received so far, oldest first.
func (s *Service) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Todos returns the stored list.
func (s *Service) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo{}, s.todos...)
}

func (s *Service) Handler() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(s.record)

	r.GET("/todos", s.failing("list"), s.list)
	r.POST("/todos", s.failing("create"), s.create)
	r.PUT("/todos/:id", s.failing("update"), s.update)
	r.DELETE("/todos/:id", s.failing("delete"), s.delete)
	return r
}

func (s *Service) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: c.Request.Method, Path: c.Request.URL.Path})
	s.mu.Unlock()
	c.Next()
}

func (s *Service) failing(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		status, ok := s.failures[route]
		s.mu.Unlock()
		if ok {
			c.AbortWithStatusJSON(status, gin.H{"error": fmt.Sprintf("%s failed", route)})
			return
		}
		c.Next()
	}
}

type todoBody struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (s *Service) list(c *gin.Context) {
	c.JSON(http.StatusOK, s.Todos())
}

func (s *Service) create(c *gin.Context) {
	var body todoBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	td := model.Todo{
		ID:        model.IntPtr(s.nextID),
		Title:     body.Title,
		Content:   body.Content,
		CreatedAt: s.now().Format(time.RFC3339),
	}
	s.nextID++
	s.todos = append(s.todos, td)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, td)
}

func (s *Service) update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var body todoBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return
	}
	s.todos[i].Title = body.Title
	s.todos[i].Content = body.Content
	c.JSON(http.StatusOK, s.todos[i])
}

func (s *Service) delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return
	}
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
	c.Status(http.StatusNoContent)
}

// indexOf expects s.mu to be held.
func (s *Service) indexOf(id int) int {
	for i, td := range s.todos {
		if td.ID != nil && *td.ID == id {
			return i
		}
	}
	return -1
}
