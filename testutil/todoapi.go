package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Todo is the resource served by TodoAPI.
type Todo struct {
	ID        int    `json:"id" form:"id"`
	UserID    int    `json:"userId" form:"userId"`
	Title     string `json:"title" form:"title" binding:"required"`
	Completed bool   `json:"completed" form:"completed"`
}

// RecordedRequest is a request as TodoAPI received it.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// SeedTodos are the todos present after Start and Reset.
var SeedTodos = []Todo{
	{ID: 1, UserID: 1, Title: "delectus aut autem", Completed: false},
	{ID: 2, UserID: 1, Title: "quis ut nam facilis et officia qui", Completed: false},
	{ID: 3, UserID: 2, Title: "fugiat veniam minus", Completed: true},
}

// TodoAPI is a fake JSON API. Routes:
//
//	GET    /todos              list, optional ?userId= filter
//	GET    /todos/:id          one todo or 404
//	POST   /todos              create from a JSON or form body, 201
//	PUT    /todos/:id          replace, 404 when absent
//	DELETE /todos/:id          200 with {}
//	GET    /status/:code       responds with the given status
//	GET    /raw                200 with a non-JSON body
//	GET    /empty              200 with no body
//	GET    /slow?ms=N          waits N milliseconds before answering
//	GET    /cookies/set/:name/:value, GET /cookies
type TodoAPI struct {
	mu       sync.Mutex
	todos    map[int]Todo
	nextID   int
	requests []RecordedRequest
	server   *httptest.Server
}

// NewTodoAPI creates a stopped API seeded with SeedTodos.
func NewTodoAPI() *TodoAPI {
	a := &TodoAPI{}
	a.seed()
	return a
}

// Name implements TestComponent.
func (a *TodoAPI) Name() string { return "todo-api" }

// Start implements TestComponent.
func (a *TodoAPI) Start(_ context.Context) error {
	if a.server != nil {
		return errors.New("todo-api: already started")
	}
	a.server = httptest.NewServer(a.Handler())
	return nil
}

// Stop implements TestComponent.
func (a *TodoAPI) Stop(_ context.Context) error {
	if a.server == nil {
		return nil
	}
	a.server.Close()
	a.server = nil
	return nil
}

// Reset implements TestComponent.
func (a *TodoAPI) Reset(_ context.Context) error {
	a.seed()
	return nil
}

// URL returns the base URL of the running server.
func (a *TodoAPI) URL() string {
	if a.server == nil {
		return ""
	}
	return a.server.URL
}

// Requests returns the requests received so far.
func (a *TodoAPI) Requests() []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]RecordedRequest, len(a.requests))
	copy(out, a.requests)
	return out
}

// LastRequest returns the most recent request.
func (a *TodoAPI) LastRequest() (RecordedRequest, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.requests) == 0 {
		return RecordedRequest{}, false
	}
	return a.requests[len(a.requests)-1], true
}

func (a *TodoAPI) seed() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.todos = make(map[int]Todo, len(SeedTodos))
	a.nextID = 1
	for _, t := range SeedTodos {
		a.todos[t.ID] = t
		if t.ID >= a.nextID {
			a.nextID = t.ID + 1
		}
	}
	a.requests = nil
}

// Handler returns the gin engine serving the API.
func (a *TodoAPI) Handler() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(a.record())

	r.GET("/todos", a.listTodos)
	r.GET("/todos/:id", a.getTodo)
	r.POST("/todos", a.createTodo)
	r.PUT("/todos/:id", a.replaceTodo)
	r.DELETE("/todos/:id", a.deleteTodo)

	r.GET("/status/:code", func(c *gin.Context) {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil || code < 100 || code > 599 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status code"})
			return
		}
		c.JSON(code, gin.H{"code": code})
	})
	r.GET("/raw", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain", []byte("not json"))
	})
	r.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/slow", func(c *gin.Context) {
		ms, _ := strconv.Atoi(c.Query("ms"))
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
			c.JSON(http.StatusOK, gin.H{"slept_ms": ms})
		case <-c.Request.Context().Done():
		}
	})
	r.GET("/cookies/set/:name/:value", func(c *gin.Context) {
		c.SetCookie(c.Param("name"), c.Param("value"), 3600, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{})
	})
	r.GET("/cookies", func(c *gin.Context) {
		cookies := map[string]string{}
		for _, ck := range c.Request.Cookies() {
			cookies[ck.Name] = ck.Value
		}
		c.JSON(http.StatusOK, cookies)
	})

	return r
}

func (a *TodoAPI) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		a.mu.Lock()
		a.requests = append(a.requests, RecordedRequest{
			Method:   c.Request.Method,
			Path:     c.Request.URL.Path,
			RawQuery: c.Request.URL.RawQuery,
			Header:   c.Request.Header.Clone(),
			Body:     body,
		})
		a.mu.Unlock()
		c.Next()
	}
}

func (a *TodoAPI) listTodos(c *gin.Context) {
	userID := -1
	if v := c.Query("userId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		userID = id
	}

	a.mu.Lock()
	out := make([]Todo, 0, len(a.todos))
	for _, t := range a.todos {
		if userID < 0 || t.UserID == userID {
			out = append(out, t)
		}
	}
	a.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	c.JSON(http.StatusOK, out)
}

func (a *TodoAPI) getTodo(c *gin.Context) {
	t, ok := a.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (a *TodoAPI) createTodo(c *gin.Context) {
	var t Todo
	if err := c.ShouldBind(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.mu.Lock()
	t.ID = a.nextID
	a.nextID++
	a.todos[t.ID] = t
	a.mu.Unlock()
	c.JSON(http.StatusCreated, t)
}

func (a *TodoAPI) replaceTodo(c *gin.Context) {
	existing, ok := a.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var t Todo
	if err := c.ShouldBind(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t.ID = existing.ID
	a.mu.Lock()
	a.todos[t.ID] = t
	a.mu.Unlock()
	c.JSON(http.StatusOK, t)
}

func (a *TodoAPI) deleteTodo(c *gin.Context) {
	t, ok := a.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	a.mu.Lock()
	delete(a.todos, t.ID)
	a.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{})
}

func (a *TodoAPI) lookup(rawID string) (Todo, bool) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return Todo{}, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.todos[id]
	return t, ok
}
