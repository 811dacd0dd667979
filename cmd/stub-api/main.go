// Command stub-api runs a local stand-in for the remote mock employee API so
// the gateway can be exercised without network access. It speaks the same
// envelope contract: GET /, GET /:id, POST / and DELETE / (by name).
package main

import (
	"net/http"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/example/employee-gateway/internal/domain"
)

const successStatus = "Successfully processed request."

type stubServer struct {
	mu        sync.RWMutex
	employees map[string]domain.Employee
}

func newStubServer() *stubServer {
	s := &stubServer{employees: make(map[string]domain.Employee)}
	s.seed()
	return s
}

func (s *stubServer) seed() {
	samples := []struct {
		name   string
		salary int
		age    int
		title  string
	}{
		{"Tiger Nixon", 320800, 61, "System Architect"},
		{"Garrett Winters", 170750, 63, "Accountant"},
		{"Ashton Cox", 86000, 66, "Junior Technical Author"},
		{"Cedric Kelly", 433060, 22, "Senior Javascript Developer"},
		{"Airi Satou", 162700, 33, "Accountant"},
	}
	for _, sm := range samples {
		id := uuid.NewString()
		salary, age := sm.salary, sm.age
		s.employees[id] = domain.Employee{
			ID:     id,
			Name:   sm.name,
			Salary: &salary,
			Age:    &age,
			Title:  sm.title,
			Email:  "demo@company.com",
		}
	}
}

func (s *stubServer) list(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		all = append(all, e)
	}
	return c.JSON(http.StatusOK, domain.Envelope[[]domain.Employee]{Data: &all, Status: successStatus})
}

func (s *stubServer) get(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, domain.Envelope[domain.Employee]{Status: "Not found"})
	}
	return c.JSON(http.StatusOK, domain.Envelope[domain.Employee]{Data: &e, Status: successStatus})
}

func (s *stubServer) create(c echo.Context) error {
	var req domain.CreateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.Envelope[domain.Employee]{Status: "Bad request"})
	}

	salary, age := req.Salary, req.Age
	e := domain.Employee{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Salary: &salary,
		Age:    &age,
		Title:  req.Title,
		Email:  "demo@company.com",
	}

	s.mu.Lock()
	s.employees[e.ID] = e
	s.mu.Unlock()

	return c.JSON(http.StatusOK, domain.Envelope[domain.Employee]{Data: &e, Status: successStatus})
}

func (s *stubServer) delete(c echo.Context) error {
	var req domain.DeleteEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.Envelope[bool]{Status: "Bad request"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.employees {
		if e.Name == req.Name {
			delete(s.employees, id)
			deleted := true
			return c.JSON(http.StatusOK, domain.Envelope[bool]{Data: &deleted, Status: successStatus})
		}
	}
	return c.JSON(http.StatusNotFound, domain.Envelope[bool]{Status: "Not found"})
}

func main() {
	port := os.Getenv("STUB_API_PORT")
	if port == "" {
		port = "8112"
	}

	s := newStubServer()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	g := e.Group("/api/v1/employee")
	g.GET("", s.list)
	g.GET("/:id", s.get)
	g.POST("", s.create)
	g.DELETE("", s.delete)

	e.Logger.Fatal(e.Start(":" + port))
}
