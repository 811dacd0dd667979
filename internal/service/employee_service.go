package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/example/employee-gateway/internal/domain"
	"github.com/example/employee-gateway/internal/logger"
)

const listCacheKey = "employees:all"

func employeeCacheKey(id string) string {
	return "employee:" + id
}

// EmployeeService implements the business logic over the upstream mock API:
// aggregation queries and translation of upstream failures into the error
// kinds the handlers map to status codes. NotFound is always surfaced
// unwrapped, never inside a service failure.
type EmployeeService struct {
	gateway domain.EmployeeGateway
	store   domain.Store // nil disables caching
}

// NewEmployeeService creates a new EmployeeService. A nil store disables
// caching.
func NewEmployeeService(gateway domain.EmployeeGateway, store domain.Store) *EmployeeService {
	return &EmployeeService{gateway: gateway, store: store}
}

// serviceFailure wraps a raw upstream failure as domain.ErrUnavailable,
// keeping the cause on the error chain so callers can still reach it with
// errors.As.
func serviceFailure(msg string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", msg, domain.ErrUnavailable)
	}
	return fmt.Errorf("%s: %w: %w", msg, domain.ErrUnavailable, cause)
}

// List retrieves all employees. A missing upstream payload is an empty list,
// never nil.
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	logger.InfoLog(ctx, "Retrieving all employees")

	if cached, ok := s.cacheGetList(ctx); ok {
		return cached, nil
	}

	env, err := s.gateway.FetchAll(ctx)
	if err != nil {
		logger.ErrorLog(ctx, "Failed to retrieve all employees", err)
		return nil, serviceFailure("failed to retrieve employees", err)
	}

	if env.Data == nil {
		logger.WarnLog(ctx, "No employee data received from API")
		return []domain.Employee{}, nil
	}

	employees := *env.Data
	if len(employees) > 0 {
		s.cacheSetList(ctx, employees)
	}
	logger.InfoLog(ctx, "Retrieved %d employees", len(employees))
	return employees, nil
}

// SearchByName returns the employees whose name contains the fragment,
// case-insensitively. A blank fragment returns an empty result without
// touching the upstream.
func (s *EmployeeService) SearchByName(ctx context.Context, fragment string) ([]domain.Employee, error) {
	logger.InfoLog(ctx, "Searching employees by name: %s", fragment)

	if strings.TrimSpace(fragment) == "" {
		logger.WarnLog(ctx, "Empty search string provided")
		return []domain.Employee{}, nil
	}

	employees, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matching := []domain.Employee{}
	for _, e := range employees {
		if e.NameContains(fragment) {
			matching = append(matching, e)
		}
	}

	logger.InfoLog(ctx, "Found %d employees matching search term: %s", len(matching), fragment)
	return matching, nil
}

// GetByID retrieves a single employee. A blank id is invalid input; an
// upstream 404 and an empty payload both surface as domain.ErrNotFound.
func (s *EmployeeService) GetByID(ctx context.Context, id string) (domain.Employee, error) {
	logger.InfoLog(ctx, "Retrieving employee by ID: %s", id)

	if strings.TrimSpace(id) == "" {
		return domain.Employee{}, fmt.Errorf("employee ID cannot be blank: %w", domain.ErrInvalidInput)
	}

	if cached, ok := s.cacheGetEmployee(ctx, id); ok {
		return cached, nil
	}

	env, err := s.gateway.FetchByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.WarnLog(ctx, "Employee not found with ID: %s", id)
			return domain.Employee{}, err
		}
		logger.ErrorLog(ctx, "Failed to retrieve employee by ID", err)
		return domain.Employee{}, serviceFailure("failed to retrieve employee", err)
	}

	if env.Data == nil {
		logger.WarnLog(ctx, "Employee not found with ID: %s", id)
		return domain.Employee{}, fmt.Errorf("no employee with ID %s: %w", id, domain.ErrNotFound)
	}

	s.cacheSetEmployee(ctx, *env.Data)
	logger.InfoLog(ctx, "Retrieved employee: %s", env.Data.Name)
	return *env.Data, nil
}

// HighestSalary returns the maximum salary among all employees, ignoring
// employees whose salary is absent. An empty list yields 0.
func (s *EmployeeService) HighestSalary(ctx context.Context) (int, error) {
	logger.InfoLog(ctx, "Finding highest salary among all employees")

	employees, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, e := range employees {
		if e.Salary != nil && *e.Salary > highest {
			highest = *e.Salary
		}
	}

	logger.InfoLog(ctx, "Highest salary found: %d", highest)
	return highest, nil
}

// TopTenEarnerNames returns the names of the ten highest-paid employees,
// sorted by salary descending. Employees with an absent salary are excluded;
// ties keep the upstream list order.
func (s *EmployeeService) TopTenEarnerNames(ctx context.Context) ([]string, error) {
	logger.InfoLog(ctx, "Finding top 10 highest earning employees")

	employees, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	paid := make([]domain.Employee, 0, len(employees))
	for _, e := range employees {
		if e.Salary != nil {
			paid = append(paid, e)
		}
	}

	// stable keeps upstream order for equal salaries
	sort.SliceStable(paid, func(i, j int) bool {
		return *paid[i].Salary > *paid[j].Salary
	})

	if len(paid) > 10 {
		paid = paid[:10]
	}
	names := make([]string, 0, len(paid))
	for _, e := range paid {
		names = append(names, e.Name)
	}

	logger.InfoLog(ctx, "Found %d top earning employees", len(names))
	return names, nil
}

// Create submits a new employee upstream. A response without a payload is a
// service failure, not a not-found: it means the creation was never confirmed.
func (s *EmployeeService) Create(ctx context.Context, req *domain.CreateEmployeeRequest) (domain.Employee, error) {
	if req == nil {
		return domain.Employee{}, fmt.Errorf("employee input cannot be nil: %w", domain.ErrInvalidInput)
	}

	logger.InfoLog(ctx, "Creating new employee: %s", req.Name)

	env, err := s.gateway.Create(ctx, *req)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return domain.Employee{}, err
		}
		logger.ErrorLog(ctx, "Failed to create employee", err)
		return domain.Employee{}, serviceFailure("failed to create employee", err)
	}

	if env.Data == nil {
		return domain.Employee{}, serviceFailure("failed to create employee - no data returned", nil)
	}

	s.cacheDelete(ctx, listCacheKey)
	logger.InfoLog(ctx, "Successfully created employee: %s", env.Data.Name)
	return *env.Data, nil
}

// DeleteByID deletes an employee and returns its name. The mock API deletes
// by name, so the id is resolved via GetByID first; a not-found during
// resolution short-circuits without reaching the delete call. The upstream
// result must be exactly true for the deletion to count as confirmed.
func (s *EmployeeService) DeleteByID(ctx context.Context, id string) (string, error) {
	logger.InfoLog(ctx, "Deleting employee by ID: %s", id)

	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("employee ID cannot be blank: %w", domain.ErrInvalidInput)
	}

	emp, err := s.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.WarnLog(ctx, "Cannot delete employee - not found with ID: %s", id)
		}
		return "", err
	}

	env, err := s.gateway.DeleteByName(ctx, emp.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		logger.ErrorLog(ctx, "Failed to delete employee", err)
		return "", serviceFailure("failed to delete employee", err)
	}

	if env.Data == nil || !*env.Data {
		return "", serviceFailure("failed to delete employee - operation not confirmed", nil)
	}

	s.cacheDelete(ctx, employeeCacheKey(id))
	s.cacheDelete(ctx, listCacheKey)
	logger.InfoLog(ctx, "Successfully deleted employee: %s", emp.Name)
	return emp.Name, nil
}

// ==================== Cache helpers ====================

// Cache failures are never fatal: a broken store degrades to re-fetching.

func (s *EmployeeService) cacheGetList(ctx context.Context) ([]domain.Employee, bool) {
	if s.store == nil {
		return nil, false
	}
	raw, err := s.store.Get(ctx, listCacheKey)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.WarnLog(ctx, "Cache read failed for %s: %v", listCacheKey, err)
		}
		return nil, false
	}
	var employees []domain.Employee
	if err := json.Unmarshal(raw, &employees); err != nil {
		return nil, false
	}
	return employees, true
}

func (s *EmployeeService) cacheSetList(ctx context.Context, employees []domain.Employee) {
	if s.store == nil {
		return
	}
	raw, err := json.Marshal(employees)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, listCacheKey, raw); err != nil {
		logger.WarnLog(ctx, "Cache write failed for %s: %v", listCacheKey, err)
	}
}

func (s *EmployeeService) cacheGetEmployee(ctx context.Context, id string) (domain.Employee, bool) {
	if s.store == nil {
		return domain.Employee{}, false
	}
	raw, err := s.store.Get(ctx, employeeCacheKey(id))
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.WarnLog(ctx, "Cache read failed for %s: %v", employeeCacheKey(id), err)
		}
		return domain.Employee{}, false
	}
	var e domain.Employee
	if err := json.Unmarshal(raw, &e); err != nil {
		return domain.Employee{}, false
	}
	return e, true
}

func (s *EmployeeService) cacheSetEmployee(ctx context.Context, e domain.Employee) {
	if s.store == nil {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, employeeCacheKey(e.ID), raw); err != nil {
		logger.WarnLog(ctx, "Cache write failed for %s: %v", employeeCacheKey(e.ID), err)
	}
}

func (s *EmployeeService) cacheDelete(ctx context.Context, key string) {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		logger.WarnLog(ctx, "Cache invalidation failed for %s: %v", key, err)
	}
}
