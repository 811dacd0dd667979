package domain

import "strings"

// Employee represents an employee record as returned by the mock employee API.
// The wire names are fixed by the upstream service and intentionally do not
// match Go naming. Salary and age are pointers because the upstream may omit
// them; an absent salary is excluded from every aggregation.
type Employee struct {
	ID     string `json:"id"`
	Name   string `json:"employee_name"`
	Salary *int   `json:"employee_salary"`
	Age    *int   `json:"employee_age"`
	Title  string `json:"employee_title"`
	Email  string `json:"employee_email"`
}

// NameContains reports whether the employee name contains the given fragment,
// case-insensitively. An employee without a name never matches.
func (e Employee) NameContains(fragment string) bool {
	if fragment == "" || e.Name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(e.Name), strings.ToLower(fragment))
}

// CreateEmployeeRequest is the payload accepted by POST /employee and
// forwarded verbatim to the upstream service.
type CreateEmployeeRequest struct {
	Name   string `json:"name" validate:"required,notblank"`
	Salary int    `json:"salary" validate:"required,min=1"`
	Age    int    `json:"age" validate:"required,min=16,max=75"`
	Title  string `json:"title" validate:"required,notblank"`
}

// DeleteEmployeeRequest is the upstream deletion payload. The mock API deletes
// by name, not by id, so callers must resolve the id first.
type DeleteEmployeeRequest struct {
	Name string `json:"name"`
}

// Envelope is the generic response wrapper used by the mock employee API.
type Envelope[T any] struct {
	Data   *T     `json:"data"`
	Status string `json:"status"`
}

// Successful reports whether the envelope carries a usable payload. The mock
// API is unreliable on both signals in isolation, so a response only counts as
// successful when the payload is present and the status carries the success
// marker.
func (e Envelope[T]) Successful() bool {
	return e.Data != nil && strings.Contains(e.Status, "Success")
}
