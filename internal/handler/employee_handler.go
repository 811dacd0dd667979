package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/example/employee-gateway/internal/domain"
	"github.com/example/employee-gateway/internal/logger"
	"github.com/example/employee-gateway/internal/service"
	"github.com/example/employee-gateway/internal/service/serviceutils"
)

type EmployeeHandler struct {
	svc *service.EmployeeService
}

func NewEmployeeHandler(svc *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// respondError maps the service error kinds onto HTTP statuses. The handlers
// never build error kinds themselves; anything unrecognized is a 500.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, domain.ErrNotFound):
		return serviceutils.ResponseError(c, http.StatusNotFound, "Employee not found", err)
	case errors.Is(err, domain.ErrUnavailable):
		return serviceutils.ResponseError(c, http.StatusServiceUnavailable, "Employee service unavailable", err)
	default:
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Unexpected error", err)
	}
}

// requestCtx attaches the request method and route to the context logger.
func requestCtx(c echo.Context) context.Context {
	return logger.WithLogger(c.Request().Context(), map[string]interface{}{
		"method": c.Request().Method,
		"path":   c.Path(),
	})
}

func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	ctx := requestCtx(c)

	employees, err := h.svc.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) SearchHandler(c echo.Context) error {
	ctx := requestCtx(c)

	employees, err := h.svc.SearchByName(ctx, c.Param("fragment"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) GetHandler(c echo.Context) error {
	ctx := requestCtx(c)

	emp, err := h.svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, emp)
}

func (h *EmployeeHandler) HighestSalaryHandler(c echo.Context) error {
	ctx := requestCtx(c)

	salary, err := h.svc.HighestSalary(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, salary)
}

func (h *EmployeeHandler) TopTenEarnersHandler(c echo.Context) error {
	ctx := requestCtx(c)

	names, err := h.svc.TopTenEarnerNames(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, names)
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	ctx := requestCtx(c)

	var req domain.CreateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		logger.WarnLog(ctx, "Create request failed validation: %v", err)
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	emp, err := h.svc.Create(ctx, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, emp)
}

func (h *EmployeeHandler) DeleteHandler(c echo.Context) error {
	ctx := requestCtx(c)

	name, err := h.svc.DeleteByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	// the deleted employee's name, as plain text
	return c.String(http.StatusOK, name)
}
