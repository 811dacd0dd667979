package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/example/employee-gateway/internal/domain"
	"github.com/example/employee-gateway/internal/service/serviceutils"
)

const exportSheet = "Employees"

// ExportHandler streams the full employee roster as an xlsx attachment.
func (h *EmployeeHandler) ExportHandler(c echo.Context) error {
	ctx := requestCtx(c)

	employees, err := h.svc.List(ctx)
	if err != nil {
		return respondError(c, err)
	}

	data, err := buildRosterWorkbook(employees)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate excel file", err)
	}

	c.Response().Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition", `attachment; filename="employee_roster.xlsx"`)
	c.Response().Header().Set("Content-Length", strconv.Itoa(len(data)))

	_, err = c.Response().Write(data)
	return err
}

func buildRosterWorkbook(employees []domain.Employee) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	headers := []string{"ID", "Name", "Salary", "Age", "Title", "Email"}
	for i, hd := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, hd); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "B", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "E", "F", 28); err != nil {
		return nil, err
	}

	for row, e := range employees {
		values := []interface{}{e.ID, e.Name, nil, nil, e.Title, e.Email}
		if e.Salary != nil {
			values[2] = *e.Salary
		}
		if e.Age != nil {
			values[3] = *e.Age
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
