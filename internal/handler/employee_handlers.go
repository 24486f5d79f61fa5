package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
	"github.com/suhelali14/SafarWay-sub004/internal/store"
)

// pathID reads the {id} route variable.
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, store.ErrNotFound
	}
	return id, nil
}

type employeesPage struct {
	models.PageData
	Employees []models.Employee
	CanManage bool
}

// EmployeesHandler - staff list
func (h *Handler) EmployeesHandler(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		redirectToLogin(w, r)
		return
	}
	employees, ok := fetchData(h, w, r, func(ctx context.Context) ([]models.Employee, error) {
		return h.Store.ListEmployees(ctx, u.AgencyID)
	})
	if !ok {
		return
	}
	h.renderOK(w, employeesPage{
		PageData:  h.page(r, "Employees", "employees"),
		Employees: employees,
		CanManage: u.Role.CanManage(),
	})
}

type employeeForm struct {
	models.PageData
	Employee models.Employee
	IsNew    bool
	Roles    []domain.Role
}

var staffRoles = []domain.Role{domain.RoleAgencyUser, domain.RoleAgencyAdmin}

func employeeFromForm(r *http.Request, agencyID int) models.Employee {
	role, _ := domain.ParseRole(r.FormValue("role"))
	return models.Employee{
		AgencyID: agencyID,
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
		Role:     role,
		Status:   strings.ToLower(r.FormValue("status")),
	}
}

// NewEmployeeHandler - add a staff member
func (h *Handler) NewEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireManager(w, r)
	if !ok {
		return
	}
	data := employeeForm{
		PageData: h.page(r, "Add employee", "employee_form"),
		Employee: models.Employee{Role: domain.RoleAgencyUser, Status: models.EmployeeActive},
		IsNew:    true,
		Roles:    staffRoles,
	}

	if r.Method == http.MethodPost {
		data.Employee = employeeFromForm(r, u.AgencyID)
		created, msg, done := mutate(w, r, func(ctx context.Context) (models.Employee, error) {
			return h.Store.CreateEmployee(ctx, data.Employee)
		}, mutateOptions{Redirect: "/dashboard/employees", Success: "Employee added."})
		if done {
			log.Info().Int("agency_id", u.AgencyID).Int("employee_id", created.ID).Msg("employee created")
			return
		}
		data.Error = msg
		h.render(w, http.StatusBadRequest, data)
		return
	}

	h.renderOK(w, data)
}

// EditEmployeeHandler - update a staff member
func (h *Handler) EditEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireManager(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	employee, ok := fetchData(h, w, r, func(ctx context.Context) (models.Employee, error) {
		return h.Store.GetEmployee(ctx, u.AgencyID, id)
	})
	if !ok {
		return
	}

	data := employeeForm{
		PageData: h.page(r, "Edit employee: "+employee.Name, "employee_form"),
		Employee: employee,
		Roles:    staffRoles,
	}

	if r.Method == http.MethodPost {
		data.Employee = employeeFromForm(r, u.AgencyID)
		data.Employee.ID = id
		_, msg, done := mutate(w, r, func(ctx context.Context) (models.Employee, error) {
			return h.Store.UpdateEmployee(ctx, data.Employee)
		}, mutateOptions{Redirect: "/dashboard/employees", Success: "Employee updated."})
		if done {
			return
		}
		data.Error = msg
		h.render(w, http.StatusBadRequest, data)
		return
	}

	h.renderOK(w, data)
}

type confirmDeletePage struct {
	models.PageData
	Name   string
	Action string
	Cancel string
}

// DeleteEmployeeHandler - GET shows the confirmation page, POST deletes
func (h *Handler) DeleteEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireManager(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	employee, ok := fetchData(h, w, r, func(ctx context.Context) (models.Employee, error) {
		return h.Store.GetEmployee(ctx, u.AgencyID, id)
	})
	if !ok {
		return
	}

	if r.Method == http.MethodPost {
		_, msg, done := mutate(w, r, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, h.Store.DeleteEmployee(ctx, u.AgencyID, id)
		}, mutateOptions{Redirect: "/dashboard/employees", Success: "Employee removed."})
		if done {
			return
		}
		redirectWith(w, r, "/dashboard/employees", "error", msg)
		return
	}

	h.renderOK(w, confirmDeletePage{
		PageData: h.page(r, "Remove employee", "confirm_delete"),
		Name:     employee.Name,
		Action:   "/dashboard/employees/" + strconv.Itoa(id) + "/delete",
		Cancel:   "/dashboard/employees",
	})
}
