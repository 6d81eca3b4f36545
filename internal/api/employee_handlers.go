package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/guardians/awareness-portal/internal/domain"
)

// employeeRequest is the write shape for employees. The password arrives in
// cleartext over TLS and is stored only as a bcrypt hash.
type employeeRequest struct {
	EmployeeID string            `json:"employeeID"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	NIC        string            `json:"nic"`
	Address    string            `json:"address"`
	Password   string            `json:"password"`
	Department domain.Department `json:"department"`
}

func (req employeeRequest) validate(passwordRequired bool) error {
	switch {
	case req.EmployeeID == "":
		return fmt.Errorf("employeeID is required")
	case req.Name == "":
		return fmt.Errorf("name is required")
	case req.Email == "":
		return fmt.Errorf("email is required")
	case req.NIC == "":
		return fmt.Errorf("nic is required")
	case req.Address == "":
		return fmt.Errorf("address is required")
	case passwordRequired && req.Password == "":
		return fmt.Errorf("password is required")
	case !domain.ValidDepartment(req.Department):
		return fmt.Errorf("department must be one of Software, Cyber, HR, Finance")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CreateEmployee handles POST /api/employees.
func (h *Handlers) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.validate(true); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		respondSafeError(w, http.StatusInternalServerError, err, "An internal error occurred")
		return
	}

	e := &domain.Employee{
		EmployeeID:   req.EmployeeID,
		Name:         req.Name,
		Email:        req.Email,
		NIC:          req.NIC,
		Address:      req.Address,
		PasswordHash: hash,
		Department:   req.Department,
	}
	if _, err := h.employees.Create(r.Context(), e); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, e)
}

// ListEmployees handles GET /api/employees.
func (h *Handlers) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.List(r.Context())
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	respondJSON(w, http.StatusOK, employees)
}

// GetEmployee handles GET /api/employees/{id}.
func (h *Handlers) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.employees.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, e)
}

// UpdateEmployee handles PUT /api/employees/{id}. An empty password keeps
// the stored hash.
func (h *Handlers) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.validate(false); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	e := &domain.Employee{
		ID:         chi.URLParam(r, "id"),
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Email:      req.Email,
		NIC:        req.NIC,
		Address:    req.Address,
		Department: req.Department,
	}
	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			respondSafeError(w, http.StatusInternalServerError, err, "An internal error occurred")
			return
		}
		e.PasswordHash = hash
	}

	if err := h.employees.Update(r.Context(), e); err != nil {
		respondRepoError(w, err)
		return
	}
	updated, err := h.employees.ByID(r.Context(), e.ID)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteEmployee handles DELETE /api/employees/{id}. Simulation events for
// the employee remain; matching is by email value, not reference.
func (h *Handlers) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.employees.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"msg": "Employee deleted"})
}

// CountEmployees handles GET /api/employees/count/all.
func (h *Handlers) CountEmployees(w http.ResponseWriter, r *http.Request) {
	n, err := h.employees.Count(r.Context())
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": n})
}
