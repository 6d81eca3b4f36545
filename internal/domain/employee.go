package domain

import "time"

// Department enumerates the departments an employee can belong to.
type Department string

const (
	DepartmentSoftware Department = "Software"
	DepartmentCyber    Department = "Cyber"
	DepartmentHR       Department = "HR"
	DepartmentFinance  Department = "Finance"
)

// ValidDepartment reports whether d is one of the known departments.
func ValidDepartment(d Department) bool {
	switch d {
	case DepartmentSoftware, DepartmentCyber, DepartmentHR, DepartmentFinance:
		return true
	}
	return false
}

// Employee is a member of the organization targeted by training campaigns.
// EmployeeID is the externally assigned staff number; ID is the row key.
type Employee struct {
	ID           string     `json:"id" db:"id"`
	EmployeeID   string     `json:"employeeID" db:"employee_id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	NIC          string     `json:"nic" db:"nic"`
	Address      string     `json:"address" db:"address"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Department   Department `json:"department" db:"department"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
