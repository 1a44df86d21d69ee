package dto

import "github.com/miayudatic/helpdesk/internal/domain"

// DepartmentResponse represents a department option.
type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ServiceTypeResponse represents a service type option.
type ServiceTypeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StaffOptionResponse represents an assignable staff member.
type StaffOptionResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

// NewDepartmentList maps departments.
func NewDepartmentList(departments []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, DepartmentResponse{ID: d.ID, Name: d.Name})
	}
	return out
}

// NewServiceTypeList maps service types.
func NewServiceTypeList(types []domain.ServiceType) []ServiceTypeResponse {
	out := make([]ServiceTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, ServiceTypeResponse{ID: t.ID, Name: t.Name})
	}
	return out
}

// NewStaffOptionList maps assignable staff options.
func NewStaffOptionList(options []domain.StaffOption) []StaffOptionResponse {
	out := make([]StaffOptionResponse, 0, len(options))
	for _, o := range options {
		out = append(out, StaffOptionResponse{ID: o.ID, FullName: o.FullName})
	}
	return out
}
