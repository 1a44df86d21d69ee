package domain

// Department is the organizational unit a request is reported for.
type Department struct {
	ID   string
	Name string
}

// ServiceType classifies the kind of support a ticket needs.
type ServiceType struct {
	ID   string
	Name string
}

// StaffOption is the compact staff projection used by assignment pickers.
type StaffOption struct {
	ID       string
	FullName string
}
