package domain

// Service is a category of festival work.
type Service struct {
	ID            string `json:"_id,omitempty"`
	Name          string `json:"name"`
	ReportingTime string `json:"reportingTime,omitempty"`
}

// ServiceCoordinator is the person responsible for a service.
type ServiceCoordinator struct {
	ID                string `json:"_id,omitempty"`
	ServiceName       string `json:"serviceName"`
	CoordinatorName   string `json:"coordinatorName"`
	CoordinatorNumber string `json:"coordinatorNumber"`
}

// Snapshot converts the coordinator into the form stored on a volunteer.
func (c ServiceCoordinator) Snapshot() AssignedService {
	return AssignedService{
		ID:                c.ID,
		ServiceName:       c.ServiceName,
		CoordinatorName:   c.CoordinatorName,
		CoordinatorNumber: c.CoordinatorNumber,
	}
}

// Manager is a registered volunteer manager.
type Manager struct {
	ID          string `json:"_id,omitempty"`
	Username    string `json:"username"`
	Phone       string `json:"phone"`
	ServiceType string `json:"serviceType"`
}
