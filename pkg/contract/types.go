package contract

// Project is a named data-use policy that datasets are grouped under.
type Project struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	DataUse     map[string]any `json:"data_use"`
	Created     string         `json:"created"`
	Updated     string         `json:"updated"`
}

// ProjectInput is the body of a project create or full replace.
type ProjectInput struct {
	Name        string         `json:"name"        validate:"notBlank"`
	Description string         `json:"description"`
	DataUse     map[string]any `json:"data_use"    validate:"required,dataUse"`
}

type Dataset struct {
	DatasetID  string `json:"dataset_id"`
	ServiceID  string `json:"service_id"`
	DataTypeID string `json:"data_type_id"`
	ProjectID  string `json:"project_id"`
}

// DatasetInput is the body of a dataset append. The owning project comes from the path.
type DatasetInput struct {
	DatasetID  string `json:"dataset_id"   validate:"uuidText"`
	ServiceID  string `json:"service_id"   validate:"uuidText"`
	DataTypeID string `json:"data_type_id"`
}

type Organization struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ServiceInfo follows https://github.com/ga4gh-discovery/ga4gh-service-info
type ServiceInfo struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Description  string       `json:"description"`
	Organization Organization `json:"organization"`
	ContactURL   string       `json:"contactUrl"`
	Version      string       `json:"version"`
}

func NewServiceInfo(version string) ServiceInfo {
	return ServiceInfo{
		ID:          "ca.distributedgenomics.chord_project_service",
		Name:        "CHORD Project Service",
		Type:        "urn:chord:project_service",
		Description: "Project service for a CHORD application.",
		Organization: Organization{
			Name: "GenAP",
			URL:  "https://genap.ca/",
		},
		ContactURL: "mailto:david.lougheed@mail.mcgill.ca",
		Version:    version,
	}
}
