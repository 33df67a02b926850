package contract

import "context"

// ProjectService is everything the HTTP layer needs. Bodies are handed over raw so the
// service can run its own validation pipeline on them.
type ProjectService interface {
	ListProjects(ctx context.Context) ([]*Project, *Error)
	CreateProject(ctx context.Context, body []byte) (*Project, *Error)
	GetProject(ctx context.Context, id string) (*Project, *Error)
	UpdateProject(ctx context.Context, id string, body []byte) *Error
	DeleteProject(ctx context.Context, id string) *Error

	ListDatasets(ctx context.Context, projectID string) ([]*Dataset, *Error)
	AddDataset(ctx context.Context, projectID string, body []byte) ([]*Dataset, *Error)

	ServiceInfo() ServiceInfo
}
