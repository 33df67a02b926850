package store

import (
	"context"

	"github.com/c3g/chord-project-service/pkg/contract"
)

type ProjectStore interface {
	// All projects ordered by name.
	ListProjects(ctx context.Context) ([]*contract.Project, *contract.Error)

	// Insert a normalized project. A name already in use is RESOURCE_ALREADY_EXISTS.
	CreateProject(ctx context.Context, input *contract.ProjectInput) (*contract.Project, *contract.Error)

	GetProject(ctx context.Context, id string) (*contract.Project, *contract.Error)

	// Full replace of name, description and data_use.
	UpdateProject(ctx context.Context, id string, input *contract.ProjectInput) (*contract.Project, *contract.Error)

	// Removes the project together with its datasets.
	DeleteProject(ctx context.Context, id string) *contract.Error
}

type DatasetStore interface {
	// Datasets of a project ordered by dataset_id.
	ListDatasets(ctx context.Context, projectID string) ([]*contract.Dataset, *contract.Error)

	CreateDataset(ctx context.Context, projectID string, input *contract.DatasetInput) *contract.Error
}

type ProjectServiceStore interface {
	ProjectStore
	DatasetStore
}
