package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/c3g/chord-project-service/pkg/config"
	"github.com/c3g/chord-project-service/pkg/contract"
	"github.com/c3g/chord-project-service/pkg/events"
	"github.com/c3g/chord-project-service/pkg/normalize"
	"github.com/c3g/chord-project-service/pkg/store"
	"github.com/c3g/chord-project-service/pkg/store/sql"
	"github.com/c3g/chord-project-service/pkg/validation"
)

// ProjectService runs every write through validate, normalize and store, in that
// order, and announces successful writes on the event publisher.
type ProjectService struct {
	config *config.Config
	logger *logrus.Logger
	engine *validation.Engine
	Store  store.ProjectServiceStore
	Events events.Publisher
}

func (p ProjectService) publish(ctx context.Context, event events.Event) {
	if err := p.Events.Publish(ctx, event.Type, event); err != nil {
		p.logger.WithFields(logrus.Fields{
			"event":      event.Type,
			"project_id": event.ProjectID,
		}).WithError(err).Warn("Failed to publish event")
	}
}

func (p ProjectService) ListProjects(ctx context.Context) ([]*contract.Project, *contract.Error) {
	return p.Store.ListProjects(ctx)
}

func (p ProjectService) CreateProject(ctx context.Context, body []byte) (*contract.Project, *contract.Error) {
	input, cErr := p.engine.ValidateProject(body)
	if cErr != nil {
		return nil, cErr
	}

	normalize.Project(input)

	project, cErr := p.Store.CreateProject(ctx, input)
	if cErr != nil {
		return nil, cErr
	}

	p.publish(ctx, events.NewEvent(events.ProjectCreated, project.ID, project))

	return project, nil
}

func (p ProjectService) GetProject(ctx context.Context, id string) (*contract.Project, *contract.Error) {
	return p.Store.GetProject(ctx, id)
}

// UpdateProject is a full replace. An unknown id is reported before the body is
// looked at.
func (p ProjectService) UpdateProject(ctx context.Context, id string, body []byte) *contract.Error {
	if _, cErr := p.Store.GetProject(ctx, id); cErr != nil {
		return cErr
	}

	input, cErr := p.engine.ValidateProject(body)
	if cErr != nil {
		return cErr
	}

	normalize.Project(input)

	project, cErr := p.Store.UpdateProject(ctx, id, input)
	if cErr != nil {
		return cErr
	}

	p.publish(ctx, events.NewEvent(events.ProjectUpdated, project.ID, project))

	return nil
}

func (p ProjectService) DeleteProject(ctx context.Context, id string) *contract.Error {
	if cErr := p.Store.DeleteProject(ctx, id); cErr != nil {
		return cErr
	}

	p.publish(ctx, events.NewEvent(events.ProjectDeleted, id, nil))

	return nil
}

func (p ProjectService) ListDatasets(ctx context.Context, projectID string) ([]*contract.Dataset, *contract.Error) {
	return p.Store.ListDatasets(ctx, projectID)
}

// AddDataset appends a dataset and answers with the project's datasets afterwards.
func (p ProjectService) AddDataset(
	ctx context.Context, projectID string, body []byte,
) ([]*contract.Dataset, *contract.Error) {
	if _, cErr := p.Store.GetProject(ctx, projectID); cErr != nil {
		return nil, cErr
	}

	input, cErr := p.engine.ValidateDataset(body)
	if cErr != nil {
		return nil, cErr
	}

	if err := normalize.Dataset(input); err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInvalidParameterValue,
			fmt.Sprintf("Invalid dataset identifiers: %v", err),
			err,
		)
	}

	if cErr := p.Store.CreateDataset(ctx, projectID, input); cErr != nil {
		return nil, cErr
	}

	datasets, cErr := p.Store.ListDatasets(ctx, projectID)
	if cErr != nil {
		return nil, cErr
	}

	p.publish(ctx, events.NewEvent(events.DatasetAdded, projectID, contract.Dataset{
		DatasetID:  input.DatasetID,
		ServiceID:  input.ServiceID,
		DataTypeID: input.DataTypeID,
		ProjectID:  projectID,
	}))

	return datasets, nil
}

func (p ProjectService) ServiceInfo() contract.ServiceInfo {
	return contract.NewServiceInfo(p.config.Version)
}

func NewProjectService(
	logger *logrus.Logger,
	cfg *config.Config,
	projectStore store.ProjectServiceStore,
	publisher events.Publisher,
) (*ProjectService, error) {
	engine, err := validation.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("could not create validation engine: %w", err)
	}

	return &ProjectService{
		config: cfg,
		logger: logger,
		engine: engine,
		Store:  projectStore,
		Events: publisher,
	}, nil
}

// NewSQLProjectService opens the configured store and builds a service on top of it.
func NewSQLProjectService(
	logger *logrus.Logger, cfg *config.Config, publisher events.Publisher,
) (*ProjectService, *sql.Store, error) {
	sqlStore, err := sql.NewSQLStore(logger, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create new sql store: %w", err)
	}

	service, err := NewProjectService(logger, cfg, sqlStore, publisher)
	if err != nil {
		_ = sqlStore.Close()

		return nil, nil, err
	}

	return service, sqlStore, nil
}
