package service //nolint:testpackage

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c3g/chord-project-service/pkg/config"
	"github.com/c3g/chord-project-service/pkg/contract"
	"github.com/c3g/chord-project-service/pkg/events"
)

const validDataUse = `{
	"consent_code": {"primary_category": {"code": "GRU"}, "secondary_categories": []},
	"data_use_requirements": [{"code": "COL"}]
}`

// FakeStore keeps projects in memory and counts writes.
type FakeStore struct {
	projects map[string]*contract.Project
	datasets map[string][]*contract.Dataset
	writes   int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		projects: map[string]*contract.Project{},
		datasets: map[string][]*contract.Dataset{},
	}
}

func notFound(id string) *contract.Error {
	return contract.NewError(contract.ErrorCodeResourceDoesNotExist, "No Project with id="+id+" exists")
}

func (f *FakeStore) ListProjects(_ context.Context) ([]*contract.Project, *contract.Error) {
	projects := make([]*contract.Project, 0, len(f.projects))
	for _, project := range f.projects {
		projects = append(projects, project)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })

	return projects, nil
}

func (f *FakeStore) nameTaken(name, except string) bool {
	for id, project := range f.projects {
		if project.Name == name && id != except {
			return true
		}
	}

	return false
}

func (f *FakeStore) CreateProject(
	_ context.Context, input *contract.ProjectInput,
) (*contract.Project, *contract.Error) {
	if f.nameTaken(input.Name, "") {
		return nil, contract.NewError(contract.ErrorCodeResourceAlreadyExists, "exists")
	}

	f.writes++
	project := &contract.Project{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		DataUse:     input.DataUse,
	}
	f.projects[project.ID] = project

	return project, nil
}

func (f *FakeStore) GetProject(_ context.Context, id string) (*contract.Project, *contract.Error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, notFound(id)
	}

	return project, nil
}

func (f *FakeStore) UpdateProject(
	_ context.Context, id string, input *contract.ProjectInput,
) (*contract.Project, *contract.Error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, notFound(id)
	}

	if f.nameTaken(input.Name, id) {
		return nil, contract.NewError(contract.ErrorCodeResourceAlreadyExists, "exists")
	}

	f.writes++
	project.Name = input.Name
	project.Description = input.Description
	project.DataUse = input.DataUse

	return project, nil
}

func (f *FakeStore) DeleteProject(_ context.Context, id string) *contract.Error {
	if _, ok := f.projects[id]; !ok {
		return notFound(id)
	}

	f.writes++
	delete(f.projects, id)
	delete(f.datasets, id)

	return nil
}

func (f *FakeStore) ListDatasets(_ context.Context, projectID string) ([]*contract.Dataset, *contract.Error) {
	if _, ok := f.projects[projectID]; !ok {
		return nil, notFound(projectID)
	}

	return append([]*contract.Dataset{}, f.datasets[projectID]...), nil
}

func (f *FakeStore) CreateDataset(
	_ context.Context, projectID string, input *contract.DatasetInput,
) *contract.Error {
	if _, ok := f.projects[projectID]; !ok {
		return notFound(projectID)
	}

	f.writes++
	f.datasets[projectID] = append(f.datasets[projectID], &contract.Dataset{
		DatasetID:  input.DatasetID,
		ServiceID:  input.ServiceID,
		DataTypeID: input.DataTypeID,
		ProjectID:  projectID,
	})

	return nil
}

type recordingPublisher struct {
	keys []string
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	r.keys = append(r.keys, routingKey)

	return r.err
}

func (r *recordingPublisher) Close() error {
	return nil
}

func newTestService(t *testing.T) (*ProjectService, *FakeStore, *recordingPublisher) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	fakeStore := NewFakeStore()
	publisher := &recordingPublisher{}

	service, err := NewProjectService(logger, &config.Config{Version: "1.2.3"}, fakeStore, publisher)
	require.NoError(t, err)

	return service, fakeStore, publisher
}

func projectBody(name string) []byte {
	return []byte(`{"name": "` + name + `", "description": " trimmed ", "data_use": ` + validDataUse + `}`)
}

func TestCreateProjectNormalizes(t *testing.T) {
	t.Parallel()

	service, _, publisher := newTestService(t)

	project, cErr := service.CreateProject(context.Background(), projectBody("  Study  "))
	require.Nil(t, cErr)
	assert.Equal(t, "Study", project.Name)
	assert.Equal(t, "trimmed", project.Description)
	assert.Equal(t, []string{events.ProjectCreated}, publisher.keys)
}

func TestCreateProjectDuplicateAfterTrim(t *testing.T) {
	t.Parallel()

	service, fakeStore, publisher := newTestService(t)
	ctx := context.Background()

	_, cErr := service.CreateProject(ctx, projectBody("Study"))
	require.Nil(t, cErr)

	_, cErr = service.CreateProject(ctx, projectBody("  Study  "))
	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeResourceAlreadyExists, cErr.Code)
	assert.Equal(t, 1, fakeStore.writes)
	assert.Len(t, publisher.keys, 1)
}

func TestCreateProjectInvalidBodyNeverReachesStore(t *testing.T) {
	t.Parallel()

	scenarios := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "blank name", body: `{"name": "   ", "description": "", "data_use": ` + validDataUse + `}`},
		{name: "missing data_use", body: `{"name": "Study", "description": ""}`},
		{name: "bad consent code", body: `{"name": "Study", "description": "", "data_use": {}}`},
	}

	for _, scenario := range scenarios {
		scenario := scenario

		t.Run(scenario.name, func(t *testing.T) {
			t.Parallel()

			service, fakeStore, publisher := newTestService(t)

			_, cErr := service.CreateProject(context.Background(), []byte(scenario.body))
			require.NotNil(t, cErr)
			assert.Equal(t, 0, fakeStore.writes)
			assert.Empty(t, publisher.keys)
		})
	}
}

func TestUpdateProject(t *testing.T) {
	t.Parallel()

	service, fakeStore, publisher := newTestService(t)
	ctx := context.Background()

	project, cErr := service.CreateProject(ctx, projectBody("Study"))
	require.Nil(t, cErr)

	require.Nil(t, service.UpdateProject(ctx, project.ID, projectBody(" Renamed ")))
	assert.Equal(t, "Renamed", fakeStore.projects[project.ID].Name)
	assert.Equal(t, []string{events.ProjectCreated, events.ProjectUpdated}, publisher.keys)
}

func TestUpdateMissingProjectIsNotFoundEvenWithBadBody(t *testing.T) {
	t.Parallel()

	service, fakeStore, _ := newTestService(t)

	cErr := service.UpdateProject(context.Background(), uuid.NewString(), []byte(`{}`))
	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeResourceDoesNotExist, cErr.Code)
	assert.Equal(t, 0, fakeStore.writes)
}

func TestDeleteProject(t *testing.T) {
	t.Parallel()

	service, _, publisher := newTestService(t)
	ctx := context.Background()

	project, cErr := service.CreateProject(ctx, projectBody("Study"))
	require.Nil(t, cErr)

	require.Nil(t, service.DeleteProject(ctx, project.ID))
	assert.Equal(t, []string{events.ProjectCreated, events.ProjectDeleted}, publisher.keys)

	cErr = service.DeleteProject(ctx, project.ID)
	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeResourceDoesNotExist, cErr.Code)
}

func TestAddDataset(t *testing.T) {
	t.Parallel()

	service, _, publisher := newTestService(t)
	ctx := context.Background()

	project, cErr := service.CreateProject(ctx, projectBody("Study"))
	require.Nil(t, cErr)

	datasets, cErr := service.AddDataset(ctx, project.ID, []byte(`{
		"dataset_id": "0B7E2A1C-2F4E-4C1A-9A53-1E8A3F0C2D11",
		"service_id": "{9d3c1b5e-7a2f-4e6d-8b1c-0f2e3d4c5b6a}",
		"data_type_id": " variant "
	}`))
	require.Nil(t, cErr)
	require.Len(t, datasets, 1)
	assert.Equal(t, &contract.Dataset{
		DatasetID:  "0b7e2a1c-2f4e-4c1a-9a53-1e8a3f0c2d11",
		ServiceID:  "9d3c1b5e-7a2f-4e6d-8b1c-0f2e3d4c5b6a",
		DataTypeID: "variant",
		ProjectID:  project.ID,
	}, datasets[0])
	assert.Equal(t, []string{events.ProjectCreated, events.DatasetAdded}, publisher.keys)
}

func TestAddDatasetToMissingProject(t *testing.T) {
	t.Parallel()

	service, fakeStore, _ := newTestService(t)

	_, cErr := service.AddDataset(context.Background(), uuid.NewString(), []byte(`{
		"dataset_id": "0b7e2a1c-2f4e-4c1a-9a53-1e8a3f0c2d11",
		"service_id": "9d3c1b5e-7a2f-4e6d-8b1c-0f2e3d4c5b6a",
		"data_type_id": "variant"
	}`))
	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeResourceDoesNotExist, cErr.Code)
	assert.Equal(t, 0, fakeStore.writes)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	service, fakeStore, publisher := newTestService(t)
	publisher.err = errors.New("broker down")

	project, cErr := service.CreateProject(context.Background(), projectBody("Study"))
	require.Nil(t, cErr)
	assert.Contains(t, fakeStore.projects, project.ID)
}

func TestServiceInfoVersion(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)

	info := service.ServiceInfo()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "urn:chord:project_service", info.Type)
}
