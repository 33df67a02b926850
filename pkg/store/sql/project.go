package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/c3g/chord-project-service/pkg/contract"
	"github.com/c3g/chord-project-service/pkg/store/sql/model"
)

func getProject(transaction *gorm.DB, id string) (*contract.Project, *contract.Error) {
	var project model.Project
	if err := transaction.Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.NewError(
				contract.ErrorCodeResourceDoesNotExist,
				fmt.Sprintf("No Project with id=%s exists", id),
			)
		}

		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			fmt.Sprintf("failed to get project %q", id),
			err,
		)
	}

	return project.ToContract(), nil
}

func (s Store) ListProjects(ctx context.Context) ([]*contract.Project, *contract.Error) {
	var projects []model.Project
	if err := s.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "name"}}).
		Find(&projects).Error; err != nil {
		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to list projects", err)
	}

	result := make([]*contract.Project, 0, len(projects))
	for _, project := range projects {
		result = append(result, project.ToContract())
	}

	return result, nil
}

// CreateProject relies on the unique index on projects.name rather than a prior
// lookup, so two concurrent creators with the same name cannot both succeed.
func (s Store) CreateProject(ctx context.Context, input *contract.ProjectInput) (*contract.Project, *contract.Error) {
	project := model.NewProjectFromInput(uuid.NewString(), input, time.Now())

	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, contract.NewError(
				contract.ErrorCodeResourceAlreadyExists,
				fmt.Sprintf("Project(name=%s) already exists.", input.Name),
			)
		}

		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to create project", err)
	}

	created, cErr := getProject(s.db.WithContext(ctx), project.ID)
	if cErr != nil {
		if cErr.Code == contract.ErrorCodeResourceDoesNotExist {
			return nil, contract.NewError(
				contract.ErrorCodeInternalError,
				fmt.Sprintf("project %s could not be read back after insert", project.ID),
			)
		}

		return nil, cErr
	}

	return created, nil
}

func (s Store) GetProject(ctx context.Context, id string) (*contract.Project, *contract.Error) {
	return getProject(s.db.WithContext(ctx), id)
}

func (s Store) UpdateProject(
	ctx context.Context, id string, input *contract.ProjectInput,
) (*contract.Project, *contract.Error) {
	// A map, not a struct: gorm skips zero values in struct updates and an empty
	// description is a legitimate replacement.
	result := s.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        input.Name,
			"description": input.Description,
			"data_use":    datatypes.JSONMap(input.DataUse),
			"updated":     model.FormatTimestamp(time.Now()),
		})

	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return nil, contract.NewError(
				contract.ErrorCodeResourceAlreadyExists,
				fmt.Sprintf("Project(name=%s) already exists.", input.Name),
			)
		}

		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			fmt.Sprintf("failed to update project %q", id),
			result.Error,
		)
	}

	if result.RowsAffected == 0 {
		return nil, contract.NewError(
			contract.ErrorCodeResourceDoesNotExist,
			fmt.Sprintf("No Project with id=%s exists", id),
		)
	}

	return getProject(s.db.WithContext(ctx), id)
}

// DeleteProject removes the project's datasets in the same transaction, so no
// dataset is left pointing at a deleted project.
func (s Store) DeleteProject(ctx context.Context, id string) *contract.Error {
	if err := s.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		if err := transaction.
			Where("project_id = ?", id).
			Delete(&model.ProjectDataset{}).Error; err != nil {
			return fmt.Errorf("failed to delete datasets of project %q: %w", id, err)
		}

		result := transaction.Where("id = ?", id).Delete(&model.Project{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete project %q: %w", id, result.Error)
		}

		if result.RowsAffected != 1 {
			return gorm.ErrRecordNotFound
		}

		return nil
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contract.NewError(
				contract.ErrorCodeResourceDoesNotExist,
				fmt.Sprintf("No Project with id=%s exists", id),
			)
		}

		return contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to delete project", err)
	}

	return nil
}
