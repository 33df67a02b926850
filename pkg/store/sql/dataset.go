package sql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/c3g/chord-project-service/pkg/contract"
	"github.com/c3g/chord-project-service/pkg/store/sql/model"
)

func checkProjectExists(transaction *gorm.DB, projectID string) error {
	var count int64
	if err := transaction.
		Model(&model.Project{}).
		Where("id = ?", projectID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up project %q: %w", projectID, err)
	}

	if count == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func datasetError(projectID, action string, err error) *contract.Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return contract.NewError(
			contract.ErrorCodeResourceDoesNotExist,
			fmt.Sprintf("No Project with id=%s exists", projectID),
		)
	}

	return contract.NewErrorWith(contract.ErrorCodeInternalError, action, err)
}

func (s Store) ListDatasets(ctx context.Context, projectID string) ([]*contract.Dataset, *contract.Error) {
	var datasets []model.ProjectDataset

	if err := s.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		if err := checkProjectExists(transaction, projectID); err != nil {
			return err
		}

		return transaction.
			Where("project_id = ?", projectID).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "dataset_id"}}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "service_id"}}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "data_type_id"}}).
			Find(&datasets).Error
	}); err != nil {
		return nil, datasetError(projectID, "failed to list datasets", err)
	}

	result := make([]*contract.Dataset, 0, len(datasets))
	for _, dataset := range datasets {
		result = append(result, dataset.ToContract())
	}

	return result, nil
}

// CreateDataset appends a normalized dataset to an existing project. Posting the
// same dataset twice leaves a single row.
func (s Store) CreateDataset(ctx context.Context, projectID string, input *contract.DatasetInput) *contract.Error {
	dataset := model.NewProjectDatasetFromInput(projectID, input)

	if err := s.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		if err := checkProjectExists(transaction, projectID); err != nil {
			return err
		}

		return transaction.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&dataset).Error
	}); err != nil {
		return datasetError(projectID, "failed to create dataset", err)
	}

	return nil
}
