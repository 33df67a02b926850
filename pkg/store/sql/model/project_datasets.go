package model

import "github.com/c3g/chord-project-service/pkg/contract"

const TableNameProjectDataset = "project_datasets"

// ProjectDataset mapped from table <project_datasets>. The whole row is the key.
type ProjectDataset struct {
	DatasetID  string   `db:"dataset_id"   gorm:"column:dataset_id;primaryKey;size:36"`
	ServiceID  string   `db:"service_id"   gorm:"column:service_id;primaryKey;size:36"`
	DataTypeID string   `db:"data_type_id" gorm:"column:data_type_id;primaryKey;size:255"`
	ProjectID  string   `db:"project_id"   gorm:"column:project_id;primaryKey;size:36;index"`
	Project    *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ProjectDataset) TableName() string {
	return TableNameProjectDataset
}

func (d ProjectDataset) ToContract() *contract.Dataset {
	return &contract.Dataset{
		DatasetID:  d.DatasetID,
		ServiceID:  d.ServiceID,
		DataTypeID: d.DataTypeID,
		ProjectID:  d.ProjectID,
	}
}

func NewProjectDatasetFromInput(projectID string, input *contract.DatasetInput) ProjectDataset {
	return ProjectDataset{
		DatasetID:  input.DatasetID,
		ServiceID:  input.ServiceID,
		DataTypeID: input.DataTypeID,
		ProjectID:  projectID,
	}
}
