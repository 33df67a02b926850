package model

import (
	"time"

	"gorm.io/datatypes"

	"github.com/c3g/chord-project-service/pkg/contract"
)

const (
	TableNameProject     = "projects"
	IndexNameProjectName = "idx_projects_name"
)

// Project mapped from table <projects>.
// data_use is stored as serialized JSON text and never leaves this package in that form.
type Project struct {
	ID          string            `db:"id"          gorm:"column:id;primaryKey;size:36"`
	Name        CaseSensitiveText `db:"name"        gorm:"column:name;not null;size:255;uniqueIndex:idx_projects_name"`
	Description string            `db:"description" gorm:"column:description;not null"`
	DataUse     datatypes.JSONMap `db:"data_use"    gorm:"column:data_use;not null"`
	Created     string            `db:"created"     gorm:"column:created;not null;size:40"`
	Updated     string            `db:"updated"     gorm:"column:updated;not null;size:40"`
}

func (Project) TableName() string {
	return TableNameProject
}

func (p Project) ToContract() *contract.Project {
	dataUse := map[string]any(p.DataUse)
	if dataUse == nil {
		dataUse = map[string]any{}
	}

	return &contract.Project{
		ID:          p.ID,
		Name:        string(p.Name),
		Description: p.Description,
		DataUse:     dataUse,
		Created:     p.Created,
		Updated:     p.Updated,
	}
}

func NewProjectFromInput(id string, input *contract.ProjectInput, now time.Time) Project {
	timestamp := FormatTimestamp(now)

	return Project{
		ID:          id,
		Name:        CaseSensitiveText(input.Name),
		Description: input.Description,
		DataUse:     datatypes.JSONMap(input.DataUse),
		Created:     timestamp,
		Updated:     timestamp,
	}
}

// TimestampLayout is ISO-8601 in UTC with a fixed number of fractional digits, so
// stored timestamps sort the same as text and as instants.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
