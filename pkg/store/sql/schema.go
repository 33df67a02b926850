package sql

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/c3g/chord-project-service/pkg/store/sql/model"
)

type migration struct {
	name  string
	apply func(migrator gorm.Migrator) error
}

// Forward migrations for stores created before the current schema. Each one checks
// for its own effect first, so running them again is a no-op.
var migrations = []migration{
	{
		name: "create project_datasets",
		apply: func(migrator gorm.Migrator) error {
			if migrator.HasTable(&model.ProjectDataset{}) {
				return nil
			}

			return migrator.CreateTable(&model.ProjectDataset{})
		},
	},
	{
		// Fails when the store already holds two projects with the same name.
		name: "unique project names",
		apply: func(migrator gorm.Migrator) error {
			if migrator.HasIndex(&model.Project{}, model.IndexNameProjectName) {
				return nil
			}

			return migrator.CreateIndex(&model.Project{}, model.IndexNameProjectName)
		},
	},
}

// EnsureSchema creates the tables when the projects table is absent, and otherwise
// brings an existing store up to date. It must run before the store serves anything.
func EnsureSchema(db *gorm.DB) error {
	if !db.Migrator().HasTable(&model.Project{}) {
		return db.Transaction(func(transaction *gorm.DB) error {
			if err := transaction.Migrator().CreateTable(&model.Project{}, &model.ProjectDataset{}); err != nil {
				return fmt.Errorf("failed to create tables: %w", err)
			}

			return nil
		})
	}

	for _, m := range migrations {
		if err := m.apply(db.Migrator()); err != nil {
			return fmt.Errorf("migration %q failed: %w", m.name, err)
		}
	}

	return nil
}
