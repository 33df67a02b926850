// Package normalize canonicalizes payloads that already passed validation, before
// they are persisted. Every function here is idempotent.
package normalize

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/c3g/chord-project-service/pkg/contract"
)

func Project(input *contract.ProjectInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
}

// Dataset rewrites both identifiers to the lowercase hyphenated UUID form, whatever
// textual form they arrived in.
func Dataset(input *contract.DatasetInput) error {
	datasetID, err := CanonicalUUID(input.DatasetID)
	if err != nil {
		return fmt.Errorf("invalid dataset_id: %w", err)
	}

	serviceID, err := CanonicalUUID(input.ServiceID)
	if err != nil {
		return fmt.Errorf("invalid service_id: %w", err)
	}

	input.DatasetID = datasetID
	input.ServiceID = serviceID
	input.DataTypeID = strings.TrimSpace(input.DataTypeID)

	return nil
}

func CanonicalUUID(value string) (string, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}
