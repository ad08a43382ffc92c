package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeexport/internal/domain/entity"
)

type sample struct {
	Name string              `json:"name" validate:"required"`
	Kind entity.ArtifactKind `json:"kind" validate:"required,artifact_kind"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&sample{Name: "lab", Kind: entity.ArtifactKindLaboratory}))

	err := v.Validate(&sample{Kind: "SPACESHIP"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name failed required")
	assert.Contains(t, err.Error(), "kind failed artifact_kind")
}
