package validator

import (
	"errors"
	"testing"

	"favorx_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestValidateSkillCategory(t *testing.T) {
	t.Parallel()
	v := New()

	req := &dto.CreateSkillRequest{
		Category:   "tutoring",
		Title:      "Math lessons",
		EffortTime: 60,
		IsOffering: boolPtr(true),
	}
	assert.NoError(t, v.Validate(req))

	req.Category = "necromancy"
	err := v.Validate(req)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors, "category")
}

func TestValidateOptionalCategoryFilter(t *testing.T) {
	t.Parallel()
	v := New()

	// The nearby-skills filter leaves category optional; empty passes.
	assert.NoError(t, v.Validate(&dto.NearbySkillsCriteria{}))
	assert.NoError(t, v.Validate(&dto.NearbySkillsCriteria{Category: "repair"}))

	err := v.Validate(&dto.NearbySkillsCriteria{Category: "time-travel"})
	require.Error(t, err)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	t.Parallel()
	v := New()

	err := v.Validate(&dto.RegisterRequest{
		Username: "ab",
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors, "username")
	assert.Contains(t, verr.Errors, "email")
	assert.Contains(t, verr.Errors, "password")
	assert.NotContains(t, verr.Errors, "Username")
}

func TestValidateRequiredPointerBool(t *testing.T) {
	t.Parallel()
	v := New()

	// is_offering must be present explicitly; false is a legitimate value.
	req := &dto.CreateSkillRequest{
		Category:   "repair",
		Title:      "Bike fixing",
		EffortTime: 30,
	}
	err := v.Validate(req)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors, "is_offering")

	req.IsOffering = boolPtr(false)
	assert.NoError(t, v.Validate(req))
}
