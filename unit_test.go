package turbinesim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()
	units := registry.Units()

	assert.Len(t, units, 6)
	for i, u := range units {
		assert.Equal(t, i+1, u.ID)
	}

	degraded, err := registry.UnitByID(4)
	assert.NoError(t, err)
	assert.Equal(t, StatusWarning, degraded.Status)
	assert.Equal(t, ProfileWarning, degraded.Profile)

	faulted, err := registry.UnitByID(6)
	assert.NoError(t, err)
	assert.Equal(t, StatusCritical, faulted.Status)
	assert.Equal(t, ProfileCritical, faulted.Profile)
}

func TestUnitByIDUnknown(t *testing.T) {
	registry := DefaultRegistry()

	_, err := registry.UnitByID(99)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownUnit))
}

func TestNewRegistryValidation(t *testing.T) {
	_, err := NewRegistry(nil)
	assert.Error(t, err)

	_, err = NewRegistry([]Unit{{ID: 0, Name: "WTG-00"}})
	assert.Error(t, err)

	_, err = NewRegistry([]Unit{
		{ID: 1, Name: "WTG-01"},
		{ID: 1, Name: "WTG-01-dup"},
	})
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	for _, name := range []string{"normal", "warning", "critical"} {
		status, err := ParseStatus(name)
		assert.NoError(t, err)
		assert.Equal(t, Status(name), status)
	}

	_, err := ParseStatus("on-fire")
	assert.Error(t, err)
}

func TestParseBehaviorProfile(t *testing.T) {
	testcases := []struct {
		name    string
		profile BehaviorProfile
	}{
		{"nominal", ProfileNominal},
		{"warning", ProfileWarning},
		{"critical", ProfileCritical},
	}
	for _, tc := range testcases {
		profile, err := ParseBehaviorProfile(tc.name)
		assert.NoError(t, err)
		assert.Equal(t, tc.profile, profile)
		assert.Equal(t, tc.name, profile.String())
	}

	_, err := ParseBehaviorProfile("haunted")
	assert.Error(t, err)
}

func TestUnitUnmarshalYAML(t *testing.T) {
	yamlStr := `
- id: 1
  name: WTG-01
  current_yield: 96.5
  status: normal
  profile: nominal
- id: 2
  name: WTG-02
  current_yield: 40.1
  status: critical
  profile: critical
`
	var units []Unit
	err := yaml.Unmarshal([]byte(yamlStr), &units)
	assert.NoError(t, err)
	assert.Len(t, units, 2)
	assert.Equal(t, ProfileNominal, units[0].Profile)
	assert.Equal(t, ProfileCritical, units[1].Profile)
	assert.Equal(t, StatusCritical, units[1].Status)
}
