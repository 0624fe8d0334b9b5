package service

import (
	"encoding/json"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulation(t *testing.T, f *fixture, topicID uint) *model.Simulation {
	t.Helper()
	sim, err := f.simulationAdmin.Create(&SimulationInput{
		TopicID:        topicID,
		Title:          "Projectile Motion",
		SimulationType: model.SimulationMotion,
		ParameterConfig: []ParameterInput{
			{Name: "angle", ParameterType: model.ParamSlider, DefaultValue: "45", MinValue: floatPtr(0), MaxValue: floatPtr(90)},
			{Name: "planet", ParameterType: model.ParamDropdown, DefaultValue: "earth", Options: []interface{}{"earth", "moon"}},
			{Name: "trail", ParameterType: model.ParamCheckbox, DefaultValue: "true"},
			{Name: "color", ParameterType: model.ParamColor, DefaultValue: "#ff0000"},
		},
	})
	require.NoError(t, err)
	return sim
}

func TestSimulationSession(t *testing.T) {
	f := newFixture(t)
	user := f.student(t, "marie@example.com")
	topic := f.topic(t, "Projectiles")
	sim := newSimulation(t, f, topic.ID)
	assert.Equal(t, "projectile-motion", sim.Slug)

	session, err := f.simulation.Start(user.ID, sim.ID)
	require.NoError(t, err)

	var defaults map[string]interface{}
	require.NoError(t, json.Unmarshal(session.ParametersUsed, &defaults))
	assert.Equal(t, 45.0, defaults["angle"])
	assert.Equal(t, true, defaults["trail"])

	t.Run("start reuses open session", func(t *testing.T) {
		again, err := f.simulation.Start(user.ID, sim.ID)
		require.NoError(t, err)
		assert.Equal(t, session.ID, again.ID)
	})

	t.Run("save parameters", func(t *testing.T) {
		saved, err := f.simulation.SaveParameters(user.ID, session.ID, map[string]interface{}{"angle": 30, "color": "#00FF00"})
		require.NoError(t, err)
		assert.Equal(t, 1, saved.InteractionsCount)

		var values map[string]interface{}
		require.NoError(t, json.Unmarshal(saved.ParametersUsed, &values))
		assert.Equal(t, 30.0, values["angle"])
		assert.Equal(t, "#00ff00", values["color"])
		assert.Equal(t, "earth", values["planet"])
	})

	t.Run("reject invalid parameters", func(t *testing.T) {
		cases := map[string]map[string]interface{}{
			"above max":      {"angle": 120},
			"nan":            {"angle": "NaN"},
			"not an option":  {"planet": "mars"},
			"not a bool":     {"trail": "yes"},
			"bad color":      {"color": "red"},
			"unknown name":   {"gravity": 9.8},
			"no values sent": {},
		}
		for name, values := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := f.simulation.SaveParameters(user.ID, session.ID, values)
				assert.ErrorIs(t, err, util.ErrInvalidParameter)
			})
		}
	})

	t.Run("only the first completion counts", func(t *testing.T) {
		res, err := f.simulation.Complete(user.ID, session.ID)
		require.NoError(t, err)
		assert.True(t, res.FirstCompletion)
		assert.True(t, res.Session.IsCompleted)

		_, err = f.simulation.Complete(user.ID, session.ID)
		assert.ErrorIs(t, err, util.ErrSessionCompleted)

		second, err := f.simulation.Start(user.ID, sim.ID)
		require.NoError(t, err)
		assert.NotEqual(t, session.ID, second.ID)
		res, err = f.simulation.Complete(user.ID, second.ID)
		require.NoError(t, err)
		assert.False(t, res.FirstCompletion)

		a, err := f.analyticsRepo.FindOrCreate(user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, a.SimulationsExplored)
	})

	t.Run("detail reports completion", func(t *testing.T) {
		detail, err := f.simulation.Detail(sim.ID, user.ID)
		require.NoError(t, err)
		assert.True(t, detail.Completed)
		assert.Nil(t, detail.OpenSession)
	})
}

func TestBuildParameters(t *testing.T) {
	tests := []struct {
		name   string
		inputs []ParameterInput
	}{
		{"unknown type", []ParameterInput{{Name: "x", ParameterType: "knob"}}},
		{"duplicate name", []ParameterInput{
			{Name: "x", ParameterType: model.ParamInput},
			{Name: "x", ParameterType: model.ParamInput},
		}},
		{"min above max", []ParameterInput{{Name: "x", ParameterType: model.ParamSlider, MinValue: floatPtr(5), MaxValue: floatPtr(1)}}},
		{"dropdown without options", []ParameterInput{{Name: "x", ParameterType: model.ParamDropdown}}},
		{"default out of range", []ParameterInput{{Name: "x", ParameterType: model.ParamSlider, DefaultValue: "11", MaxValue: floatPtr(10)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildParameters(tt.inputs)
			assert.ErrorIs(t, err, util.ErrInvalidParameter)
		})
	}

	params, err := BuildParameters([]ParameterInput{
		{Name: "mass", ParameterType: model.ParamInput, DefaultValue: "2.5"},
		{Name: "shape", ParameterType: model.ParamDropdown, Options: []interface{}{"cube", "sphere"}},
	})
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, 1, params[0].Order)
	assert.Equal(t, 2, params[1].Order)
	assert.JSONEq(t, `["cube","sphere"]`, string(params[1].Options))
}

func TestValidateParameterValueRejectsNonFinite(t *testing.T) {
	unbounded := &model.SimulationParameter{Name: "mass", ParameterType: model.ParamInput}
	for _, v := range []interface{}{"NaN", "Inf", "-Inf", "+inf"} {
		_, err := ValidateParameterValue(unbounded, v)
		assert.ErrorIs(t, err, util.ErrInvalidParameter, "%v", v)
	}

	got, err := ValidateParameterValue(unbounded, " 2.5 ")
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)
}
