package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
grades:
  - name: Grade 10
    order: 10
    topics:
      - title: Waves and Sound
        difficulty: intermediate
        contents:
          - content_type: theory
            title: What is a wave
            content: A wave transfers energy without transferring matter.
        formulas:
          - name: Wave speed
            formula: v = f \lambda
            variables:
              v: speed (m/s)
        simulations:
          - title: String Wave
            simulation_type: waves
            parameters:
              - name: frequency
                parameter_type: slider
                default_value: "2"
                min_value: 0.5
                max_value: 10
        quizzes:
          - title: Wave basics
            max_attempts: 0
            questions:
              - question_type: true_false
                question_text: Sound needs a medium.
                answers:
                  - text: "True"
                    correct: true
                  - text: "False"
      - title: Light
        difficulty: intermediate
`

func TestParseSeed(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		file, err := ParseSeed(strings.NewReader(seedYAML))
		require.NoError(t, err)
		require.Len(t, file.Grades, 1)
		require.Len(t, file.Grades[0].Topics, 2)
		sim := file.Grades[0].Topics[0].Simulations[0]
		require.Len(t, sim.Parameters, 1)
		require.NotNil(t, sim.Parameters[0].MinValue)
		assert.Equal(t, 0.5, *sim.Parameters[0].MinValue)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := ParseSeed(strings.NewReader("grades:\n  - name: X\n    colour: red\n"))
		assert.Error(t, err)
	})

	t.Run("bundled seed file", func(t *testing.T) {
		f, err := os.Open("../../configs/seed.yaml")
		require.NoError(t, err)
		defer f.Close()
		file, err := ParseSeed(f)
		require.NoError(t, err)
		assert.NotEmpty(t, file.Grades)
	})
}

func TestSeedIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	file, err := ParseSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)

	stats, err := f.seedService().Seed(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, SeedStats{Grades: 1, Topics: 2, Simulations: 1, Quizzes: 1}, *stats)

	stats, err = f.seedService().Seed(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, SeedStats{Skipped: 2}, *stats)

	quizzes, err := f.quizAdmin.List(nil)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, 0, quizzes[0].MaxAttempts)
	assert.Equal(t, 70, quizzes[0].PassingScore)
}
