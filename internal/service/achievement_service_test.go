package service

import (
	"physics_edu_backend/internal/model"
	"physics_edu_backend/pkg/database"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func achievementNames(list []model.Achievement) []string {
	names := make([]string, 0, len(list))
	for _, a := range list {
		names = append(names, a.Name)
	}
	return names
}

func TestMigrateAfterDefaultAchievementDeleted(t *testing.T) {
	f := newFixture(t)

	all, err := f.achievement.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 4)

	var quizMaster *model.Achievement
	for i := range all {
		if all[i].Name == "Quiz Master" {
			quizMaster = &all[i]
		}
	}
	require.NotNil(t, quizMaster)
	require.NoError(t, f.achievement.Delete(quizMaster.ID))

	require.NoError(t, database.Migrate(f.db))
	require.NoError(t, database.Migrate(f.db))

	all, err = f.achievement.ListAll()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"First Steps", "Simulation Explorer", "Learning Streak"}, achievementNames(all))
}

func TestAchievementAdmin(t *testing.T) {
	f := newFixture(t)

	created, err := f.achievement.Create(&AchievementInput{
		Name:            "Perfectionist",
		AchievementType: model.AchievementPerfectionist,
		Criteria:        map[string]float64{"quizzes_passed": 10},
		Points:          40,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	t.Run("duplicate name", func(t *testing.T) {
		_, err := f.achievement.Create(&AchievementInput{
			Name:            "First Steps",
			AchievementType: model.AchievementTopicCompletion,
			Criteria:        map[string]float64{"topics_completed": 2},
		})
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("unknown criteria key", func(t *testing.T) {
		_, err := f.achievement.Create(&AchievementInput{
			Name:            "Night Owl",
			AchievementType: model.AchievementStreak,
			Criteria:        map[string]float64{"hours_after_midnight": 3},
		})
		assert.Error(t, err)
	})

	require.NoError(t, f.achievement.Delete(created.ID))
	assert.Error(t, f.achievement.Delete(created.ID))
}
