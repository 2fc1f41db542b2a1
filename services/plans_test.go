package services

import (
	"context"
	"testing"

	"liftlog/db"
	"liftlog/models"

	"github.com/stretchr/testify/require"
)

func pushPullPlan(benchID, rowID int64) CreatePlanInput {
	return CreatePlanInput{
		Name:        "Push Pull",
		Description: "two day split",
		Days: []PlanDayInput{
			{Name: "Push", Order: 0, Exercises: []PlanExerciseInput{
				{ExerciseID: benchID, Order: 0, Sets: 3, Reps: 5},
			}},
			{Name: "Pull", Order: 1, Exercises: []PlanExerciseInput{
				{ExerciseID: rowID, Order: 0, Sets: 3, Reps: 8},
			}},
		},
	}
}

func TestCreateAndGetPlan(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, "Planner")
	bench := createTestExercise(t, "Bench Press")
	row := createTestExercise(t, "Barbell Row")

	ps := NewPlanService()
	plan, err := ps.CreatePlan(ctx, user.ID, pushPullPlan(bench.ID, row.ID))
	require.NoError(t, err)
	require.Equal(t, "Push Pull", plan.Name)
	require.Len(t, plan.Days, 2)
	require.Equal(t, "Push", plan.Days[0].Name)
	require.Len(t, plan.Days[0].Exercises, 1)
	require.Equal(t, bench.ID, plan.Days[0].Exercises[0].ExerciseID)
	require.False(t, plan.IsActive)
}

func TestGetPlanScopedToOwner(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, "Owner")
	other := createTestUser(t, "Other")
	bench := createTestExercise(t, "Bench Press")
	row := createTestExercise(t, "Barbell Row")

	ps := NewPlanService()
	plan, err := ps.CreatePlan(ctx, owner.ID, pushPullPlan(bench.ID, row.ID))
	require.NoError(t, err)

	_, err = ps.GetPlan(ctx, other.ID, plan.ID)
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestActivatePlanDeactivatesPrevious(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, "Planner")
	bench := createTestExercise(t, "Bench Press")
	row := createTestExercise(t, "Barbell Row")

	ps := NewPlanService()
	first, err := ps.CreatePlan(ctx, user.ID, pushPullPlan(bench.ID, row.ID))
	require.NoError(t, err)
	second, err := ps.CreatePlan(ctx, user.ID, pushPullPlan(bench.ID, row.ID))
	require.NoError(t, err)

	_, err = ps.ActivatePlan(ctx, user.ID, first.ID)
	require.NoError(t, err)
	activated, err := ps.ActivatePlan(ctx, user.ID, second.ID)
	require.NoError(t, err)
	require.True(t, activated.IsActive)
	require.Zero(t, activated.CurrentDay)

	active, err := ps.ActivePlan(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)

	var activeCount int64
	require.NoError(t, db.ORM.Model(&models.WorkoutPlan{}).
		Where("user_id = ? AND is_active = ?", user.ID, true).
		Count(&activeCount).Error)
	require.Equal(t, int64(1), activeCount)
}

func TestActivePlanNone(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, "Planner")
	ps := NewPlanService()
	_, err := ps.ActivePlan(ctx, user.ID)
	require.ErrorIs(t, err, ErrNoActivePlan)
	_, err = ps.AdvanceActivePlan(ctx, user.ID)
	require.ErrorIs(t, err, ErrNoActivePlan)
}

func TestAdvanceActivePlanWrapsAround(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, "Planner")
	bench := createTestExercise(t, "Bench Press")
	row := createTestExercise(t, "Barbell Row")

	ps := NewPlanService()
	plan, err := ps.CreatePlan(ctx, user.ID, pushPullPlan(bench.ID, row.ID))
	require.NoError(t, err)
	_, err = ps.ActivatePlan(ctx, user.ID, plan.ID)
	require.NoError(t, err)

	advanced, err := ps.AdvanceActivePlan(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, advanced.CurrentDay)

	wrapped, err := ps.AdvanceActivePlan(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, wrapped.CurrentDay)
}

func TestDeletePlanRemovesChildren(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, "Owner")
	other := createTestUser(t, "Other")
	bench := createTestExercise(t, "Bench Press")
	row := createTestExercise(t, "Barbell Row")

	ps := NewPlanService()
	plan, err := ps.CreatePlan(ctx, owner.ID, pushPullPlan(bench.ID, row.ID))
	require.NoError(t, err)

	require.ErrorIs(t, ps.DeletePlan(ctx, other.ID, plan.ID), ErrPlanNotFound)
	require.NoError(t, ps.DeletePlan(ctx, owner.ID, plan.ID))

	_, err = ps.GetPlan(ctx, owner.ID, plan.ID)
	require.ErrorIs(t, err, ErrPlanNotFound)

	var days, exercises int64
	require.NoError(t, db.ORM.Model(&models.PlanDay{}).Count(&days).Error)
	require.NoError(t, db.ORM.Model(&models.PlanExercise{}).Count(&exercises).Error)
	require.Zero(t, days)
	require.Zero(t, exercises)
}

func TestListPlans(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, "Planner")
	other := createTestUser(t, "Other")
	bench := createTestExercise(t, "Bench Press")
	row := createTestExercise(t, "Barbell Row")

	ps := NewPlanService()
	_, err := ps.CreatePlan(ctx, user.ID, pushPullPlan(bench.ID, row.ID))
	require.NoError(t, err)
	_, err = ps.CreatePlan(ctx, other.ID, pushPullPlan(bench.ID, row.ID))
	require.NoError(t, err)

	plans, err := ps.ListPlans(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, plans, 1)
}
