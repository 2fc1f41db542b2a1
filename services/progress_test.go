package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimate1RM(t *testing.T) {
	require.InDelta(t, 100, Estimate1RM(100, 0), 0.001)
	require.InDelta(t, 116.666, Estimate1RM(100, 5), 0.001)
	require.InDelta(t, 133.333, Estimate1RM(100, 10), 0.001)
}

func TestExerciseProgress(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, "Lifter")
	bench := createTestExercise(t, "Bench Press")
	squat := createTestExercise(t, "Squat")
	workouts := NewWorkoutService()

	early := CreateWorkoutInput{
		Name:        "Session 1",
		Date:        feedDate(1),
		IsCompleted: true,
		Exercises: []WorkoutExerciseInput{
			{ExerciseID: bench.ID, Sets: []SetInput{
				{SetNumber: 1, Reps: 10, Weight: 40, IsWarmup: true},
				{SetNumber: 2, Reps: 5, Weight: 80},
				{SetNumber: 3, Reps: 5, Weight: 80},
			}},
			{ExerciseID: squat.ID, Sets: []SetInput{
				{SetNumber: 1, Reps: 5, Weight: 120},
			}},
		},
	}
	_, err := workouts.CreateWorkout(ctx, user.ID, early)
	require.NoError(t, err)

	later := CreateWorkoutInput{
		Name:        "Session 2",
		Date:        feedDate(3),
		IsCompleted: true,
		Exercises: []WorkoutExerciseInput{
			{ExerciseID: bench.ID, Sets: []SetInput{
				{SetNumber: 1, Reps: 3, Weight: 85},
			}},
		},
	}
	_, err = workouts.CreateWorkout(ctx, user.ID, later)
	require.NoError(t, err)

	ps := NewProgressService()
	points, err := ps.ExerciseProgress(ctx, user.ID, bench.ID)
	require.NoError(t, err)
	require.Len(t, points, 2)

	// Oldest first; the warmup is excluded from every aggregate.
	require.Equal(t, feedDate(1).Unix(), points[0].Date.Unix())
	require.InDelta(t, 80, points[0].MaxWeight, 0.001)
	require.InDelta(t, 800, points[0].TotalVolume, 0.001)
	require.InDelta(t, Estimate1RM(80, 5), points[0].Estimated1RM, 0.001)

	require.InDelta(t, 85, points[1].MaxWeight, 0.001)
	require.InDelta(t, 255, points[1].TotalVolume, 0.001)
	require.InDelta(t, Estimate1RM(85, 3), points[1].Estimated1RM, 0.001)
}

func TestExerciseProgressWarmupOnlyWorkoutSkipped(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, "Lifter")
	bench := createTestExercise(t, "Bench Press")
	workouts := NewWorkoutService()

	input := CreateWorkoutInput{
		Name:        "Warmups Only",
		Date:        feedDate(1),
		IsCompleted: true,
		Exercises: []WorkoutExerciseInput{
			{ExerciseID: bench.ID, Sets: []SetInput{
				{SetNumber: 1, Reps: 10, Weight: 40, IsWarmup: true},
			}},
		},
	}
	_, err := workouts.CreateWorkout(ctx, user.ID, input)
	require.NoError(t, err)

	ps := NewProgressService()
	points, err := ps.ExerciseProgress(ctx, user.ID, bench.ID)
	require.NoError(t, err)
	require.Empty(t, points)
}

func TestExerciseProgressScopedToUser(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	lifter := createTestUser(t, "Lifter")
	other := createTestUser(t, "Other")
	bench := createTestExercise(t, "Bench Press")
	workouts := NewWorkoutService()

	_, err := workouts.CreateWorkout(ctx, other.ID, benchInput(bench.ID, 200))
	require.NoError(t, err)

	ps := NewProgressService()
	points, err := ps.ExerciseProgress(ctx, lifter.ID, bench.ID)
	require.NoError(t, err)
	require.Empty(t, points)
}
