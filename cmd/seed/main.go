package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"liftlog/config"
	"liftlog/db"
	"liftlog/models"
	"liftlog/services"

	"github.com/brianvoe/gofakeit/v7"
)

// Seeds the exercise catalog and a population of demo users with follow
// edges and logged workouts. Intended for local development and load
// experiments, not production.

var catalog = []models.Exercise{
	{Name: "Back Squat", MuscleGroup: "legs", Equipment: "barbell"},
	{Name: "Bench Press", MuscleGroup: "chest", Equipment: "barbell"},
	{Name: "Deadlift", MuscleGroup: "back", Equipment: "barbell"},
	{Name: "Overhead Press", MuscleGroup: "shoulders", Equipment: "barbell"},
	{Name: "Barbell Row", MuscleGroup: "back", Equipment: "barbell"},
	{Name: "Pull Up", MuscleGroup: "back", Equipment: "bodyweight"},
	{Name: "Dumbbell Curl", MuscleGroup: "arms", Equipment: "dumbbell"},
	{Name: "Leg Press", MuscleGroup: "legs", Equipment: "machine"},
	{Name: "Lateral Raise", MuscleGroup: "shoulders", Equipment: "dumbbell"},
	{Name: "Romanian Deadlift", MuscleGroup: "legs", Equipment: "barbell"},
}

func main() {
	var configPath string
	var userCount int
	var workoutsPerUser int
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.IntVar(&userCount, "users", 50, "Number of demo users")
	flag.IntVar(&workoutsPerUser, "workouts", 10, "Workouts per user")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := db.ConnectDB(); err != nil {
		log.Fatalf("failed to connect to the database: %v", err)
	}

	ctx := context.Background()

	for i := range catalog {
		if err := db.GetWriteDB(ctx).
			Where("name = ?", catalog[i].Name).
			FirstOrCreate(&catalog[i]).Error; err != nil {
			log.Fatalf("failed to seed exercise %q: %v", catalog[i].Name, err)
		}
	}
	log.Printf("seeded %d catalog exercises", len(catalog))

	userSvc := services.NewUserService()
	workoutSvc := services.NewWorkoutService()
	followSvc := services.NewFollowService()

	userIDs := make([]int64, 0, userCount)
	for i := 0; i < userCount; i++ {
		user := models.User{
			Nickname: fmt.Sprintf("%s_%d", gofakeit.Username(), i),
			Name:     gofakeit.Name(),
			Password: "demo-password",
			Bio:      gofakeit.Sentence(8),
		}
		id, err := userSvc.Register(ctx, &user)
		if err != nil {
			log.Fatalf("failed to seed user: %v", err)
		}
		userIDs = append(userIDs, id)
	}
	log.Printf("seeded %d users", len(userIDs))

	// Everyone follows a handful of random others.
	for _, id := range userIDs {
		for i := 0; i < 5; i++ {
			target := userIDs[rand.Intn(len(userIDs))]
			if target == id {
				continue
			}
			_ = followSvc.Follow(ctx, id, target)
		}
	}

	for _, id := range userIDs {
		for i := 0; i < workoutsPerUser; i++ {
			input := services.CreateWorkoutInput{
				Name:        gofakeit.RandomString([]string{"Push Day", "Pull Day", "Leg Day", "Full Body"}),
				Date:        time.Now().AddDate(0, 0, -i),
				IsCompleted: true,
				Caption:     gofakeit.Sentence(6),
				Exercises:   randomExercises(),
			}
			if _, err := workoutSvc.CreateWorkout(ctx, id, input); err != nil {
				log.Fatalf("failed to seed workout: %v", err)
			}
		}
	}
	log.Printf("seeded %d workouts", len(userIDs)*workoutsPerUser)
}

func randomExercises() []services.WorkoutExerciseInput {
	count := 2 + rand.Intn(3)
	exercises := make([]services.WorkoutExerciseInput, 0, count)
	for i := 0; i < count; i++ {
		ex := catalog[rand.Intn(len(catalog))]
		sets := make([]services.SetInput, 0, 3)
		for s := 0; s < 3; s++ {
			sets = append(sets, services.SetInput{
				SetNumber: s + 1,
				Reps:      5 + rand.Intn(8),
				Weight:    float64(40 + rand.Intn(100)),
				IsWarmup:  s == 0,
			})
		}
		exercises = append(exercises, services.WorkoutExerciseInput{
			ExerciseID: ex.ID,
			Order:      i,
			Sets:       sets,
		})
	}
	return exercises
}
