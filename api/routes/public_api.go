package routes

import (
	"liftlog/api/handlers"
	"liftlog/api/middleware"
	"liftlog/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PublicApi registers the API surface. Every route except /metrics runs
// through its rate-limit category; mutating and reading routes require
// authentication first so user-scoped limits apply.
func PublicApi(router *gin.Engine) *gin.RouterGroup {
	router.Use(middleware.PrometheusMiddleware())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1/")

	auth := api.Group("")
	auth.Use(middleware.RateLimit(services.CategoryAuth))
	{
		auth.POST("auth/register", handlers.Register)
		auth.POST("auth/login", handlers.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireAuth())
	{
		authed.POST("auth/logout", middleware.RateLimit(services.CategoryAuth), handlers.Logout)

		read := authed.Group("")
		read.Use(middleware.RateLimit(services.CategoryRead))
		{
			read.GET("feed", handlers.GetFeed)
			read.GET("users/search", handlers.SearchUsers)
			read.GET("users/:id", handlers.GetUser)
			read.GET("workouts", handlers.ListWorkouts)
			read.GET("workouts/:id", handlers.GetWorkout)
			read.GET("exercises", handlers.ListExercises)
			read.GET("exercises/:id", handlers.GetExercise)
			read.GET("progress/:exerciseId", handlers.GetExerciseProgress)
			read.GET("plans", handlers.ListPlans)
			read.GET("plans/active", handlers.GetActivePlan)
			read.GET("plans/:id", handlers.GetPlan)
			read.GET("ws", handlers.WSFeedHandler)
		}

		write := authed.Group("")
		write.Use(middleware.RateLimit(services.CategoryWrite))
		{
			write.POST("users/:id/follow", handlers.Follow)
			write.PATCH("users/:id", handlers.UpdateUser)
			write.POST("workouts", handlers.CreateWorkout)
			write.PUT("workouts/:id", handlers.UpdateWorkout)
			write.POST("plans", handlers.CreatePlan)
			write.POST("plans/:id/activate", handlers.ActivatePlan)
			write.POST("plans/active/advance", handlers.AdvanceActivePlan)
		}

		del := authed.Group("")
		del.Use(middleware.RateLimit(services.CategoryDelete))
		{
			del.DELETE("users/:id/follow", handlers.Unfollow)
			del.DELETE("workouts/:id", handlers.DeleteWorkout)
			del.DELETE("plans/:id", handlers.DeletePlan)
		}
	}

	return api
}
