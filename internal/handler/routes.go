package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/studyplan-api/internal/middleware"
)

// RegisterRoutes подключает маршруты планировщика к группе /api.
// limit: опциональный rate limiter для тяжёлых и пишущих маршрутов.
func RegisterRoutes(api *gin.RouterGroup, h *PlannerHandler, limit gin.HandlerFunc) {
	users := api.Group("/users/:id")
	users.Use(middleware.ExtractUintParam("id", userIDKey))
	{
		users.GET("/dashboard", h.GetDashboard)
		users.GET("/brain-score", h.GetBrainScore)
		users.GET("/rank", h.GetRankPrediction)
		users.GET("/subjects", h.GetSubjects)
		users.GET("/chapters", h.GetChapters)
		users.GET("/wins", h.GetWeeklyWins)
		users.GET("/achievements", h.GetAchievements)
		users.GET("/challenge", h.GetDailyChallenge)
		users.GET("/profile", h.GetProfile)

		plan := users.Group("/plan")
		{
			plan.GET("/today", h.GetTodayPlan)
			plan.GET("/week", h.GetWeekPlan)

			// Дата в URL
			dated := plan.Group("/:date")
			dated.Use(middleware.ExtractDateParam("date", planDateKey))
			{
				dated.GET("", h.GetDayPlan)
			}
		}

		// Пишущие маршруты и экспорт
		limited := users.Group("")
		if limit != nil {
			limited.Use(limit)
		}
		{
			limited.GET("/plan/week/export", h.ExportWeekPlan)
			limited.POST("/plan/:date/replan", middleware.ExtractDateParam("date", planDateKey), h.ReplanDay)
			limited.POST("/plan/:date/tasks/:taskId/toggle", middleware.ExtractDateParam("date", planDateKey), h.ToggleTask)
			limited.POST("/practice", h.RecordPractice)
			limited.PUT("/profile", h.UpdateProfile)
			limited.POST("/digest", h.SendDigest)
		}
	}
}
