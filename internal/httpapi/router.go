// Package httpapi exposes plan configuration, generation and checklist
// lookup over HTTP.
package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/cadence/internal/app"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

type RouterConfig struct {
	Plans      app.PlanUseCase
	Generator  app.GenerateUseCase
	Checklists app.ChecklistUseCase
	// CORSOrigins replaces the local development origins when set.
	CORSOrigins []string
}

func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	})
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(CORS(cfg.CORSOrigins))

	plans := NewPlanHandler(cfg.Plans, cfg.Generator)
	checklists := NewChecklistHandler(cfg.Checklists)

	router.GET("/healthcheck", HealthCheck)

	api := router.Group("/api")
	{
		user := api.Group("/users/:userID/plan")
		user.PUT("", plans.SavePlan)
		user.GET("", plans.GetPlan)
		user.POST("/exams", plans.AddExam)
		user.GET("/exams", plans.ListExams)
		user.POST("/generate", plans.Generate)
		user.GET("/placements", plans.ListPlacements)

		api.GET("/checklists/:name", checklists.Next)
	}

	return router
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
