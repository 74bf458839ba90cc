package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mlebedev/coursehub/internal/handlers"
	authmw "github.com/mlebedev/coursehub/internal/middleware/auth"
	"github.com/mlebedev/coursehub/internal/service/token"
)

type Deps struct {
	DB            *gorm.DB
	Tokens        *token.Service
	AuthHandler   *handlers.AuthHandler
	CourseHandler *handlers.CourseHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	requireLogin := authmw.RequireLogin(d.Tokens)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/profile", d.AuthHandler.Profile, requireLogin)

	courses := api.Group("/courses")
	courses.GET("", d.CourseHandler.ListCourses)
	courses.POST("/register", d.CourseHandler.Enroll, requireLogin)
	courses.GET("/mycourses", d.CourseHandler.MyCourses, requireLogin)
}
