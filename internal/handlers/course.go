package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mlebedev/coursehub/internal/events"
	"github.com/mlebedev/coursehub/internal/logging"
	authmw "github.com/mlebedev/coursehub/internal/middleware/auth"
	"github.com/mlebedev/coursehub/internal/models"
)

type CourseHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *CourseHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("event publish failed", "error", err)
	}
}

func (h *CourseHandler) ListCourses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.list")

	courses := make([]models.Course, 0)
	if err := h.DB.Order("created_at ASC").Find(&courses).Error; err != nil {
		l.Error("list_courses_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Enroll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.enroll")

	userID, ok := authmw.UserID(c)
	if !ok {
		l.Warn("enroll_failed", "status", 401, "reason", "no identity in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "authorization required")
	}

	var req struct {
		CourseID string `json:"courseId"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("enroll_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.CourseID == "" {
		l.Warn("enroll_failed", "status", 400, "reason", "missing courseId")
		return echo.NewHTTPError(http.StatusBadRequest, "courseId required")
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		l.Warn("enroll_failed", "status", 400, "reason", "courseId is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid courseId")
	}

	// Existence check and insert run under one transaction so the
	// enrollment never half-applies.
	var course models.Course
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", courseID).First(&course).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "Course not found")
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Enrollment{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Already registered for this course")
		}

		return tx.Create(&models.Enrollment{UserID: userID, CourseID: courseID}).Error
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			l.Warn("enroll_failed", "status", he.Code, "userID", userID, "courseID", courseID)
			return he
		}
		l.Error("enroll_failed", "status", 500, "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.publish(c, userID.String(), map[string]any{
		"type":     "user_enrolled",
		"userID":   userID.String(),
		"courseID": courseID.String(),
		"title":    course.Title,
	})

	l.Info("enroll_successful", "userID", userID, "courseID", courseID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Registered for %s successfully", course.Title),
	})
}

func (h *CourseHandler) MyCourses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.my_courses")

	userID, ok := authmw.UserID(c)
	if !ok {
		l.Warn("my_courses_failed", "status", 401, "reason", "no identity in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "authorization required")
	}

	courses := make([]models.Course, 0)
	err := h.DB.
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.created_at ASC").
		Find(&courses).Error
	if err != nil {
		l.Error("my_courses_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, courses)
}
