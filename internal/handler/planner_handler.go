package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/studyplan-api/internal/domain/entity"
	"github.com/yourusername/studyplan-api/internal/handler/dto"
	apperrors "github.com/yourusername/studyplan-api/internal/pkg/errors"
	"github.com/yourusername/studyplan-api/internal/pkg/logger"
	"github.com/yourusername/studyplan-api/internal/service"
	"github.com/yourusername/studyplan-api/internal/service/planner"
)

// Ключи контекста, которые заполняют middleware параметров
const (
	userIDKey   = "userID"
	planDateKey = "planDate"
)

// StudyPlanner: операции планировщика, нужные HTTP-слою
type StudyPlanner interface {
	Dashboard(ctx context.Context, userID uint, now time.Time) (*service.Dashboard, error)
	DayPlan(ctx context.Context, userID uint, date, now time.Time) (planner.DayPlan, error)
	WeekPlan(ctx context.Context, userID uint, now time.Time) ([]planner.DayPlan, error)
	QuickReplan(ctx context.Context, userID uint, date time.Time, minutes int, now time.Time) (planner.DayPlan, error)
	ToggleTask(ctx context.Context, userID uint, date time.Time, taskID string, now time.Time) (*service.ToggleResult, error)
	BrainScore(ctx context.Context, userID uint, now time.Time) (planner.BrainScore, error)
	RankPrediction(ctx context.Context, userID uint, examID string, now time.Time) (planner.RankPrediction, error)
	SubjectBreakdowns(ctx context.Context, userID uint, now time.Time) ([]planner.SubjectBreakdown, error)
	ChapterPriorities(ctx context.Context, userID uint, now time.Time) ([]planner.ChapterPriority, error)
	WeeklyWins(ctx context.Context, userID uint, now time.Time) ([]planner.WeeklyWin, error)
	DailyChallenge(now time.Time) planner.DailyChallenge
	Achievements(ctx context.Context, userID uint, now time.Time) (*service.AchievementsResult, error)
	RecordPractice(ctx context.Context, userID uint, in service.PracticeInput) (*entity.TopicPerformance, error)
	Profile(ctx context.Context, userID uint) (*entity.StudentProfile, error)
	UpdateProfile(ctx context.Context, userID uint, upd service.ProfileUpdate) (*entity.StudentProfile, error)
}

// DigestSender: ручная отправка недельного дайджеста
type DigestSender interface {
	SendWeeklyDigest(ctx context.Context, userID uint, now time.Time) (*service.DigestResult, error)
}

// PlannerHandler обрабатывает запросы учебного планировщика
type PlannerHandler struct {
	study        StudyPlanner
	digest       DigestSender
	daysFallback int
	log          *logger.Logger
	now          func() time.Time
}

// NewPlannerHandler создает новый обработчик планировщика.
// daysFallback: дней до экзамена для профиля без даты экзамена.
// loc: часовой пояс учеников, в нём определяется «сегодня».
func NewPlannerHandler(study StudyPlanner, digest DigestSender, daysFallback int, loc *time.Location, log *logger.Logger) *PlannerHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PlannerHandler{
		study:        study,
		digest:       digest,
		daysFallback: daysFallback,
		log:          log.Component("PlannerHandler"),
		now:          func() time.Time { return time.Now().In(loc) },
	}
}

// SetClock подменяет источник текущего времени
func (h *PlannerHandler) SetClock(now func() time.Time) {
	h.now = now
}

// GetDashboard возвращает главный экран ученика
func (h *PlannerHandler) GetDashboard(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	d, err := h.study.Dashboard(c.Request.Context(), userID, h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetTodayPlan возвращает план на сегодня
func (h *PlannerHandler) GetTodayPlan(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)
	now := h.now()

	plan, err := h.study.DayPlan(c.Request.Context(), userID, now, now)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetDayPlan возвращает план на дату из URL
func (h *PlannerHandler) GetDayPlan(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)
	date := c.MustGet(planDateKey).(time.Time)

	plan, err := h.study.DayPlan(c.Request.Context(), userID, date, h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetWeekPlan возвращает план на 7 дней начиная с сегодня
func (h *PlannerHandler) GetWeekPlan(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	week, err := h.study.WeekPlan(c.Request.Context(), userID, h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": week})
}

// ExportWeekPlan отдаёт недельный план файлом (xlsx по умолчанию, csv по ?format=csv)
func (h *PlannerHandler) ExportWeekPlan(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)
	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))
	if format != "xlsx" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be xlsx or csv", "error_type": "validation_error"})
		return
	}

	now := h.now()
	week, err := h.study.WeekPlan(c.Request.Context(), userID, now)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// Пишем в буфер: при ошибке генерации ещё можно вернуть JSON
	var buf bytes.Buffer
	var contentType string
	if format == "csv" {
		contentType = "text/csv; charset=utf-8"
		err = dto.WriteWeekPlanCSV(&buf, week)
	} else {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = dto.WriteWeekPlanXLSX(&buf, week)
	}
	if err != nil {
		h.log.Error("week plan export failed", "user_id", userID, "format", format, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate export", "error_type": "internal_server_error"})
		return
	}

	filename := fmt.Sprintf("week_plan_%d_%s.%s", userID, now.Format(planner.DateLayout), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ReplanDay пересобирает план дня под заданное число минут
func (h *PlannerHandler) ReplanDay(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)
	date := c.MustGet(planDateKey).(time.Time)

	var req dto.ReplanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	plan, err := h.study.QuickReplan(c.Request.Context(), userID, date, req.Minutes, h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ToggleTask отмечает задачу выполненной или снимает отметку
func (h *PlannerHandler) ToggleTask(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)
	date := c.MustGet(planDateKey).(time.Time)
	taskID := strings.TrimSpace(c.Param("taskId"))
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid taskId", "error_type": "validation_error"})
		return
	}

	res, err := h.study.ToggleTask(c.Request.Context(), userID, date, taskID, h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetBrainScore возвращает индекс готовности
func (h *PlannerHandler) GetBrainScore(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	score, err := h.study.BrainScore(c.Request.Context(), userID, h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// GetRankPrediction прогнозирует ранг; ?exam= переопределяет экзамен профиля
func (h *PlannerHandler) GetRankPrediction(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	rank, err := h.study.RankPrediction(c.Request.Context(), userID, c.Query("exam"), h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rank)
}

// GetSubjects возвращает сводку по предметам
func (h *PlannerHandler) GetSubjects(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	subjects, err := h.study.SubjectBreakdowns(c.Request.Context(), userID, h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

// GetChapters возвращает главы по убыванию приоритета
func (h *PlannerHandler) GetChapters(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	chapters, err := h.study.ChapterPriorities(c.Request.Context(), userID, h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapters": chapters})
}

// GetWeeklyWins возвращает победы недели
func (h *PlannerHandler) GetWeeklyWins(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	wins, err := h.study.WeeklyWins(c.Request.Context(), userID, h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wins": wins})
}

// GetAchievements оценивает достижения и возвращает новые разблокировки
func (h *PlannerHandler) GetAchievements(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	res, err := h.study.Achievements(c.Request.Context(), userID, h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetDailyChallenge возвращает челлендж дня (одинаковый для всех в этот день)
func (h *PlannerHandler) GetDailyChallenge(c *gin.Context) {
	c.JSON(http.StatusOK, h.study.DailyChallenge(h.now()))
}

// RecordPractice сохраняет результат подхода к теме
func (h *PlannerHandler) RecordPractice(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	var req dto.PracticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	perf, err := h.study.RecordPractice(c.Request.Context(), userID, req.ToInput(h.now()))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPracticeResponse(perf))
}

// GetProfile возвращает профиль ученика
func (h *PlannerHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	profile, err := h.study.Profile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileResponse(profile, h.now(), h.daysFallback))
}

// UpdateProfile частично обновляет профиль
func (h *PlannerHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}
	upd, err := req.ToUpdate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exam_date must be YYYY-MM-DD", "error_type": "validation_error"})
		return
	}

	profile, err := h.study.UpdateProfile(c.Request.Context(), userID, upd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileResponse(profile, h.now(), h.daysFallback))
}

// SendDigest отправляет недельный дайджест вручную
func (h *PlannerHandler) SendDigest(c *gin.Context) {
	userID := c.MustGet(userIDKey).(uint)

	res, err := h.digest.SendWeeklyDigest(c.Request.Context(), userID, h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	status := http.StatusOK
	if res.Sent {
		status = http.StatusAccepted
	}
	c.JSON(status, res)
}

// handleError обрабатывает ошибки сервиса и возвращает соответствующий HTTP ответ
func (h *PlannerHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found", "error_type": "not_found"})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "error_type": "validation_error"})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "error_type": "conflict"})
	} else if errors.Is(err, context.Canceled) {
		// Клиент ушёл, отвечать некому
		c.Status(499)
	} else {
		h.log.Error("internal error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
	}
}
