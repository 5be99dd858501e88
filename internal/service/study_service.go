package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/studyplan-api/internal/config"
	"github.com/yourusername/studyplan-api/internal/domain/entity"
	"github.com/yourusername/studyplan-api/internal/domain/repository"
	apperrors "github.com/yourusername/studyplan-api/internal/pkg/errors"
	"github.com/yourusername/studyplan-api/internal/pkg/logger"
	"github.com/yourusername/studyplan-api/internal/pkg/metrics"
	"github.com/yourusername/studyplan-api/internal/service/planner"
)

const (
	cacheVersionKeyFmt = "planner:user:%d:ver"
	weekPlanKeyFmt     = "planner:week:%d:v%s:%s:%016x"

	maxReplanMinutes = 24 * 60
)

// StudyService связывает хранилище и движок планировщика
type StudyService struct {
	perfRepo        repository.PerformanceRepository
	profileRepo     repository.ProfileRepository
	achievementRepo repository.AchievementRepository
	completionRepo  repository.TaskCompletionRepository
	cacheRepo       repository.CacheRepository
	cfg             config.PlannerConfig
	metrics         *metrics.Metrics
	log             *logger.Logger
	loc             *time.Location

	// newRand создаёт источник случайности на запрос; nil: детерминированный режим
	newRand func() planner.Rand
}

// NewStudyService создает сервис планировщика
func NewStudyService(
	perfRepo repository.PerformanceRepository,
	profileRepo repository.ProfileRepository,
	achievementRepo repository.AchievementRepository,
	completionRepo repository.TaskCompletionRepository,
	cacheRepo repository.CacheRepository,
	cfg config.PlannerConfig,
	m *metrics.Metrics,
	log *logger.Logger,
) *StudyService {
	log = log.Component("StudyService")
	loc, err := cfg.Location()
	if err != nil {
		log.Warn("unknown planner timezone, falling back to UTC", "timezone", cfg.Timezone, "error", err)
		loc = time.UTC
	}
	return &StudyService{
		perfRepo:        perfRepo,
		profileRepo:     profileRepo,
		achievementRepo: achievementRepo,
		completionRepo:  completionRepo,
		cacheRepo:       cacheRepo,
		cfg:             cfg,
		metrics:         m,
		log:             log,
		loc:             loc,
		newRand: func() planner.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

// SetRandSource подменяет источник случайности (nil: без вариативности)
func (s *StudyService) SetRandSource(fn func() planner.Rand) {
	s.newRand = fn
}

// local переводит момент в часовой пояс учеников: от него зависят календарный день,
// день недели и час приветствия
func (s *StudyService) local(t time.Time) time.Time {
	return t.In(s.loc)
}

func (s *StudyService) rnd() planner.Rand {
	if s.newRand == nil {
		return nil
	}
	return s.newRand()
}

// ============================================================================
// Снимок данных ученика
// ============================================================================

// snapshot: всё, что нужно движку для одного запроса
type snapshot struct {
	profile   *entity.StudentProfile
	persisted bool // false: профиль собран из значений по умолчанию
	topics    []planner.TopicInsight
	now       time.Time
}

func (sn *snapshot) daysToExam(fallback int) int {
	return sn.profile.DaysToExam(sn.now, fallback)
}

func (sn *snapshot) phase(fallback int) planner.ExamPhase {
	return planner.DetectPhase(sn.daysToExam(fallback))
}

// loadSnapshot параллельно загружает профиль и статистику по темам
func (s *StudyService) loadSnapshot(ctx context.Context, userID uint, now time.Time) (*snapshot, error) {
	now = s.local(now)
	var (
		rows      []entity.TopicPerformance
		profile   *entity.StudentProfile
		persisted = true
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.perfRepo.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("list performance rows: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		p, err := s.profileRepo.GetByUserID(gctx, userID)
		if errors.Is(err, apperrors.ErrNotFound) {
			profile = s.defaultProfile(userID)
			persisted = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		profile = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &snapshot{
		profile:   profile,
		persisted: persisted,
		topics:    planner.AnalyzeTopics(toPerformanceRows(rows), now),
		now:       now,
	}, nil
}

// ensureProfile возвращает профиль, при первом обращении создавая его из значений по умолчанию
func (s *StudyService) ensureProfile(ctx context.Context, userID uint) (*entity.StudentProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	profile = s.defaultProfile(userID)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

func (s *StudyService) defaultProfile(userID uint) *entity.StudentProfile {
	return &entity.StudentProfile{
		UserID:          userID,
		TargetExam:      s.cfg.DefaultTargetExam,
		DailyStudyHours: s.cfg.DefaultDailyHours,
	}
}

func toPerformanceRows(rows []entity.TopicPerformance) []planner.PerformanceRow {
	out := make([]planner.PerformanceRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, planner.PerformanceRow{
			Subject:            r.Subject,
			Chapter:            r.Chapter,
			Topic:              r.Topic,
			Accuracy:           r.Accuracy,
			QuestionsAttempted: r.QuestionsAttempted,
			LastPracticed:      r.LastPracticed,
			StuckDays:          r.StuckDays,
		})
	}
	return out
}

// completedIDs возвращает отметки о выполнении за указанные даты
func (s *StudyService) completedIDs(ctx context.Context, userID uint, dates []string) (map[string]bool, error) {
	completions, err := s.completionRepo.ListByDates(ctx, userID, dates)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	ids := make(map[string]bool, len(completions))
	for _, c := range completions {
		ids[c.TaskID] = true
	}
	return ids, nil
}

// ============================================================================
// Дашборд
// ============================================================================

// Dashboard: всё содержимое главного экрана за один запрос
type Dashboard struct {
	Greeting   string                 `json:"greeting"`
	Motivation string                 `json:"motivation"`
	Level      planner.LevelInfo      `json:"level"`
	Phase      planner.ExamPhase      `json:"phase"`
	DaysToExam int                    `json:"daysToExam"`
	TargetExam string                 `json:"targetExam"`
	BrainScore planner.BrainScore     `json:"brainScore"`
	Stats      planner.PlannerStats   `json:"stats"`
	Today      planner.DayPlan        `json:"today"`
	Challenge  planner.DailyChallenge `json:"challenge"`
}

// Dashboard собирает главный экран ученика
func (s *StudyService) Dashboard(ctx context.Context, userID uint, now time.Time) (*Dashboard, error) {
	now = s.local(now)
	sn, err := s.loadSnapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	today := planner.GenerateDayPlan(sn.topics, sn.profile.DailyStudyHours, sn.phase(s.cfg.DefaultDaysToExam), now, now)
	s.metrics.PlansGenerated.WithLabelValues("day").Inc()

	done, err := s.completedIDs(ctx, userID, []string{today.Date})
	if err != nil {
		return nil, err
	}

	avgAccuracy := planner.AverageAccuracy(sn.topics)
	days := sn.daysToExam(s.cfg.DefaultDaysToExam)
	rnd := s.rnd()

	return &Dashboard{
		Greeting: planner.GetGreeting(now.Hour(), sn.profile.Name),
		Motivation: planner.PickMotivation(planner.MotivationInput{
			DaysToExam: days,
			Streak:     sn.profile.CurrentStreak,
			Accuracy:   avgAccuracy,
		}, rnd),
		Level:      planner.GetLevelInfo(sn.profile.TotalPoints),
		Phase:      planner.DetectPhase(days),
		DaysToExam: days,
		TargetExam: sn.profile.TargetExam,
		BrainScore: planner.CalculateBrainScore(sn.topics, brainInput(sn), rnd),
		Stats: planner.ComputePlannerStats(sn.topics, planner.StatsInput{
			XP:            sn.profile.TotalPoints,
			Streak:        sn.profile.CurrentStreak,
			LongestStreak: sn.profile.LongestStreak,
		}),
		Today:     planner.ApplyCompletions(today, done),
		Challenge: planner.PickDailyChallenge(now.Format(planner.DateLayout)),
	}, nil
}

func brainInput(sn *snapshot) planner.BrainScoreInput {
	return planner.BrainScoreInput{
		Streak:         sn.profile.CurrentStreak,
		AvgAccuracy:    planner.AverageAccuracy(sn.topics),
		TotalQuestions: planner.TotalQuestions(sn.topics),
	}
}

// ============================================================================
// Планы
// ============================================================================

// DayPlan генерирует план на дату с наложенными отметками о выполнении
func (s *StudyService) DayPlan(ctx context.Context, userID uint, date, now time.Time) (planner.DayPlan, error) {
	now = s.local(now)
	sn, err := s.loadSnapshot(ctx, userID, now)
	if err != nil {
		return planner.DayPlan{}, err
	}

	plan := planner.GenerateDayPlan(sn.topics, sn.profile.DailyStudyHours, sn.phase(s.cfg.DefaultDaysToExam), date, now)
	s.metrics.PlansGenerated.WithLabelValues("day").Inc()

	done, err := s.completedIDs(ctx, userID, []string{plan.Date})
	if err != nil {
		return planner.DayPlan{}, err
	}
	return planner.ApplyCompletions(plan, done), nil
}

// WeekPlan: семь дней начиная с сегодняшнего. Результат генерации кешируется
// в Redis; ключ включает версию данных ученика, дату и хеш входа движка.
func (s *StudyService) WeekPlan(ctx context.Context, userID uint, now time.Time) ([]planner.DayPlan, error) {
	now = s.local(now)
	sn, err := s.loadSnapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	phase := sn.phase(s.cfg.DefaultDaysToExam)
	key := s.weekPlanKey(ctx, userID, now, sn, phase)

	var week []planner.DayPlan
	err = s.cacheRepo.GetJSON(ctx, key, &week)
	switch {
	case err == nil && len(week) > 0:
		s.metrics.WeekCacheLookups.WithLabelValues("hit").Inc()
	case err == nil || errors.Is(err, apperrors.ErrNotFound):
		s.metrics.WeekCacheLookups.WithLabelValues("miss").Inc()
		week = nil
	default:
		s.metrics.WeekCacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("week plan cache read failed", "user_id", userID, "error", err)
		week = nil
	}

	if week == nil {
		week = planner.GenerateWeekPlan(sn.topics, sn.profile.DailyStudyHours, phase, now)
		s.metrics.PlansGenerated.WithLabelValues("week").Inc()
		if err := s.cacheRepo.SetJSON(ctx, key, week, s.cfg.WeekCacheTTL); err != nil {
			s.log.Warn("week plan cache write failed", "user_id", userID, "error", err)
		}
	}

	dates := make([]string, 0, len(week))
	for _, d := range week {
		dates = append(dates, d.Date)
	}
	done, err := s.completedIDs(ctx, userID, dates)
	if err != nil {
		return nil, err
	}

	out := make([]planner.DayPlan, len(week))
	for i, d := range week {
		out[i] = planner.ApplyCompletions(d, done)
	}
	return out, nil
}

// weekPlanKey строит ключ кеша недели. Ошибка чтения версии не фатальна: берётся "0".
func (s *StudyService) weekPlanKey(ctx context.Context, userID uint, now time.Time, sn *snapshot, phase planner.ExamPhase) string {
	version, err := s.cacheRepo.Get(ctx, fmt.Sprintf(cacheVersionKeyFmt, userID))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.log.Warn("cache version read failed", "user_id", userID, "error", err)
		}
		version = "0"
	}
	return fmt.Sprintf(weekPlanKeyFmt, userID, version, now.Format(planner.DateLayout), planInputHash(sn.topics, sn.profile.DailyStudyHours, phase))
}

// planInputHash: FNV-1a от входа генератора недели
func planInputHash(topics []planner.TopicInsight, hours float64, phase planner.ExamPhase) uint64 {
	h := fnv.New64a()
	_ = json.NewEncoder(h).Encode(topics)
	h.Write([]byte(strconv.FormatFloat(hours, 'f', -1, 64)))
	h.Write([]byte(phase))
	return h.Sum64()
}

// invalidatePlans увеличивает версию данных ученика; старые ключи недели истекают по TTL
func (s *StudyService) invalidatePlans(ctx context.Context, userID uint) {
	if _, err := s.cacheRepo.Increment(ctx, fmt.Sprintf(cacheVersionKeyFmt, userID)); err != nil {
		s.log.Warn("week plan cache invalidation failed", "user_id", userID, "error", err)
	}
}

// QuickReplan перестраивает план дня под доступные минуты
func (s *StudyService) QuickReplan(ctx context.Context, userID uint, date time.Time, minutes int, now time.Time) (planner.DayPlan, error) {
	if minutes <= 0 || minutes > maxReplanMinutes {
		return planner.DayPlan{}, fmt.Errorf("%w: available minutes must be in 1..%d, got %d", apperrors.ErrValidation, maxReplanMinutes, minutes)
	}

	now = s.local(now)
	sn, err := s.loadSnapshot(ctx, userID, now)
	if err != nil {
		return planner.DayPlan{}, err
	}

	plan := planner.QuickReplan(sn.topics, minutes, sn.phase(s.cfg.DefaultDaysToExam), date, now)
	s.metrics.PlansGenerated.WithLabelValues("replan").Inc()

	done, err := s.completedIDs(ctx, userID, []string{plan.Date})
	if err != nil {
		return planner.DayPlan{}, err
	}
	return planner.ApplyCompletions(plan, done), nil
}

// ToggleResult: итог переключения задачи
type ToggleResult struct {
	TaskID    string            `json:"taskId"`
	Completed bool              `json:"completed"`
	XPDelta   int               `json:"xpDelta"`
	Plan      planner.DayPlan   `json:"plan"`
	Level     planner.LevelInfo `json:"level"`
}

// ToggleTask переключает статус задачи pending ↔ completed и начисляет/снимает её XP.
// Отметить можно только задачу из плана на эту дату. Снять отметку можно и тогда,
// когда задача выпала из плана после пересчёта тем.
func (s *StudyService) ToggleTask(ctx context.Context, userID uint, date time.Time, taskID string, now time.Time) (*ToggleResult, error) {
	now = s.local(now)
	sn, err := s.loadSnapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	plan := planner.GenerateDayPlan(sn.topics, sn.profile.DailyStudyHours, sn.phase(s.cfg.DefaultDaysToExam), date, now)
	notFound := fmt.Errorf("%w: task %s is not in the plan for %s", apperrors.ErrNotFound, taskID, plan.Date)
	if !strings.HasPrefix(taskID, plan.Date+"_") {
		return nil, notFound
	}

	var task *planner.PlannerTask
	for i := range plan.Tasks {
		if plan.Tasks[i].ID == taskID {
			task = &plan.Tasks[i]
			break
		}
	}

	result := &ToggleResult{TaskID: taskID}

	removed, err := s.completionRepo.Delete(ctx, userID, taskID)
	switch {
	case err == nil:
		result.XPDelta = -removed.XPAwarded
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("delete completion: %w", err)
	case task == nil:
		return nil, notFound
	default:
		if !sn.persisted {
			if err := s.profileRepo.Create(ctx, sn.profile); err != nil {
				return nil, fmt.Errorf("create profile: %w", err)
			}
		}
		completion := &entity.TaskCompletion{
			UserID:      userID,
			PlanDate:    plan.Date,
			TaskID:      taskID,
			XPAwarded:   task.XPReward,
			CompletedAt: now,
		}
		if err := s.completionRepo.Create(ctx, completion); err != nil {
			if !errors.Is(err, apperrors.ErrConflict) {
				return nil, fmt.Errorf("create completion: %w", err)
			}
			// Параллельный запрос уже отметил задачу
			s.log.Info("task already completed concurrently", "user_id", userID, "task_id", taskID)
		} else {
			result.XPDelta = task.XPReward
		}
		result.Completed = true
	}

	if result.XPDelta != 0 {
		if err := s.profileRepo.AddPoints(ctx, userID, result.XPDelta); err != nil {
			return nil, fmt.Errorf("add points: %w", err)
		}
	}

	state := "pending"
	if result.Completed {
		state = "completed"
	}
	s.metrics.TasksToggled.WithLabelValues(state).Inc()
	s.log.Info("task toggled", "user_id", userID, "task_id", taskID, "completed", result.Completed, "xp_delta", result.XPDelta)

	done, err := s.completedIDs(ctx, userID, []string{plan.Date})
	if err != nil {
		return nil, err
	}
	result.Plan = planner.ApplyCompletions(plan, done)
	result.Level = planner.GetLevelInfo(max(0, sn.profile.TotalPoints+result.XPDelta))
	return result, nil
}

// ============================================================================
// Аналитика
// ============================================================================

// BrainScore считает композитную оценку готовности
func (s *StudyService) BrainScore(ctx context.Context, userID uint, now time.Time) (planner.BrainScore, error) {
	sn, err := s.loadSnapshot(ctx, userID, now)
	if err != nil {
		return planner.BrainScore{}, err
	}
	return planner.CalculateBrainScore(sn.topics, brainInput(sn), s.rnd()), nil
}

// RankPrediction прогнозирует ранг. Пустой examID: целевой экзамен из профиля.
func (s *StudyService) RankPrediction(ctx context.Context, userID uint, examID string, now time.Time) (planner.RankPrediction, error) {
	examID = strings.TrimSpace(examID)
	if examID != "" {
		if _, ok := planner.ExamConfigFor(examID); !ok {
			return planner.RankPrediction{}, fmt.Errorf("%w: unsupported exam %q", apperrors.ErrValidation, examID)
		}
	}

	sn, err := s.loadSnapshot(ctx, userID, now)
	if err != nil {
		return planner.RankPrediction{}, err
	}
	if examID == "" {
		examID = sn.profile.TargetExam
	}
	return planner.PredictRank(sn.topics, examID), nil
}

// SubjectBreakdowns: сводка по предметам от слабого к сильному
func (s *StudyService) SubjectBreakdowns(ctx context.Context, userID uint, now time.Time) ([]planner.SubjectBreakdown, error) {
	sn, err := s.loadSnapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return planner.GetSubjectBreakdowns(sn.topics), nil
}

// ChapterPriorities: главы по убыванию срочности
func (s *StudyService) ChapterPriorities(ctx context.Context, userID uint, now time.Time) ([]planner.ChapterPriority, error) {
	sn, err := s.loadSnapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return planner.GetChapterPriorities(sn.topics), nil
}

// WeeklyWins: победы недели для карточки и дайджеста
func (s *StudyService) WeeklyWins(ctx context.Context, userID uint, now time.Time) ([]planner.WeeklyWin, error) {
	sn, err := s.loadSnapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return weeklyWins(sn), nil
}

func weeklyWins(sn *snapshot) []planner.WeeklyWin {
	return planner.DetectWeeklyWins(sn.topics, planner.WinsInput{
		Streak:         sn.profile.CurrentStreak,
		TotalQuestions: planner.TotalQuestions(sn.topics),
		AvgAccuracy:    planner.AverageAccuracy(sn.topics),
	})
}

// DailyChallenge: челлендж дня, одинаковый для всех учеников
func (s *StudyService) DailyChallenge(now time.Time) planner.DailyChallenge {
	return planner.PickDailyChallenge(s.local(now).Format(planner.DateLayout))
}

// ============================================================================
// Достижения
// ============================================================================

// AchievementsResult: все достижения и разблокированные этим вызовом
type AchievementsResult struct {
	Achievements  []planner.Achievement `json:"achievements"`
	NewlyUnlocked []string              `json:"newlyUnlocked"`
}

// Achievements оценивает достижения и сохраняет новые разблокировки.
// Разблокировка монотонна: однажды полученное достижение не пропадает.
func (s *StudyService) Achievements(ctx context.Context, userID uint, now time.Time) (*AchievementsResult, error) {
	var (
		sn       *snapshot
		unlocked []string
		tasks    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sn, err = s.loadSnapshot(gctx, userID, now)
		return err
	})
	g.Go(func() error {
		var err error
		unlocked, err = s.achievementRepo.ListUnlockedIDs(gctx, userID)
		if err != nil {
			return fmt.Errorf("list unlocked achievements: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tasks, err = s.completionRepo.CountByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("count completions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := planner.AchievementStats{
		Streak:         sn.profile.CurrentStreak,
		TotalQuestions: planner.TotalQuestions(sn.topics),
		Accuracy:       planner.AverageAccuracy(sn.topics),
		Mastered:       planner.MasteredCount(sn.topics),
		Level:          planner.GetLevelInfo(sn.profile.TotalPoints).Level,
		TasksCompleted: int(tasks),
	}
	achievements := planner.ComputeAchievements(stats, unlocked)
	newIDs := planner.NewlyUnlocked(achievements, unlocked)

	if len(newIDs) > 0 {
		if err := s.achievementRepo.Unlock(ctx, userID, newIDs, now); err != nil {
			return nil, fmt.Errorf("unlock achievements: %w", err)
		}
		s.metrics.AchievementsNew.Add(float64(len(newIDs)))
		s.log.Info("achievements unlocked", "user_id", userID, "ids", newIDs)
	}

	return &AchievementsResult{Achievements: achievements, NewlyUnlocked: newIDs}, nil
}

// ============================================================================
// Запись результатов и профиль
// ============================================================================

// PracticeInput: результат одного подхода к теме
type PracticeInput struct {
	Subject   string    `json:"subject"`
	Chapter   string    `json:"chapter"`
	Topic     string    `json:"topic"`
	Questions int       `json:"questions"`
	Correct   int       `json:"correct"`
	At        time.Time `json:"at"`
}

func (in PracticeInput) validate() error {
	switch {
	case strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Topic) == "":
		return fmt.Errorf("%w: subject and topic are required", apperrors.ErrValidation)
	case in.Questions <= 0:
		return fmt.Errorf("%w: questions must be positive", apperrors.ErrValidation)
	case in.Correct < 0 || in.Correct > in.Questions:
		return fmt.Errorf("%w: correct must be in 0..%d", apperrors.ErrValidation, in.Questions)
	}
	return nil
}

// RecordPractice добавляет подход к статистике темы, продлевает серию
// и сбрасывает кеш недельных планов ученика.
func (s *StudyService) RecordPractice(ctx context.Context, userID uint, in PracticeInput) (*entity.TopicPerformance, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	in.Subject = strings.TrimSpace(in.Subject)
	in.Topic = strings.TrimSpace(in.Topic)
	in.Chapter = strings.TrimSpace(in.Chapter)
	in.At = s.local(in.At)

	perf, err := s.savePractice(ctx, userID, in)
	if errors.Is(err, apperrors.ErrConflict) {
		// Тему одновременно создал другой запрос: перечитываем и применяем поверх
		s.log.Info("performance row created concurrently, retrying", "user_id", userID, "topic", in.Topic)
		perf, err = s.savePractice(ctx, userID, in)
	}
	if err != nil {
		return nil, err
	}

	profile, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.TouchActivity(in.At)
	if err := s.profileRepo.UpdateStreak(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile streak: %w", err)
	}

	s.invalidatePlans(ctx, userID)
	return perf, nil
}

func (s *StudyService) savePractice(ctx context.Context, userID uint, in PracticeInput) (*entity.TopicPerformance, error) {
	perf, err := s.perfRepo.GetByTopic(ctx, userID, in.Subject, in.Topic)
	if errors.Is(err, apperrors.ErrNotFound) {
		perf = &entity.TopicPerformance{UserID: userID, Subject: in.Subject, Chapter: in.Chapter, Topic: in.Topic}
	} else if err != nil {
		return nil, fmt.Errorf("get performance row: %w", err)
	}
	if in.Chapter != "" {
		perf.Chapter = in.Chapter
	}

	perf.RecordAttempt(in.Questions, in.Correct, in.At)
	if err := s.perfRepo.Save(ctx, perf); err != nil {
		return nil, err
	}
	return perf, nil
}

// ProfileUpdate: частичное обновление профиля; nil-поля не меняются
type ProfileUpdate struct {
	Name            *string    `json:"name"`
	Email           *string    `json:"email"`
	TargetExam      *string    `json:"target_exam"`
	ExamDate        *time.Time `json:"exam_date"`
	DailyStudyHours *float64   `json:"daily_study_hours"`
}

// Profile возвращает профиль (или профиль по умолчанию, если он ещё не создан)
func (s *StudyService) Profile(ctx context.Context, userID uint) (*entity.StudentProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return s.defaultProfile(userID), nil
	}
	return profile, err
}

// UpdateProfile проверяет границы и сохраняет профиль
func (s *StudyService) UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) (*entity.StudentProfile, error) {
	if upd.DailyStudyHours != nil {
		h := *upd.DailyStudyHours
		if h < s.cfg.MinDailyHours || h > s.cfg.MaxDailyHours {
			return nil, fmt.Errorf("%w: daily_study_hours must be in [%.1f, %.1f], got %.2f",
				apperrors.ErrValidation, s.cfg.MinDailyHours, s.cfg.MaxDailyHours, h)
		}
	}
	if upd.TargetExam != nil {
		if _, ok := planner.ExamConfigFor(*upd.TargetExam); !ok {
			return nil, fmt.Errorf("%w: unsupported exam %q (supported: %s)",
				apperrors.ErrValidation, *upd.TargetExam, strings.Join(planner.ExamIDs(), ", "))
		}
	}

	profile, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		profile.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		profile.Email = strings.TrimSpace(*upd.Email)
	}
	if upd.TargetExam != nil {
		profile.TargetExam = *upd.TargetExam
	}
	if upd.ExamDate != nil {
		profile.ExamDate = upd.ExamDate
	}
	if upd.DailyStudyHours != nil {
		profile.DailyStudyHours = *upd.DailyStudyHours
	}

	if err := s.profileRepo.UpdateSettings(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.invalidatePlans(ctx, userID)
	return profile, nil
}
