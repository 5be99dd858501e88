package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yourusername/studyplan-api/internal/domain/repository"
	apperrors "github.com/yourusername/studyplan-api/internal/pkg/errors"
	"github.com/yourusername/studyplan-api/internal/pkg/logger"
	"github.com/yourusername/studyplan-api/internal/pkg/metrics"
	"github.com/yourusername/studyplan-api/internal/service/planner"
)

const (
	digestKeyFmt = "digest:%d:%d-w%02d"
	digestKeyTTL = 8 * 24 * time.Hour
)

// DigestResult: итог попытки отправки дайджеста
type DigestResult struct {
	Sent   bool                `json:"sent"`
	Reason string              `json:"reason,omitempty"`
	Wins   []planner.WeeklyWin `json:"wins"`
}

// DigestService рассылает еженедельный дайджест побед. Не больше одного
// письма на ученика за ISO-неделю: повтор отсекается через SETNX в Redis.
type DigestService struct {
	study     *StudyService
	cacheRepo repository.CacheRepository
	sender    EmailSender
	metrics   *metrics.Metrics
	log       *logger.Logger
}

// NewDigestService создает сервис дайджестов
func NewDigestService(study *StudyService, cacheRepo repository.CacheRepository, sender EmailSender, m *metrics.Metrics, log *logger.Logger) *DigestService {
	return &DigestService{
		study:     study,
		cacheRepo: cacheRepo,
		sender:    sender,
		metrics:   m,
		log:       log.Component("DigestService"),
	}
}

// SendWeeklyDigest собирает победы недели и отправляет их письмом
func (s *DigestService) SendWeeklyDigest(ctx context.Context, userID uint, now time.Time) (*DigestResult, error) {
	profile, err := s.study.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if strings.TrimSpace(profile.Email) == "" {
		return nil, fmt.Errorf("%w: profile has no email", apperrors.ErrValidation)
	}

	wins, err := s.study.WeeklyWins(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if len(wins) == 0 {
		s.metrics.DigestsSent.WithLabelValues("skipped").Inc()
		return &DigestResult{Reason: "no wins this week", Wins: wins}, nil
	}

	year, week := now.ISOWeek()
	key := fmt.Sprintf(digestKeyFmt, userID, year, week)
	acquired, err := s.cacheRepo.SetNX(ctx, key, now.Unix(), digestKeyTTL)
	if err != nil {
		return nil, fmt.Errorf("digest dedupe: %w", err)
	}
	if !acquired {
		s.metrics.DigestsSent.WithLabelValues("skipped").Inc()
		return &DigestResult{Reason: "already sent this week", Wins: wins}, nil
	}

	msg := renderDigest(profile.Name, profile.Email, wins)
	msg.IdempotencyKey = key
	if err := s.sender.Send(ctx, msg); err != nil {
		// Снимаем отметку, чтобы следующая попытка могла отправить письмо
		if delErr := s.cacheRepo.Delete(ctx, key); delErr != nil {
			s.log.Warn("failed to release digest key", "key", key, "error", delErr)
		}
		s.metrics.DigestsSent.WithLabelValues("failed").Inc()
		s.log.Error("digest send failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("send digest: %w", err)
	}

	s.metrics.DigestsSent.WithLabelValues("sent").Inc()
	s.log.Info("digest sent", "user_id", userID, "wins", len(wins))
	return &DigestResult{Sent: true, Wins: wins}, nil
}

func renderDigest(name, email string, wins []planner.WeeklyWin) EmailMessage {
	greeting := "Hi"
	if n := strings.TrimSpace(name); n != "" {
		greeting = "Hi " + n
	}

	var text, body strings.Builder
	fmt.Fprintf(&text, "%s,\n\nHere is what you achieved this week:\n\n", greeting)
	fmt.Fprintf(&body, "<p>%s,</p><p>Here is what you achieved this week:</p><ul>", html.EscapeString(greeting))
	for _, w := range wins {
		fmt.Fprintf(&text, "%s %s: %s\n", w.Icon, w.Title, w.Description)
		fmt.Fprintf(&body, "<li>%s <strong>%s</strong>: %s</li>",
			html.EscapeString(w.Icon), html.EscapeString(w.Title), html.EscapeString(w.Description))
	}
	text.WriteString("\nKeep the streak going!\n")
	body.WriteString("</ul><p>Keep the streak going!</p>")

	return EmailMessage{
		To:      email,
		Subject: fmt.Sprintf("Your weekly wins: %d highlights", len(wins)),
		Text:    text.String(),
		HTML:    body.String(),
	}
}
