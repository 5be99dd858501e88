package entity

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentProfile_DaysToExam(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	p := &StudentProfile{}
	assert.Equal(t, 180, p.DaysToExam(now, 180), "без даты экзамена используется fallback")

	exam := time.Date(2025, 2, 24, 9, 0, 0, 0, time.UTC)
	p.ExamDate = &exam
	// 44 дня 21 час → 45
	assert.Equal(t, 45, p.DaysToExam(now, 180))

	past := now.AddDate(0, 0, -3)
	p.ExamDate = &past
	assert.Equal(t, 0, p.DaysToExam(now, 180))
}

func TestStudentProfile_TouchActivity(t *testing.T) {
	day1 := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

	p := &StudentProfile{}
	p.TouchActivity(day1)
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 1, p.LongestStreak)

	// Повторная активность в тот же день не меняет серию
	p.TouchActivity(day1.Add(10 * time.Hour))
	assert.Equal(t, 1, p.CurrentStreak)

	p.TouchActivity(day1.AddDate(0, 0, 1))
	p.TouchActivity(day1.AddDate(0, 0, 2))
	assert.Equal(t, 3, p.CurrentStreak)
	assert.Equal(t, 3, p.LongestStreak)

	// Пропуск дня обнуляет текущую серию, рекорд сохраняется
	p.TouchActivity(day1.AddDate(0, 0, 5))
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 3, p.LongestStreak)
	require.NotNil(t, p.LastActiveDate)
	assert.Equal(t, 0, p.LastActiveDate.Hour())
}

func TestStudentProfile_TouchActivity_LocalDay(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 03:00 и 22:00 по IST: один местный день, но разные дни по UTC
	early := time.Date(2025, 1, 6, 3, 0, 0, 0, ist)
	late := time.Date(2025, 1, 6, 22, 0, 0, 0, ist)
	require.NotEqual(t, early.UTC().Day(), late.UTC().Day())

	p := &StudentProfile{}
	p.TouchActivity(early)

	// Из базы дата приходит в UTC
	stored := p.LastActiveDate.UTC()
	p.LastActiveDate = &stored

	p.TouchActivity(late)
	assert.Equal(t, 1, p.CurrentStreak)

	p.TouchActivity(time.Date(2025, 1, 7, 0, 30, 0, 0, ist))
	assert.Equal(t, 2, p.CurrentStreak)
	assert.Equal(t, 7, p.LastActiveDate.Day())
}
