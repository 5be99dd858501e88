package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/studyplan-api/internal/service/planner"
)

const rowsJSON = `[
  {"subject": "Physics", "chapter": "Mechanics", "topic": "Kinematics", "accuracy": 35, "questions_attempted": 20, "last_practiced": "2024-12-20T10:00:00Z"},
  {"subject": "Physics", "chapter": "Optics", "topic": "Lenses", "accuracy": 72, "questions_attempted": 12, "last_practiced": "2025-01-04T10:00:00Z"},
  {"subject": "Chemistry", "chapter": "Organic", "topic": "Alkanes", "accuracy": 93, "questions_attempted": 40, "last_practiced": "2025-01-05T10:00:00Z"},
  {"subject": "Mathematics", "topic": "Limits"}
]`

func writeRows(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(rowsJSON), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWeekCommand_JSON(t *testing.T) {
	out, err := execute(t, "week", "--rows", writeRows(t), "--today", "2025-01-06", "--hours", "4", "--days-to-exam", "90")
	require.NoError(t, err)

	var week []planner.DayPlan
	require.NoError(t, json.Unmarshal([]byte(out), &week))
	require.Len(t, week, 7)
	assert.Equal(t, "2025-01-06", week[0].Date)
	assert.True(t, week[0].IsToday)
	assert.Equal(t, "2025-01-12", week[6].Date)
	assert.True(t, week[6].IsRestDay, "воскресенье: день отдыха")
	for _, day := range week {
		assert.LessOrEqual(t, day.TotalMinutes, 4*60+planner.MaxTaskMinutes, day.Date)
	}
}

func TestWeekCommand_Timezone(t *testing.T) {
	out, err := execute(t, "week", "--rows", writeRows(t), "--today", "2025-01-12", "--tz", "Asia/Kolkata")
	require.NoError(t, err)

	var week []planner.DayPlan
	require.NoError(t, json.Unmarshal([]byte(out), &week))
	assert.Equal(t, "2025-01-12", week[0].Date)
	assert.True(t, week[0].IsRestDay)
}

func TestWeekCommand_CSV(t *testing.T) {
	out, err := execute(t, "week", "--rows", writeRows(t), "--today", "2025-01-06", "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBFDate,Day,Slot"))
	assert.Contains(t, out, "2025-01-06,Monday,")
}

func TestScoreCommand_IsDeterministic(t *testing.T) {
	rowsPath := writeRows(t)
	first, err := execute(t, "score", "--rows", rowsPath, "--today", "2025-01-06", "--streak", "4")
	require.NoError(t, err)
	second, err := execute(t, "score", "--rows", rowsPath, "--today", "2025-01-06", "--streak", "4")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var score planner.BrainScore
	require.NoError(t, json.Unmarshal([]byte(first), &score))
	assert.Equal(t, 0, score.WeeklyDelta)
	assert.GreaterOrEqual(t, score.Overall, 0)
	assert.LessOrEqual(t, score.Overall, 100)
}

func TestRankCommand(t *testing.T) {
	rowsPath := writeRows(t)

	out, err := execute(t, "rank", "--rows", rowsPath, "--today", "2025-01-06", "--exam", "neet")
	require.NoError(t, err)

	var rows []planner.PerformanceRow
	require.NoError(t, json.Unmarshal([]byte(rowsJSON), &rows))
	today := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	expected := planner.PredictRank(planner.AnalyzeTopics(rows, today), "neet")

	var got planner.RankPrediction
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, expected, got)

	_, err = execute(t, "rank", "--rows", rowsPath, "--exam", "sat")
	assert.ErrorContains(t, err, "unknown exam")
}

func TestEngineCommands_InputErrors(t *testing.T) {
	_, err := execute(t, "week")
	assert.ErrorContains(t, err, "--rows is required")

	_, err = execute(t, "score", "--rows", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "reading rows")

	_, err = execute(t, "week", "--rows", writeRows(t), "--today", "06.01.2025")
	assert.ErrorContains(t, err, "invalid --today")

	_, err = execute(t, "week", "--rows", writeRows(t), "--format", "pdf")
	assert.ErrorContains(t, err, "unknown --format")

	_, err = execute(t, "week", "--rows", writeRows(t), "--tz", "Mars/Olympus")
	assert.ErrorContains(t, err, "invalid --tz")
}

func TestMigrateForce_RejectsBadVersion(t *testing.T) {
	_, err := execute(t, "migrate", "force", "abc")
	assert.ErrorContains(t, err, "invalid version")

	_, err = execute(t, "migrate", "force")
	assert.Error(t, err)
}
