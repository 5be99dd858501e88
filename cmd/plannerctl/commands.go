package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/studyplan-api/internal/config"
	"github.com/yourusername/studyplan-api/internal/handler/dto"
	"github.com/yourusername/studyplan-api/internal/pkg/logger"
	"github.com/yourusername/studyplan-api/internal/service/planner"
	"github.com/yourusername/studyplan-api/pkg/database"
)

// --- plannerctl ---

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Run the study-plan engine offline and manage the schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.HiddenDefaultCmd = true

	root.PersistentFlags().String("rows", "", "JSON file with performance rows (required for engine commands)")
	root.PersistentFlags().String("today", "", "Reference date YYYY-MM-DD (default: today in --tz)")
	root.PersistentFlags().String("tz", "UTC", "IANA timezone of the student, e.g. Asia/Kolkata")

	root.AddCommand(newWeekCmd(), newScoreCmd(), newRankCmd(), newMigrateCmd())
	return root
}

// --- plannerctl week ---

func newWeekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print a 7-day plan starting at --today",
		RunE:  runWeek,
	}
	cmd.Flags().Float64("hours", 6, "Daily study hours")
	cmd.Flags().Int("days-to-exam", 180, "Days left until the exam")
	cmd.Flags().String("format", "json", "Output format: json or csv")
	return cmd
}

func runWeek(cmd *cobra.Command, args []string) error {
	hours, _ := cmd.Flags().GetFloat64("hours")
	days, _ := cmd.Flags().GetInt("days-to-exam")
	format, _ := cmd.Flags().GetString("format")

	topics, today, err := loadTopics(cmd)
	if err != nil {
		return err
	}
	if hours < 0 {
		return fmt.Errorf("--hours must not be negative")
	}

	week := planner.GenerateWeekPlan(topics, hours, planner.DetectPhase(days), today)

	switch format {
	case "json":
		return writeJSON(cmd.OutOrStdout(), week)
	case "csv":
		return dto.WriteWeekPlanCSV(cmd.OutOrStdout(), week)
	default:
		return fmt.Errorf("unknown --format %q (json or csv)", format)
	}
}

// --- plannerctl score ---

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the brain score (deterministic, without weekly variance)",
		RunE:  runScore,
	}
	cmd.Flags().Int("streak", 0, "Current study streak in days")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	streak, _ := cmd.Flags().GetInt("streak")

	topics, _, err := loadTopics(cmd)
	if err != nil {
		return err
	}

	score := planner.CalculateBrainScore(topics, planner.BrainScoreInput{
		Streak:         streak,
		AvgAccuracy:    planner.AverageAccuracy(topics),
		TotalQuestions: planner.TotalQuestions(topics),
	}, nil)
	return writeJSON(cmd.OutOrStdout(), score)
}

// --- plannerctl rank ---

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Predict the exam rank",
		RunE:  runRank,
	}
	cmd.Flags().String("exam", planner.DefaultExamID, "Exam id")
	return cmd
}

func runRank(cmd *cobra.Command, args []string) error {
	examID, _ := cmd.Flags().GetString("exam")
	if _, ok := planner.ExamConfigFor(examID); !ok {
		return fmt.Errorf("unknown exam %q (supported: %v)", examID, planner.ExamIDs())
	}

	topics, _, err := loadTopics(cmd)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), planner.PredictRank(topics, examID))
}

// --- plannerctl migrate force ---

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Schema migration helpers",
	}

	forceCmd := &cobra.Command{
		Use:   "force <version>",
		Short: "Force the schema version and clear the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE:  runMigrateForce,
	}
	forceCmd.Flags().String("config", "config/config.yaml", "Config file (env vars override it)")

	migrateCmd.AddCommand(forceCmd)
	return migrateCmd
}

func runMigrateForce(cmd *cobra.Command, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil || version < 0 {
		return fmt.Errorf("invalid version %q", args[0])
	}
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := database.ForceMigration(cfg.Database.PostgresURL(), cfg.Database.MigrationsDir, version, log); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version forced to %d\n", version)
	return nil
}

// --- helpers ---

// loadTopics читает --rows и анализирует темы относительно --today
func loadTopics(cmd *cobra.Command) ([]planner.TopicInsight, time.Time, error) {
	path, _ := cmd.Flags().GetString("rows")
	todayFlag, _ := cmd.Flags().GetString("today")
	tz, _ := cmd.Flags().GetString("tz")

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("invalid --tz %q: %w", tz, err)
	}
	today := time.Now().In(loc)
	if todayFlag != "" {
		d, err := time.ParseInLocation(planner.DateLayout, todayFlag, loc)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("invalid --today %q: %w", todayFlag, err)
		}
		today = d
	}

	if path == "" {
		return nil, today, fmt.Errorf("--rows is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, today, fmt.Errorf("reading rows: %w", err)
	}
	var rows []planner.PerformanceRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, today, fmt.Errorf("parsing rows %s: %w", path, err)
	}
	return planner.AnalyzeTopics(rows, today), today, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
