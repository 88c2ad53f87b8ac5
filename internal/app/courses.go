package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coursecoach/internal/metrics"
)

var (
	coursesFlagAll  bool
	coursesFlagSort string
	coursesFlagJSON bool
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the courses ready for optimization",
	Long: `List the courses pending optimization with their engagement,
completion, potential lift and priority score (enrollments × lift, shown in
units of 100,000). Courses whose score exceeds 1,500,000 are flagged as high
impact.`,
	RunE: runCourses,
}

func init() {
	coursesCmd.Flags().BoolVar(&coursesFlagAll, "all", false, "List every course instead of the filtered set")
	coursesCmd.Flags().StringVar(&coursesFlagSort, "sort", "fixture", "Sort by: fixture, priority")
	coursesCmd.Flags().BoolVar(&coursesFlagJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(coursesCmd)
}

func runCourses(cmd *cobra.Command, args []string) error {
	if coursesFlagSort != "fixture" && coursesFlagSort != "priority" {
		return fmt.Errorf("invalid --sort %q: want fixture or priority", coursesFlagSort)
	}
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	courses, title := e.set.Courses.Filtered, "Courses Ready for Optimization"
	if coursesFlagAll {
		courses, title = e.set.Courses.All, "All Courses"
	}
	if coursesFlagSort == "priority" {
		courses = metrics.RankCourses(courses)
	}

	w := cmd.OutOrStdout()
	if coursesFlagJSON || flagJSON {
		return writeJSON(w, toCourseRows(courses))
	}
	renderCourses(w, title, courses)
	return nil
}
