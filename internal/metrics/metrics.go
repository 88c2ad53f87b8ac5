// Package metrics derives the figures shown alongside courses and
// suggestions. Every function is pure.
package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/blackwell-systems/coursecoach/internal/catalog"
)

// HighImpactThreshold is the raw priority score above which a course is
// flagged as high impact.
const HighImpactThreshold = 1_500_000

// priorityDisplayScale divides raw priority scores for display.
const priorityDisplayScale = 100_000

// PriorityScore returns enrollments × potential lift, treating a missing
// lift as 0.
func PriorityScore(c catalog.Course) float64 {
	return float64(c.Enrollments) * c.Lift()
}

// FormatPriority renders a raw priority score scaled by 1/100,000 with one
// decimal place, e.g. 200000 -> "2.0".
func FormatPriority(score float64) string {
	return fmt.Sprintf("%.1f", score/priorityDisplayScale)
}

// IsHighImpact reports whether a raw priority score exceeds
// HighImpactThreshold.
func IsHighImpact(score float64) bool {
	return score > HighImpactThreshold
}

// AverageLift returns the mean potential lift across courses rounded to the
// nearest integer, or 0 for an empty collection.
func AverageLift(courses []catalog.Course) int {
	if len(courses) == 0 {
		return 0
	}
	var sum float64
	for _, c := range courses {
		sum += c.Lift()
	}
	return roundHalfUp(sum / float64(len(courses)))
}

// LearnerReach returns total enrollments in thousands, rounded.
func LearnerReach(courses []catalog.Course) int {
	var total int
	for _, c := range courses {
		total += c.Enrollments
	}
	return roundHalfUp(float64(total) / 1000)
}

// AggregateLift sums the engagement lift of the given suggestions.
func AggregateLift(suggestions []catalog.Suggestion) float64 {
	var sum float64
	for _, s := range suggestions {
		sum += s.EngagementLift
	}
	return sum
}

// ProgressPercent returns accepted/total as a percentage, or 0 when total
// is 0.
func ProgressPercent(accepted, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(accepted) / float64(total) * 100
}

// Summary is the optimization summary shown above the filtered course list.
type Summary struct {
	CoursesPending int `json:"courses_pending"`
	AverageLift    int `json:"average_lift"`
	LearnerReachK  int `json:"learner_reach_k"`
}

// Summarize computes the optimization summary for a course collection.
func Summarize(courses []catalog.Course) Summary {
	return Summary{
		CoursesPending: len(courses),
		AverageLift:    AverageLift(courses),
		LearnerReachK:  LearnerReach(courses),
	}
}

// RankCourses returns a copy of courses sorted by priority score, highest
// first. Courses with equal scores keep their input order.
func RankCourses(courses []catalog.Course) []catalog.Course {
	sorted := make([]catalog.Course, len(courses))
	copy(sorted, courses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return PriorityScore(sorted[i]) > PriorityScore(sorted[j])
	})
	return sorted
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
