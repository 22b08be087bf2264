package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	gradeLabels = []string{"repo", "release", "project", "type"}

	gradeValue = prometheus.NewDesc(
		"project_grader_grade",
		"Grade earned by a release before deductions",
		gradeLabels,
		nil,
	)

	gradeLateWeeks = prometheus.NewDesc(
		"project_grader_late_weeks",
		"Number of started weeks the release was created after the deadline",
		gradeLabels,
		nil,
	)

	releaseCreatedAt = prometheus.NewDesc(
		"project_grader_release_created_at",
		"UNIX timestamp of the release's creation time",
		gradeLabels,
		nil,
	)

	deadlineAt = prometheus.NewDesc(
		"project_grader_deadline",
		"UNIX timestamp of the deadline the release was graded against",
		gradeLabels,
		nil,
	)

	milestoneInfo = prometheus.NewDesc(
		"project_grader_milestone_info",
		"Milestone used for the project with the static value 1",
		[]string{"repo", "project", "number", "title", "state"},
		nil,
	)

	githubPointsRemaining = prometheus.NewDesc(
		"project_grader_api_points_remaining",
		"Number of currently remaining GitHub API points",
		nil,
		nil,
	)

	githubRequestsTotal = prometheus.NewDesc(
		"project_grader_api_requests_total",
		"Total number of requests against the GitHub API",
		[]string{"repo"},
		nil,
	)
)
