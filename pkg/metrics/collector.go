// SPDX-FileCopyrightText: 2023 Christoph Mewes
// SPDX-License-Identifier: MIT

package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"go.xrstf.de/project_grader/pkg/dispatch"
	"go.xrstf.de/project_grader/pkg/github"
)

// APIUsage is implemented by the GitHub client.
type APIUsage interface {
	GetRequestCounts() map[string]int
	GetRemainingPoints() int
}

type Collector struct {
	repo    *github.Repository
	outcome *dispatch.Outcome
	usage   APIUsage
}

// NewCollector creates a collector for a single run. usage can be nil if no
// API client was used.
func NewCollector(repo *github.Repository, outcome *dispatch.Outcome, usage APIUsage) *Collector {
	return &Collector{
		repo:    repo,
		outcome: outcome,
		usage:   usage,
	}
}

func (mc *Collector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(mc, ch)
}

func (mc *Collector) Collect(ch chan<- prometheus.Metric) {
	repoName := mc.repo.FullName()

	if mc.outcome != nil {
		mc.collectOutcome(ch, repoName)
	}

	if mc.usage != nil {
		requestCounts := mc.usage.GetRequestCounts()

		ch <- prometheus.MustNewConstMetric(githubRequestsTotal, prometheus.CounterValue, float64(requestCounts[repoName]), repoName)
		ch <- prometheus.MustNewConstMetric(githubPointsRemaining, prometheus.GaugeValue, float64(mc.usage.GetRemainingPoints()))
	}
}

func (mc *Collector) collectOutcome(ch chan<- prometheus.Metric, repoName string) {
	project := strconv.Itoa(mc.outcome.Release.Project)

	if result := mc.outcome.Grade; result != nil {
		labels := []string{
			repoName,
			mc.outcome.Release.Tag,
			project,
			mc.outcome.Type.Key(),
		}

		ch <- prometheus.MustNewConstMetric(gradeValue, prometheus.GaugeValue, float64(result.Grade), labels...)
		ch <- prometheus.MustNewConstMetric(gradeLateWeeks, prometheus.GaugeValue, float64(result.Late), labels...)
		ch <- prometheus.MustNewConstMetric(releaseCreatedAt, prometheus.GaugeValue, float64(result.CreatedAt.Unix()), labels...)
		ch <- prometheus.MustNewConstMetric(deadlineAt, prometheus.GaugeValue, float64(result.DeadlineAt.Unix()), labels...)
	}

	if m := mc.outcome.Milestone; m != nil {
		ch <- prometheus.MustNewConstMetric(milestoneInfo, prometheus.GaugeValue, 1,
			repoName,
			project,
			strconv.Itoa(m.Number),
			m.Title,
			strings.ToLower(string(m.State)),
		)
	}
}

// WriteTextfile renders the collector in the Prometheus text format, ready
// to be picked up by the node exporter's textfile collector or uploaded as
// a build artifact.
func WriteTextfile(filename string, collector prometheus.Collector) error {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collector); err != nil {
		return err
	}

	return prometheus.WriteToTextfile(filename, registry)
}
