package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"go.xrstf.de/project_grader/pkg/actions"
	"go.xrstf.de/project_grader/pkg/client"
	"go.xrstf.de/project_grader/pkg/course"
	"go.xrstf.de/project_grader/pkg/dispatch"
	"go.xrstf.de/project_grader/pkg/github"
	"go.xrstf.de/project_grader/pkg/metrics"
	"go.xrstf.de/project_grader/pkg/milestone"
)

type options struct {
	repository      repositoryFlag
	courseFile      string
	ensureMilestone bool
	metricsFile     string
	timeout         time.Duration
	debugLog        bool
}

func main() {
	opt := options{
		timeout: client.DefaultTimeout,
	}

	flag.Var(&opt.repository, "repo", "repository (owner/name format) to manage milestones in (defaults to $GITHUB_REPOSITORY)")
	flag.StringVar(&opt.courseFile, "config", opt.courseFile, "YAML file with the course's time zone, project names and deadlines (defaults to the built-in course)")
	flag.BoolVar(&opt.ensureMilestone, "ensure-milestone", opt.ensureMilestone, "find or create the project milestone for functionality requests")
	flag.StringVar(&opt.metricsFile, "metrics-file", opt.metricsFile, "write the grade and API usage in Prometheus text format to this file")
	flag.DurationVar(&opt.timeout, "timeout", opt.timeout, "timeout for every single GitHub API request")
	flag.BoolVar(&opt.debugLog, "debug", opt.debugLog, "enable more verbose logging")
	flag.Parse()

	// setup logging; the token must be registered before anything is logged
	log := actions.NewLogger(os.Stdout, actions.IsWorkflow(os.Getenv))

	token := actions.GetInput(os.Getenv, "token")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	log.SetSecret(token)

	if opt.debugLog {
		log.SetLevel(logrus.DebugLevel)
	}

	c := course.Default()
	if opt.courseFile != "" {
		var err error

		c, err = course.LoadFile(opt.courseFile)
		if err != nil {
			log.SetFailed(err.Error())
			os.Exit(1)
		}
	}

	repo := opt.repository.repo
	if repo == nil {
		if value := os.Getenv("GITHUB_REPOSITORY"); value != "" {
			parsed, err := github.ParseRepository(value)
			if err != nil {
				log.SetFailed("Invalid GITHUB_REPOSITORY: " + err.Error())
				os.Exit(1)
			}

			repo = parsed
		}
	}

	var (
		apiClient *client.Client
		ensurer   dispatch.MilestoneEnsurer
	)

	if token != "" {
		var err error

		apiClient, err = client.NewClient(context.Background(), log.WithField("component", "client"), token, client.Options{
			APIURL:     os.Getenv("GITHUB_API_URL"),
			GraphQLURL: os.Getenv("GITHUB_GRAPHQL_URL"),
			Timeout:    opt.timeout,
		})
		if err != nil {
			log.SetFailed("Failed to create API client: " + err.Error())
			os.Exit(1)
		}
	}

	if opt.ensureMilestone {
		if apiClient == nil {
			log.SetFailed("No token input or GITHUB_TOKEN environment variable defined.")
			os.Exit(1)
		}

		if repo == nil {
			log.SetFailed("No -repo defined and GITHUB_REPOSITORY is not set.")
			os.Exit(1)
		}

		ensurer = milestone.NewEnsurer(apiClient, c, repo, log.WithField("component", "milestone"))
	}

	outcome, err := dispatch.NewDispatcher(log, c, ensurer, os.Getenv).Run()
	if err != nil {
		os.Exit(1)
	}

	if opt.metricsFile != "" {
		if repo == nil {
			repo = github.NewRepository("", "")
		}

		var usage metrics.APIUsage
		if apiClient != nil {
			usage = apiClient
		}

		if err := metrics.WriteTextfile(opt.metricsFile, metrics.NewCollector(repo, outcome, usage)); err != nil {
			log.Warnf("Failed to write metrics file: %v", err)
		}
	}
}
