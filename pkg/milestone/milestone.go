// SPDX-FileCopyrightText: 2023 Christoph Mewes
// SPDX-License-Identifier: MIT

package milestone

import (
	"errors"
	"fmt"

	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"

	"go.xrstf.de/project_grader/pkg/client"
	"go.xrstf.de/project_grader/pkg/course"
	"go.xrstf.de/project_grader/pkg/github"
)

// Tracker is the part of the GitHub client the Ensurer needs.
type Tracker interface {
	ListMilestones(owner string, name string, states []githubv4.MilestoneState, cursor string) ([]github.Milestone, string, error)
	CreateMilestone(owner string, name string, milestone github.NewMilestone) (*github.Milestone, error)
}

type Ensurer struct {
	tracker Tracker
	course  *course.Course
	repo    *github.Repository
	log     logrus.FieldLogger
}

func NewEnsurer(tracker Tracker, c *course.Course, repo *github.Repository, log logrus.FieldLogger) *Ensurer {
	return &Ensurer{
		tracker: tracker,
		course:  c,
		repo:    repo,
		log:     log,
	}
}

func Title(project int) string {
	return fmt.Sprintf("Project %d", project)
}

// Find lists every milestone of the repository, open or closed, and returns
// the one titled exactly like the project's milestone, or nil. Listing
// errors are never treated as "not found".
func (e *Ensurer) Find(project int) (*github.Milestone, error) {
	title := Title(project)
	cursor := ""
	pages := 0

	for {
		milestones, next, err := e.tracker.ListMilestones(e.repo.Owner, e.repo.Name, nil, cursor)
		if err != nil {
			return nil, asTrackerError("list milestones", err)
		}

		pages++

		for i, m := range milestones {
			if m.Title == title {
				return &milestones[i], nil
			}
		}

		if next == "" {
			break
		}

		// a cursor that does not advance would page forever
		if next == cursor {
			return nil, &client.TrackerUnavailableError{
				Operation: "list milestones",
				Err:       fmt.Errorf("cursor %q did not advance after page %d", next, pages),
			}
		}

		cursor = next
	}

	e.log.WithField("pages", pages).Debugf("No %s milestone found.", title)

	return nil, nil
}

// Ensure returns the project's milestone, creating it if it does not exist
// yet. Listing and creating are not atomic: two runs racing for the same
// project can both end up creating.
func (e *Ensurer) Ensure(project int) (*github.Milestone, error) {
	title := Title(project)

	e.log.Info("Listing milestones...")

	found, err := e.Find(project)
	if err != nil {
		return nil, err
	}

	if found != nil {
		e.log.WithField("number", found.Number).Infof("Found %s milestone.", found.Title)
		return found, nil
	}

	name, err := e.course.ProjectName(project)
	if err != nil {
		return nil, err
	}

	created, err := e.tracker.CreateMilestone(e.repo.Owner, e.repo.Name, github.NewMilestone{
		Title:       title,
		State:       githubv4.MilestoneStateOpen,
		Description: fmt.Sprintf("%s %s", title, name),
	})
	if err != nil {
		var trackerErr *client.TrackerUnavailableError
		if errors.As(err, &trackerErr) && trackerErr.Response != "" {
			e.log.Infof("Result: %s", trackerErr.Response)
		}

		return nil, asTrackerError(fmt.Sprintf("create %s milestone", title), err)
	}

	e.log.WithField("number", created.Number).Infof("Created %s milestone.", created.Title)

	return created, nil
}

func asTrackerError(operation string, err error) error {
	var trackerErr *client.TrackerUnavailableError
	if errors.As(err, &trackerErr) {
		return err
	}

	return &client.TrackerUnavailableError{Operation: operation, Err: err}
}
