// SPDX-FileCopyrightText: 2023 Christoph Mewes
// SPDX-License-Identifier: MIT

package dispatch

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"go.xrstf.de/project_grader/pkg/actions"
	"go.xrstf.de/project_grader/pkg/course"
	"go.xrstf.de/project_grader/pkg/github"
	"go.xrstf.de/project_grader/pkg/grade"
	"go.xrstf.de/project_grader/pkg/release"
	"go.xrstf.de/project_grader/pkg/state"
)

const failurePrefix = "Unable to request project grade. "

type MilestoneEnsurer interface {
	Ensure(project int) (*github.Milestone, error)
}

type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("the value %q is not a valid project grade type", e.Type)
}

// Outcome is everything a successful run produced.
type Outcome struct {
	State     *state.State
	Release   *release.Release
	Type      course.SubmissionType
	Grade     *grade.Result
	Milestone *github.Milestone
}

type Dispatcher struct {
	log     *actions.Logger
	course  *course.Course
	ensurer MilestoneEnsurer
	getenv  func(string) string
}

// NewDispatcher creates a dispatcher. ensurer may be nil, in which case no
// milestone is looked up or created.
func NewDispatcher(log *actions.Logger, c *course.Course, ensurer MilestoneEnsurer, getenv func(string) string) *Dispatcher {
	return &Dispatcher{
		log:     log,
		course:  c,
		ensurer: ensurer,
		getenv:  getenv,
	}
}

// Run performs a single grade request. Every error is reported to the log
// exactly once, marks the run as failed and is then returned unchanged.
func (d *Dispatcher) Run() (*Outcome, error) {
	outcome, err := d.run()
	if err != nil {
		// show error in group, then once more outside of it
		d.log.ShowError(err.Error() + "\n")
		d.log.EndGroup()
		d.log.SetFailed(failurePrefix + err.Error())

		return nil, err
	}

	return outcome, nil
}

func (d *Dispatcher) run() (*Outcome, error) {
	restored, err := state.Restore(d.getenv)
	if err != nil {
		return nil, err
	}

	rel, err := release.Parse(restored.Release)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		State:   restored,
		Release: rel,
		Type:    course.SubmissionType(restored.Type),
	}

	title := fmt.Sprintf("Project %s %s Grade", restored.Release, restored.Type)
	d.log.Infof("Requesting %s...", title)

	switch outcome.Type {
	case course.Functionality:
		outcome.Grade, err = d.calculateGrade(restored.ReleaseDate, rel.Project, outcome.Type)
		if err != nil {
			return nil, err
		}

		if d.ensurer != nil {
			outcome.Milestone, err = d.ensureMilestone(rel.Project)
			if err != nil {
				return nil, err
			}
		}

	case course.Design:
		d.log.Info("Hello world.")

	default:
		return nil, &UnsupportedTypeError{Type: restored.Type}
	}

	return outcome, nil
}

func (d *Dispatcher) calculateGrade(created string, project int, typ course.SubmissionType) (*grade.Result, error) {
	d.log.StartGroup("Calculating grade...")

	d.log.Infof("Release created: %s", created)

	result, err := grade.Calculate(d.course, created, project, typ)
	if err != nil {
		return nil, err
	}

	d.log.Infof("Parsed created date: %s", result.Created)
	d.log.Infof("Parsed %s deadline: %s", typ.Key(), result.Deadline)

	if result.OnTime() {
		d.log.Info("Release created before deadline!")
	} else {
		d.log.WithField("days", fmt.Sprintf("%.2f", result.DaysLate)).Infof("Release is within %d week(s) late.", result.Late)
	}

	d.log.Infof("Project %d %s earned a %d grade (before deductions).", project, typ.Key(), result.Grade)

	encoded, err := result.JSON()
	if err != nil {
		return nil, err
	}
	d.log.Info(encoded)

	d.log.EndGroup()

	return result, nil
}

func (d *Dispatcher) ensureMilestone(project int) (*github.Milestone, error) {
	d.log.StartGroup("Ensuring milestone...")

	m, err := d.ensurer.Ensure(project)
	if err != nil {
		return nil, err
	}

	d.log.WithFields(logrus.Fields{
		"number": m.Number,
		"state":  m.State,
	}).Infof("Using %s milestone.", m.Title)

	d.log.EndGroup()

	return m, nil
}
