package milestone

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.xrstf.de/project_grader/pkg/client"
	"go.xrstf.de/project_grader/pkg/course"
	"go.xrstf.de/project_grader/pkg/github"
)

// fakeTracker keeps milestones in memory between calls, like GitHub does.
type fakeTracker struct {
	milestones []github.Milestone
	pageSize   int
	listErr    error
	stuck      string
	createErr  error

	listCalls   int
	createCalls int
	created     []github.NewMilestone
}

func (f *fakeTracker) ListMilestones(owner string, name string, states []githubv4.MilestoneState, cursor string) ([]github.Milestone, string, error) {
	f.listCalls++

	if f.listErr != nil {
		return nil, "", f.listErr
	}

	if f.stuck != "" {
		return append([]github.Milestone{}, f.milestones...), f.stuck, nil
	}

	if f.pageSize == 0 {
		return append([]github.Milestone{}, f.milestones...), "", nil
	}

	start := 0
	if cursor != "" {
		fmt.Sscanf(cursor, "%d", &start)
	}

	end := start + f.pageSize
	next := fmt.Sprintf("%d", end)
	if end >= len(f.milestones) {
		end = len(f.milestones)
		next = ""
	}

	return append([]github.Milestone{}, f.milestones[start:end]...), next, nil
}

func (f *fakeTracker) CreateMilestone(owner string, name string, milestone github.NewMilestone) (*github.Milestone, error) {
	f.createCalls++
	f.created = append(f.created, milestone)

	if f.createErr != nil {
		return nil, f.createErr
	}

	m := github.Milestone{
		Number:      len(f.milestones) + 1,
		Title:       milestone.Title,
		Description: milestone.Description,
		State:       milestone.State,
	}
	f.milestones = append(f.milestones, m)

	return &m, nil
}

func newTestEnsurer(tracker Tracker, c *course.Course) *Ensurer {
	log := logrus.New()
	log.SetOutput(io.Discard)

	if c == nil {
		c = course.Default()
	}

	return NewEnsurer(tracker, c, github.NewRepository("owner", "repo"), log)
}

func TestEnsureCreatesOnce(t *testing.T) {
	tracker := &fakeTracker{
		milestones: []github.Milestone{
			{Number: 1, Title: "Project 1", State: githubv4.MilestoneStateClosed},
		},
	}
	ensurer := newTestEnsurer(tracker, nil)

	first, err := ensurer.Ensure(2)
	require.NoError(t, err)

	second, err := ensurer.Ensure(2)
	require.NoError(t, err)

	assert.Equal(t, first.Number, second.Number)
	assert.Equal(t, 1, tracker.createCalls)
	assert.Equal(t, 2, tracker.listCalls)

	require.Len(t, tracker.created, 1)
	assert.Equal(t, github.NewMilestone{
		Title:       "Project 2",
		State:       githubv4.MilestoneStateOpen,
		Description: "Project 2 Partial Search",
	}, tracker.created[0])
}

func TestEnsureReturnsExistingMilestone(t *testing.T) {
	tracker := &fakeTracker{
		milestones: []github.Milestone{
			{Number: 4, Title: "project 3"},
			{Number: 5, Title: "Project 3 "},
			{Number: 6, Title: "Project 3", State: githubv4.MilestoneStateClosed},
		},
	}

	found, err := newTestEnsurer(tracker, nil).Ensure(3)
	require.NoError(t, err)

	assert.Equal(t, 6, found.Number)
	assert.Equal(t, 0, tracker.createCalls)
}

func TestEnsureFollowsPages(t *testing.T) {
	tracker := &fakeTracker{pageSize: 2}
	for i := 1; i <= 5; i++ {
		tracker.milestones = append(tracker.milestones, github.Milestone{Number: i, Title: fmt.Sprintf("Sprint %d", i)})
	}
	tracker.milestones = append(tracker.milestones, github.Milestone{Number: 42, Title: "Project 4"})

	found, err := newTestEnsurer(tracker, nil).Ensure(4)
	require.NoError(t, err)

	assert.Equal(t, 42, found.Number)
	assert.Equal(t, 3, tracker.listCalls)
	assert.Equal(t, 0, tracker.createCalls)
}

func TestEnsureStopsOnRepeatedCursor(t *testing.T) {
	tracker := &fakeTracker{
		milestones: []github.Milestone{{Number: 1, Title: "Project 1"}},
		stuck:      "Y3Vyc29yOjE=",
	}

	_, err := newTestEnsurer(tracker, nil).Ensure(2)

	var trackerErr *client.TrackerUnavailableError
	require.True(t, errors.As(err, &trackerErr))
	assert.Equal(t, "list milestones", trackerErr.Operation)
	assert.Equal(t, 2, tracker.listCalls)
	assert.Equal(t, 0, tracker.createCalls)
}

func TestEnsureListingFailure(t *testing.T) {
	tracker := &fakeTracker{listErr: errors.New("connection reset by peer")}

	_, err := newTestEnsurer(tracker, nil).Ensure(1)

	var trackerErr *client.TrackerUnavailableError
	require.True(t, errors.As(err, &trackerErr))
	assert.Equal(t, "list milestones", trackerErr.Operation)
	assert.Equal(t, 0, tracker.createCalls)
}

func TestEnsureCreationFailure(t *testing.T) {
	tracker := &fakeTracker{
		createErr: &client.TrackerUnavailableError{
			Operation:  "create Project 1 milestone",
			StatusCode: 422,
			Response:   `{"message":"Validation Failed"}`,
		},
	}

	_, err := newTestEnsurer(tracker, nil).Ensure(1)

	var trackerErr *client.TrackerUnavailableError
	require.True(t, errors.As(err, &trackerErr))
	assert.Equal(t, 422, trackerErr.StatusCode)
	assert.Equal(t, 1, tracker.createCalls)
}

func TestEnsureWrapsUntypedCreationFailure(t *testing.T) {
	tracker := &fakeTracker{createErr: errors.New("timeout")}

	_, err := newTestEnsurer(tracker, nil).Ensure(1)

	var trackerErr *client.TrackerUnavailableError
	require.True(t, errors.As(err, &trackerErr))
	assert.Equal(t, "create Project 1 milestone", trackerErr.Operation)
}

func TestEnsureRequiresProjectName(t *testing.T) {
	c, err := course.New(course.Config{Projects: map[int]string{1: "Inverted Index"}})
	require.NoError(t, err)

	tracker := &fakeTracker{}

	_, err = newTestEnsurer(tracker, c).Ensure(2)

	var cfgErr *course.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 0, tracker.createCalls)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Project 3", Title(3))
}
