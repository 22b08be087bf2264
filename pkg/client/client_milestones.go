package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"

	"go.xrstf.de/project_grader/pkg/github"
)

type graphqlMilestone struct {
	Number      int
	Title       string
	Description string
	State       githubv4.MilestoneState
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
	DueOn       *time.Time

	OpenIssues struct {
		TotalCount int
	} `graphql:"openIssues: issues(states: OPEN)"`

	ClosedIssues struct {
		TotalCount int
	} `graphql:"closedIssues: issues(states: CLOSED)"`
}

func (c *Client) convertMilestone(api graphqlMilestone, fetchedAt time.Time) github.Milestone {
	return github.Milestone{
		Number:       api.Number,
		Title:        api.Title,
		Description:  api.Description,
		State:        api.State,
		CreatedAt:    api.CreatedAt,
		UpdatedAt:    api.UpdatedAt,
		ClosedAt:     api.ClosedAt,
		DueOn:        api.DueOn,
		FetchedAt:    fetchedAt,
		OpenIssues:   api.OpenIssues.TotalCount,
		ClosedIssues: api.ClosedIssues.TotalCount,
	}
}

type listMilestonesQuery struct {
	RateLimit  rateLimit
	Repository struct {
		Milestones struct {
			Nodes    []graphqlMilestone
			PageInfo struct {
				EndCursor   githubv4.String
				HasNextPage bool
			}
		} `graphql:"milestones(states: $states, first: 100, orderBy: {field: CREATED_AT, direction: ASC}, after: $cursor)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// ListMilestones returns one page of milestones and the cursor for the next
// page, which is empty if there is none. Passing nil states lists open and
// closed milestones.
func (c *Client) ListMilestones(owner string, name string, states []githubv4.MilestoneState, cursor string) ([]github.Milestone, string, error) {
	if states == nil {
		states = []githubv4.MilestoneState{
			githubv4.MilestoneStateOpen,
			githubv4.MilestoneStateClosed,
		}
	}

	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"states": states,
	}

	if cursor == "" {
		variables["cursor"] = (*githubv4.String)(nil)
	} else {
		variables["cursor"] = githubv4.String(cursor)
	}

	var q listMilestonesQuery

	err := c.client.Query(c.ctx, &q, variables)
	c.countRequest(owner, name, q.RateLimit)

	c.log.WithFields(logrus.Fields{
		"owner":  owner,
		"name":   name,
		"cursor": cursor,
		"cost":   q.RateLimit.Cost,
	}).Debugf("ListMilestones()")

	if err != nil {
		return nil, "", &TrackerUnavailableError{
			Operation: "list milestones",
			Err:       err,
		}
	}

	now := time.Now()
	milestones := []github.Milestone{}
	for _, node := range q.Repository.Milestones.Nodes {
		milestones = append(milestones, c.convertMilestone(node, now))
	}

	cursor = ""
	if q.Repository.Milestones.PageInfo.HasNextPage {
		cursor = string(q.Repository.Milestones.PageInfo.EndCursor)
	}

	return milestones, cursor, nil
}

type restMilestoneRequest struct {
	Title       string `json:"title"`
	State       string `json:"state,omitempty"`
	Description string `json:"description,omitempty"`
}

type restMilestone struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	State        string     `json:"state"`
	OpenIssues   int        `json:"open_issues"`
	ClosedIssues int        `json:"closed_issues"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at"`
	DueOn        *time.Time `json:"due_on"`
}

func (c *Client) convertRESTMilestone(api restMilestone, fetchedAt time.Time) github.Milestone {
	return github.Milestone{
		Number:       api.Number,
		Title:        api.Title,
		Description:  api.Description,
		State:        githubv4.MilestoneState(strings.ToUpper(api.State)),
		CreatedAt:    api.CreatedAt,
		UpdatedAt:    api.UpdatedAt,
		ClosedAt:     api.ClosedAt,
		DueOn:        api.DueOn,
		FetchedAt:    fetchedAt,
		OpenIssues:   api.OpenIssues,
		ClosedIssues: api.ClosedIssues,
	}
}

// CreateMilestone creates a new milestone. GitHub's GraphQL API offers no
// mutation for this, so the REST API is used. Any status other than
// 201 Created is returned as a TrackerUnavailableError carrying the raw
// response body.
func (c *Client) CreateMilestone(owner string, name string, milestone github.NewMilestone) (*github.Milestone, error) {
	operation := fmt.Sprintf("create %s milestone", milestone.Title)

	body, err := json.Marshal(restMilestoneRequest{
		Title:       milestone.Title,
		State:       strings.ToLower(string(milestone.State)),
		Description: milestone.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode milestone: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/milestones", c.apiURL, url.PathEscape(owner), url.PathEscape(name))

	req, err := http.NewRequestWithContext(c.ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	c.countRequest(owner, name, rateLimit{})

	if err != nil {
		return nil, &TrackerUnavailableError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"owner":  owner,
		"name":   name,
		"title":  milestone.Title,
		"status": resp.StatusCode,
	}).Debugf("CreateMilestone()")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TrackerUnavailableError{Operation: operation, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, &TrackerUnavailableError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Response:   string(raw),
		}
	}

	var created restMilestone
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, &TrackerUnavailableError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Response:   string(raw),
			Err:        err,
		}
	}

	result := c.convertRESTMilestone(created, time.Now())

	return &result, nil
}
