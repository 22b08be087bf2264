// SPDX-FileCopyrightText: 2023 Christoph Mewes
// SPDX-License-Identifier: MIT

package github

import (
	"time"

	"github.com/shurcooL/githubv4"
)

type Milestone struct {
	Number       int
	Title        string
	Description  string
	State        githubv4.MilestoneState
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ClosedAt     *time.Time
	DueOn        *time.Time
	FetchedAt    time.Time
	OpenIssues   int
	ClosedIssues int
}

func (m *Milestone) IsOpen() bool {
	return m.State == githubv4.MilestoneStateOpen
}

// NewMilestone holds the fields sent when creating a milestone.
type NewMilestone struct {
	Title       string
	State       githubv4.MilestoneState
	Description string
}
