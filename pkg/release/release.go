// SPDX-FileCopyrightText: 2023 Christoph Mewes
// SPDX-License-Identifier: MIT

package release

import (
	"fmt"
	"regexp"
)

// tagRegex only matches tags for the four graded projects; the major
// version is the project number.
var tagRegex = regexp.MustCompile(`^v([1-4])\.(\d+)\.(\d+)$`)

type Release struct {
	Tag     string
	Project int
	// Minor and Patch are kept as written, they are not bounded in size.
	Minor   string
	Patch   string
}

type ParseError struct {
	Tag string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse project from release %q", e.Tag)
}

func Parse(tag string) (*Release, error) {
	match := tagRegex.FindStringSubmatch(tag)
	if match == nil {
		return nil, &ParseError{Tag: tag}
	}

	// the first group is a single digit in 1..4
	return &Release{
		Tag:     tag,
		Project: int(match[1][0] - '0'),
		Minor:   match[2],
		Patch:   match[3],
	}, nil
}

// ParseProject returns the project number encoded in a release tag.
func ParseProject(tag string) (int, error) {
	r, err := Parse(tag)
	if err != nil {
		return 0, err
	}

	return r.Project, nil
}
