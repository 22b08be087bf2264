// SPDX-FileCopyrightText: 2023 Christoph Mewes
// SPDX-License-Identifier: MIT

package course

import (
	"fmt"
	"os"
	"strings"
	"time"

	// deadlines must resolve the same way on runners without a zoneinfo database
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeZone = "America/Los_Angeles"

	deadlineLayout = "2006-01-02T15:04:05"
	dateLayout     = "2006-01-02"
)

type SubmissionType string

const (
	Functionality SubmissionType = "Functionality"
	Design        SubmissionType = "Design"
)

// Key is the lowercase form used in the deadline table and as issue label.
func (t SubmissionType) Key() string {
	return strings.ToLower(string(t))
}

// Config is the on-disk representation of a course. Deadlines are keyed by
// lowercase submission type and project number and are given in civil time
// of TimeZone, either as "2006-01-02T15:04:05" or as a plain date, which
// means one second before midnight.
type Config struct {
	TimeZone  string                    `yaml:"timezone"`
	Projects  map[int]string            `yaml:"projects"`
	Deadlines map[string]map[int]string `yaml:"deadlines"`
}

// Course is the validated, read-only form of a Config.
type Course struct {
	location  *time.Location
	names     map[int]string
	deadlines map[string]map[int]time.Time
}

type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Key, e.Reason)
}

func New(cfg Config) (*Course, error) {
	zone := cfg.TimeZone
	if zone == "" {
		zone = DefaultTimeZone
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, &ConfigurationError{Key: "timezone", Reason: err.Error()}
	}

	c := &Course{
		location:  loc,
		names:     map[int]string{},
		deadlines: map[string]map[int]time.Time{},
	}

	for project, name := range cfg.Projects {
		c.names[project] = name
	}

	for typ, projects := range cfg.Deadlines {
		key := strings.ToLower(typ)
		c.deadlines[key] = map[int]time.Time{}

		for project, text := range projects {
			deadline, err := parseDeadline(text, loc)
			if err != nil {
				return nil, &ConfigurationError{
					Key:    fmt.Sprintf("deadlines.%s.%d", key, project),
					Reason: err.Error(),
				}
			}

			c.deadlines[key][project] = deadline
		}
	}

	return c, nil
}

func parseDeadline(text string, loc *time.Location) (time.Time, error) {
	if deadline, err := time.ParseInLocation(deadlineLayout, text, loc); err == nil {
		return deadline, nil
	}

	day, err := time.ParseInLocation(dateLayout, text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither %q nor %q", text, deadlineLayout, dateLayout)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, loc), nil
}

// LoadFile reads a YAML course description.
func LoadFile(path string) (*Course, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read course file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse course file %s: %w", path, err)
	}

	return New(cfg)
}

func (c *Course) Location() *time.Location {
	return c.location
}

func (c *Course) Deadline(typ SubmissionType, project int) (time.Time, error) {
	deadline, ok := c.deadlines[typ.Key()][project]
	if !ok {
		return time.Time{}, &ConfigurationError{
			Key:    fmt.Sprintf("deadlines.%s.%d", typ.Key(), project),
			Reason: fmt.Sprintf("no %s deadline defined for project %d", typ.Key(), project),
		}
	}

	return deadline, nil
}

func (c *Course) ProjectName(project int) (string, error) {
	name, ok := c.names[project]
	if !ok || name == "" {
		return "", &ConfigurationError{
			Key:    fmt.Sprintf("projects.%d", project),
			Reason: fmt.Sprintf("no name defined for project %d", project),
		}
	}

	return name, nil
}
