package main

import (
	"go.xrstf.de/project_grader/pkg/github"
)

// repositoryFlag is a flag.Value for the "owner/name" notation.
type repositoryFlag struct {
	repo *github.Repository
}

func (f *repositoryFlag) String() string {
	if f.repo == nil {
		return ""
	}

	return f.repo.FullName()
}

func (f *repositoryFlag) Set(value string) error {
	repo, err := github.ParseRepository(value)
	if err != nil {
		return err
	}

	f.repo = repo

	return nil
}
