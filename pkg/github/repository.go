package github

import (
	"errors"
	"fmt"
	"strings"
)

type Repository struct {
	Owner string
	Name  string
}

func NewRepository(owner string, name string) *Repository {
	return &Repository{
		Owner: owner,
		Name:  name,
	}
}

// ParseRepository parses the "owner/name" form used by GITHUB_REPOSITORY.
func ParseRepository(value string) (*Repository, error) {
	parts := strings.Split(value, "/")

	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.New(`not a valid repository name, must be "owner/name"`)
	}

	return NewRepository(parts[0], parts[1]), nil
}

func (d *Repository) FullName() string {
	return fmt.Sprintf("%s/%s", d.Owner, d.Name)
}

func (d *Repository) String() string {
	return d.FullName()
}
