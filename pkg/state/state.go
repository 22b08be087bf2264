// Package state restores the values an earlier step of the same job saved
// for this step. The runner exposes them as STATE_<name> variables.
package state

import (
	"fmt"
	"strings"
)

const (
	KeyRelease     = "release"
	KeyReleaseDate = "releaseDate"
	KeyType        = "type"
	KeyReleaseURL  = "releaseUrl"

	envPrefix = "STATE_"
)

type State struct {
	Release     string
	ReleaseDate string
	Type        string
	ReleaseURL  string
}

type MissingStateError struct {
	Key string
}

func (e *MissingStateError) Error() string {
	return fmt.Sprintf("unable to restore %q, no value was saved by the setup step", e.Key)
}

// Restore reads the saved values via getenv, usually os.Getenv.
func Restore(getenv func(string) string) (*State, error) {
	s := &State{}

	required := []struct {
		key  string
		dest *string
	}{
		{key: KeyRelease, dest: &s.Release},
		{key: KeyReleaseDate, dest: &s.ReleaseDate},
		{key: KeyType, dest: &s.Type},
	}

	for _, r := range required {
		value := strings.TrimSpace(getenv(envPrefix + r.key))
		if value == "" {
			return nil, &MissingStateError{Key: r.key}
		}

		*r.dest = value
	}

	s.ReleaseURL = strings.TrimSpace(getenv(envPrefix + KeyReleaseURL))

	return s, nil
}

// Env renders the state the way Restore expects to find it, which is
// handy for tests and local runs.
func (s *State) Env() map[string]string {
	env := map[string]string{
		envPrefix + KeyRelease:     s.Release,
		envPrefix + KeyReleaseDate: s.ReleaseDate,
		envPrefix + KeyType:        s.Type,
	}

	if s.ReleaseURL != "" {
		env[envPrefix+KeyReleaseURL] = s.ReleaseURL
	}

	return env
}
