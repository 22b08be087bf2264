package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryFlag(t *testing.T) {
	var repo repositoryFlag
	assert.Equal(t, "", repo.String())

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&repo, "repo", "")

	require.NoError(t, fs.Parse([]string{"-repo", "owner/name"}))
	assert.Equal(t, "owner/name", repo.String())

	assert.Error(t, fs.Parse([]string{"-repo", "invalid"}))
}
