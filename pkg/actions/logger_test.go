package actions

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowLevels(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(&buf, true)
	log.SetLevel(logrus.DebugLevel)

	log.Debug("details")
	log.Info("Release created before deadline!")
	log.Warn("careful")
	log.Error("broken")

	assert.Equal(t, strings.Join([]string{
		"::debug::details",
		"Release created before deadline!",
		"::warning::careful",
		"::error::broken",
		"",
	}, "\n"), buf.String())
}

func TestWorkflowFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(&buf, true)
	log.WithFields(logrus.Fields{"number": 3, "b": "x"}).Info("Found milestone.")

	assert.Equal(t, "Found milestone. b=x number=3\n", buf.String())
}

func TestWorkflowCommandsAreEscaped(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(&buf, true)
	log.Error("100% wrong\r\nsecond line")

	assert.Equal(t, "::error::100%25 wrong%0D%0Asecond line\n", buf.String())
}

func TestGroups(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(&buf, true)

	log.EndGroup()
	assert.False(t, log.InGroup())

	log.StartGroup("Calculating grade...")
	assert.True(t, log.InGroup())
	log.Info("inside")
	log.StartGroup("Ensuring milestone...")
	log.EndGroup()
	log.EndGroup()

	assert.Equal(t, strings.Join([]string{
		"::group::Calculating grade...",
		"inside",
		"::endgroup::",
		"::group::Ensuring milestone...",
		"::endgroup::",
		"",
	}, "\n"), buf.String())
}

func TestSecretsAreMasked(t *testing.T) {
	for _, workflow := range []bool{true, false} {
		var buf bytes.Buffer

		log := NewLogger(&buf, workflow)
		log.SetSecret("ghp_s3cr3t")
		log.SetSecret("")

		// everything after the registration must be masked
		mark := buf.Len()

		log.Infof("token is ghp_s3cr3t")
		log.WithField("auth", "Bearer ghp_s3cr3t").Warn("request")
		log.StartGroup("ghp_s3cr3t group")
		log.SetFailed("failed with ghp_s3cr3t")

		out := buf.String()[mark:]
		assert.NotContains(t, out, "ghp_s3cr3t", "workflow=%v", workflow)
		assert.Contains(t, out, maskReplacement)
	}
}

func TestSetSecretEmitsAddMask(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(&buf, true)
	log.SetSecret("ghp_s3cr3t")

	assert.Equal(t, "::add-mask::ghp_s3cr3t\n", buf.String())
}

func TestLongerSecretsAreMaskedFirst(t *testing.T) {
	secrets := &secretList{}
	secrets.add("abc")
	secrets.add("abcdef")
	secrets.add("abc")

	assert.Len(t, secrets.values, 2)
	assert.Equal(t, "x *** y ***", secrets.mask("x abcdef y abc"))
}

func TestSetFailedClosesGroup(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(&buf, true)
	log.StartGroup("Calculating grade...")
	log.ShowError("something broke\n")
	log.SetFailed("Unable to request project grade. something broke")

	require.True(t, log.Failed())
	assert.Equal(t, "Unable to request project grade. something broke", log.FailureMessage())
	assert.False(t, log.InGroup())

	assert.Equal(t, strings.Join([]string{
		"::group::Calculating grade...",
		"::error::something broke",
		"::endgroup::",
		"::error::Unable to request project grade. something broke",
		"",
	}, "\n"), buf.String())
}

func TestTextMode(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(&buf, false)
	log.StartGroup("Calculating grade...")
	log.Info("hello")

	assert.Contains(t, buf.String(), "group=\"Calculating grade...\"")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.NotContains(t, buf.String(), "::group::")
}

func TestGetInput(t *testing.T) {
	env := map[string]string{
		"INPUT_TOKEN":        " abc ",
		"INPUT_RELEASE_DATE": "2020",
		"GITHUB_ACTIONS":     "true",
	}
	getenv := func(key string) string { return env[key] }

	assert.Equal(t, "abc", GetInput(getenv, "token"))
	assert.Equal(t, "2020", GetInput(getenv, "release date"))
	assert.Empty(t, GetInput(getenv, "missing"))
	assert.True(t, IsWorkflow(getenv))
	assert.False(t, IsWorkflow(func(string) string { return "" }))
}
