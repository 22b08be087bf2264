// SPDX-FileCopyrightText: 2023 Christoph Mewes
// SPDX-License-Identifier: MIT

package actions

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is a logrus logger that additionally knows about log groups,
// secret masking and marking the step as failed.
type Logger struct {
	*logrus.Logger

	secrets  *secretList
	workflow bool
	group    string
	failed   string
}

// NewLogger creates a logger writing to out. In workflow mode entries are
// rendered as workflow commands, otherwise with a regular text formatter.
func NewLogger(out io.Writer, workflow bool) *Logger {
	var inner logrus.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC1123,
	}

	if workflow {
		inner = &WorkflowFormatter{}
	}

	secrets := &secretList{}

	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&maskingFormatter{
		inner:   inner,
		secrets: secrets,
	})

	return &Logger{
		Logger:   log,
		secrets:  secrets,
		workflow: workflow,
	}
}

// SetSecret registers a value that must never show up in the log. Call it
// before anything could log the value.
func (l *Logger) SetSecret(secret string) {
	if strings.TrimSpace(secret) == "" {
		return
	}

	l.secrets.add(secret)

	if l.workflow {
		// the runner needs the plain value to mask it in its own output
		fmt.Fprintln(l.Out, command("add-mask", secret))
	}
}

func (l *Logger) StartGroup(name string) {
	l.EndGroup()
	l.group = name

	if l.workflow {
		l.writeLine(command("group", name))
	} else {
		l.WithField("group", name).Info("Starting group.")
	}
}

// EndGroup closes the current group, if any.
func (l *Logger) EndGroup() {
	if l.group == "" {
		return
	}

	if l.workflow {
		l.writeLine("::endgroup::")
	} else {
		l.WithField("group", l.group).Debug("Group finished.")
	}

	l.group = ""
}

func (l *Logger) InGroup() bool {
	return l.group != ""
}

// ShowError logs an error inside the current group, if there is one.
func (l *Logger) ShowError(message string) {
	l.Error(strings.TrimRight(message, "\n"))
}

// SetFailed closes any open group, so the message is always visible, logs
// it as an error and marks the run as failed.
func (l *Logger) SetFailed(message string) {
	l.EndGroup()
	l.Error(message)
	l.failed = message
}

func (l *Logger) Failed() bool {
	return l.failed != ""
}

func (l *Logger) FailureMessage() string {
	return l.failed
}

func (l *Logger) writeLine(line string) {
	fmt.Fprintln(l.Out, l.secrets.mask(line))
}
