// SPDX-FileCopyrightText: 2023 Christoph Mewes
// SPDX-License-Identifier: MIT

package actions

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// WorkflowFormatter renders log entries as GitHub Actions workflow
// commands, so warnings and errors show up as annotations and debug output
// is only visible when step debugging is enabled.
type WorkflowFormatter struct{}

func (f *WorkflowFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	message := entry.Message

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for key := range entry.Data {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			message += fmt.Sprintf(" %s=%v", key, entry.Data[key])
		}
	}

	switch entry.Level {
	case logrus.TraceLevel, logrus.DebugLevel:
		b.WriteString(command("debug", message))
	case logrus.WarnLevel:
		b.WriteString(command("warning", message))
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		b.WriteString(command("error", message))
	default:
		b.WriteString(message)
	}

	b.WriteByte('\n')

	return b.Bytes(), nil
}

func command(name string, data string) string {
	return fmt.Sprintf("::%s::%s", name, escapeData(data))
}

func escapeData(data string) string {
	data = strings.ReplaceAll(data, "%", "%25")
	data = strings.ReplaceAll(data, "\r", "%0D")
	data = strings.ReplaceAll(data, "\n", "%0A")

	return data
}

// maskingFormatter replaces registered secrets in everything the wrapped
// formatter produces.
type maskingFormatter struct {
	inner   logrus.Formatter
	secrets *secretList
}

func (f *maskingFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	formatted, err := f.inner.Format(entry)
	if err != nil {
		return nil, err
	}

	return []byte(f.secrets.mask(string(formatted))), nil
}

const maskReplacement = "***"

type secretList struct {
	values []string
}

func (s *secretList) add(secret string) {
	for _, existing := range s.values {
		if existing == secret {
			return
		}
	}

	s.values = append(s.values, secret)

	// longest first, so a secret containing another one is masked entirely
	sort.Slice(s.values, func(i, j int) bool {
		return len(s.values[i]) > len(s.values[j])
	})
}

func (s *secretList) mask(text string) string {
	for _, secret := range s.values {
		text = strings.ReplaceAll(text, secret, maskReplacement)
	}

	return text
}
