// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestCustomHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := &log.Logger{Handler: &CustomHandler{W: &buf}, Level: log.DebugLevel}

	logger.WithField("path", "/tmp/x.cache").WithError(errors.New("bad magic")).Warn("failed to decode cache file")

	line := buf.String()
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} W failed to decode cache file`, line)
	assert.Contains(t, line, " error=bad magic")
	assert.Contains(t, line, " path=/tmp/x.cache")
}

func TestCustomHandler_ZeroTimestamp(t *testing.T) {
	var buf bytes.Buffer
	h := &CustomHandler{W: &buf}

	before := time.Now().Format("2006-01-02")
	assert.NoError(t, h.HandleLog(&log.Entry{Level: log.InfoLevel, Message: "hello"}))
	assert.Contains(t, buf.String(), before)
	assert.Contains(t, buf.String(), " I hello")
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		env  string
		want log.Level
	}{
		{env: "", want: log.ErrorLevel},
		{env: "debug", want: log.DebugLevel},
		{env: "WARN", want: log.WarnLevel},
		{env: "nonsense", want: log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("PCACHE_LOG", tt.env)
			InitLogger()
			assert.Equal(t, tt.want, log.Log.(*log.Logger).Level)
		})
	}
}
