package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type LoggingSuite struct {
	suite.Suite
}

func (s *LoggingSuite) TestParseLevel(t provider.T) {
	t.Parallel()

	testCases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, expected := range testCases {
		assert.Equal(t, expected, ParseLevel(in), "input %q", in)
	}
}

func (s *LoggingSuite) TestNewFiltersByLevel(t provider.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("room created")
	assert.Empty(t, buf.String())

	logger.Warn("giftee cache get failed", slog.String("error", "boom"))
	assert.Contains(t, buf.String(), "giftee cache get failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestLoggingSuite(t *testing.T) {
	suite.RunSuite(t, new(LoggingSuite))
}
