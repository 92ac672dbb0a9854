package tool

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTool_Format(t *testing.T) {
	result, err := NewDateTool(nil, nopLog).Execute(context.Background(), "")

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), result)
}

func TestDateTool_UsesClock(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, time.August, 14, 23, 59, 0, 0, time.UTC) }

	result, err := NewDateTool(clock, nopLog).Execute(context.Background(), "{}")

	require.NoError(t, err)
	assert.Equal(t, "2025-08-14", result)
}

func TestDateTool_Definition(t *testing.T) {
	tool := NewDateTool(nil, nopLog)
	assert.Equal(t, "get_todays_date", tool.Name().String())
	assert.Equal(t, "object", tool.Parameters()["type"])
}
