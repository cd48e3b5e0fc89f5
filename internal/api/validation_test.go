package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vitaltrack/fitness-app/internal/summary"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryContext(rawQuery string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/workouts?"+rawQuery, nil)
	return c
}

func TestParseDateQuery_BareDateIsLocalDay(t *testing.T) {
	prev := time.Local
	time.Local = time.FixedZone("UTC-7", -7*60*60)
	t.Cleanup(func() { time.Local = prev })

	got, err := parseDateQuery(queryContext("start=2024-05-01"), "start")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.Local), *got)

	// The day matches the one the trailing summary window starts on.
	start, _ := summary.TrailingWindow(time.Date(2024, time.May, 7, 15, 0, 0, 0, time.Local))
	assert.True(t, start.Equal(*got))
}

func TestParseDateQuery_RFC3339KeepsOffset(t *testing.T) {
	got, err := parseDateQuery(queryContext("end=2024-05-01T10:00:00Z"), "end")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)))

	got, err = parseDateQuery(queryContext(""), "end")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseDateQuery(queryContext("end=05/01/2024"), "end")
	assert.Error(t, err)
}
