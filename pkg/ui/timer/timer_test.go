package timer_test

import (
	"testing"
	"time"

	"github.com/saadousman/health-checks/pkg/ui/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StartsImmediately(t *testing.T) {
	t.Parallel()

	tmr := timer.New()

	total, stage := tmr.GetTiming()

	assert.GreaterOrEqual(t, total, time.Duration(0))
	assert.GreaterOrEqual(t, stage, time.Duration(0))
}

func TestGetTiming_TotalCoversAllStages(t *testing.T) {
	t.Parallel()

	tmr := timer.New()

	time.Sleep(10 * time.Millisecond)
	tmr.NewStage()
	time.Sleep(5 * time.Millisecond)

	total, stage := tmr.GetTiming()

	require.GreaterOrEqual(t, total, stage)
	assert.GreaterOrEqual(t, total, 15*time.Millisecond)
	assert.GreaterOrEqual(t, stage, 5*time.Millisecond)
	assert.Less(t, stage, total)
}

func TestStart_ResetsTimer(t *testing.T) {
	t.Parallel()

	tmr := timer.New()

	time.Sleep(10 * time.Millisecond)
	tmr.Start()

	total, _ := tmr.GetTiming()

	assert.Less(t, total, 10*time.Millisecond)
}
