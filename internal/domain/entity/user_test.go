package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.False(t, u.AwaitsCalibration())

	u.SetState(StateAwaitingCalibration)
	require.True(t, u.AwaitsCalibration())
}

func TestUser_RecordAnalysis(t *testing.T) {
	u := NewUser(1, 10)
	u.SetState(StateProcessing)

	u.RecordAnalysis("a1")
	u.RecordAnalysis("a2")
	require.Equal(t, "a2", u.LastAnalysisID)
	require.Equal(t, 2, u.AnalysisCount)
	require.Equal(t, StateMainMenu, u.State)
}
