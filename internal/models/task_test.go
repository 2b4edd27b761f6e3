package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusTodo, StatusInProgress, StatusReview, StatusDone} {
		require.True(t, ValidStatus(status))
	}
	require.False(t, ValidStatus("completed"))
	require.False(t, ValidStatus(""))
}

func TestValidPriority(t *testing.T) {
	for _, priority := range []string{PriorityLow, PriorityMedium, PriorityHigh} {
		require.True(t, ValidPriority(priority))
	}
	require.False(t, ValidPriority("urgent"))
	require.False(t, ValidPriority(""))
}
