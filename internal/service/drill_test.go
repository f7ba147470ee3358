package service

import (
	"testing"

	"lacrosse-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	session := domain.DrillSession{
		Samples: []domain.ReactionSample{
			{ElapsedMS: 310},
			{ElapsedMS: 245},
			{ElapsedMS: 402},
		},
	}

	stats := Summarize(session)
	assert.Equal(t, 3, stats.Samples)
	assert.Equal(t, 245, stats.BestMS)
	assert.Equal(t, 319, stats.AverageMS)
}

func TestSummarizeEmptySession(t *testing.T) {
	stats := Summarize(domain.DrillSession{})
	assert.Equal(t, SessionStats{}, stats)
}
