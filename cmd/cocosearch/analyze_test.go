package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cocosearch/cocosearch/internal/query"
)

func TestAnalyzeReportCarriesAnalyzerVerdict(t *testing.T) {
	analysis := query.Analyze("getUserById")
	report := analyzeReport{Analysis: analysis, UseHybrid: analysis.UseHybrid}

	assert.True(t, report.UseHybrid)
	assert.Nil(t, report.Results)
}
