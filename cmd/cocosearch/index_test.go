package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cocosearch/cocosearch/internal/types"
)

func TestCountParseFailuresCountsErrorAndPartialOnly(t *testing.T) {
	verdicts := []types.ParseVerdict{
		{ParseStatus: types.ParseStatusOK},
		{ParseStatus: types.ParseStatusPartial},
		{ParseStatus: types.ParseStatusError},
		{ParseStatus: types.ParseStatusNoGrammar},
		{ParseStatus: types.ParseStatusOK},
	}
	assert.Equal(t, 2, countParseFailures(verdicts))
}

func TestCountParseFailuresZeroOnAllOK(t *testing.T) {
	verdicts := []types.ParseVerdict{
		{ParseStatus: types.ParseStatusOK},
		{ParseStatus: types.ParseStatusOK},
	}
	assert.Equal(t, 0, countParseFailures(verdicts))
}
