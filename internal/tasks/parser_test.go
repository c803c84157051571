package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	plain := `{"title":"Buy milk"}`

	assert.Equal(t, plain, string(stripFences(plain)))
	assert.Equal(t, plain, string(stripFences("```json\n"+plain+"\n```")))
	assert.Equal(t, plain, string(stripFences("```\n"+plain+"\n```")))
	assert.Equal(t, plain, string(stripFences("  "+plain+"\n")))
}

func TestQuadrantMapping(t *testing.T) {
	for frontend, db := range quadrantToDB {
		got, err := ToDBQuadrant(frontend)
		assert.NoError(t, err)
		assert.Equal(t, db, got)
		assert.Equal(t, frontend, ToFrontendQuadrant(db))
	}

	_, err := ToDBQuadrant("sideways")
	assert.Error(t, err)

	_, err = ToDBComplexity("impossible")
	assert.Error(t, err)
}
