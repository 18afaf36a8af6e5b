package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Identity_FulfillsTheModelContract(t *testing.T) {
	var m Model = &testArticle{}

	assert.Equal(t, int64(0), m.GetID(), "a model starts without identity")

	m.SetID(42)
	assert.Equal(t, int64(42), m.GetID())
}

func Test_Identity_IsVisibleOnTheEmbeddingStruct(t *testing.T) {
	article := &testArticle{}
	article.SetID(7)

	assert.Equal(t, int64(7), article.ID)
}
