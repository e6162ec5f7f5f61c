package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/John-Robertt/gpcheck/internal/projectid"
)

func TestNewCandidate(t *testing.T) {
	c := NewCandidate("ANOTHER-Name-1")
	assert.Equal(t, "ANOTHER-Name-1", c.Raw, "Raw 必须保留原样")
	assert.Equal(t, "another-name-1", c.ID)
	assert.Equal(t, projectid.Normalize(c.Raw), c.ID, "ID 与查询用的规范化形态一致")
	assert.Equal(t, c.ID, NewCandidate(c.ID).ID, "规范化应幂等")
}
