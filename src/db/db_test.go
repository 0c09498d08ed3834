package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockDBDialect(t *testing.T) {
	gormDB, _ := NewMockDB()
	db = gormDB

	assert.Equal(t, "postgres", db.Name())
}
