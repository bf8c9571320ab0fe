package preferences

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	gormdb "gorm.io/gorm"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(gormdb.ErrRecordNotFound))
	assert.True(t, isNotFound(fmt.Errorf("load preferences: %w", gormdb.ErrRecordNotFound)))
	assert.False(t, isNotFound(fmt.Errorf("connection refused")))
	assert.False(t, isNotFound(nil))
}
