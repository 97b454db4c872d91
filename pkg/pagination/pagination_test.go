package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Normalize(Params{Page: 0, Limit: 0})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)

	p = Normalize(Params{Page: -3, Limit: 5000})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)

	p = Normalize(Params{Page: 4, Limit: 10})
	assert.Equal(t, 4, p.Page)
	assert.Equal(t, 10, p.Limit)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 25}.Offset())
	assert.Equal(t, 75, Params{Page: 4, Limit: 25}.Offset())
	assert.Equal(t, 0, Params{}.Offset())
}
