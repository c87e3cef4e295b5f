package lazyjumper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertiesFromList(t *testing.T) {
	p := newPropertiesFromList([]*Property{
		{Name: "a", Type: PropInt, Value: "12"},
		{Name: "b", Type: PropFloat, Value: "0.5"},
		{Name: "c", Type: PropBool, Value: "true"},
		{Name: "d", Value: "hello"},
		{Name: "e", Type: PropColor, Value: "#ff00ff00"},
	})

	assert.Equal(t, 5, p.Len())
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, p.Keys())

	a, ok := p.Int("a")
	assert.True(t, ok)
	assert.Equal(t, 12, a)

	_, ok = p.String("a")
	assert.False(t, ok)

	e, _ := p.String("e")
	assert.Equal(t, "#ff00ff00", e)

	assert.Equal(t, "12", p.Format("a"))
	assert.Equal(t, "0.5", p.Format("b"))
	assert.Equal(t, "true", p.Format("c"))
	assert.Equal(t, "hello", p.Format("d"))
	assert.Equal(t, "", p.Format("nope"))
}

func TestPropertiesOneTypePerKey(t *testing.T) {
	p := NewProperties()
	p.SetInt("x", 1)
	p.SetString("x", "one")

	_, ok := p.Int("x")
	assert.False(t, ok)
	v, _ := p.String("x")
	assert.Equal(t, "one", v)
	assert.Equal(t, 1, p.Len())
}
