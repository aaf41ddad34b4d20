package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEmotions(t *testing.T) {
	emotions := DefaultEmotions()
	require.Len(t, emotions, 8)
	assert.Equal(t, "Grief", emotions[0].Name)
	assert.Equal(t, "Hopefulness", emotions[7].Name)
	assert.Equal(t, "green", emotions[7].Category)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Knowledge Seeking", "knowledge seeking"},
		{"  knowledge   SEEKING ", "knowledge seeking"},
		{"Grief", "grief"},
		{"\tAnxiety\n", "anxiety"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Normalize(tt.input), "Normalize(%q)", tt.input)
	}
}

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog(DefaultEmotions())
	require.NoError(t, err)

	assert.Equal(t, 8, c.Len())
	assert.Equal(t, "Grief", c.Names()[0])
	assert.Equal(t, "red", c.Category("Rumination"))
	assert.Equal(t, "", c.Category("Joy"))
}

func TestNewCatalog_Errors(t *testing.T) {
	_, err := NewCatalog(nil)
	assert.Error(t, err)

	_, err = NewCatalog([]Emotion{{Name: "  "}})
	assert.Error(t, err)

	_, err = NewCatalog([]Emotion{{Name: "Grief"}, {Name: "grief "}})
	assert.Error(t, err)
}

func TestCatalog_EmotionsIsCopy(t *testing.T) {
	c := MustCatalog(DefaultEmotions())
	got := c.Emotions()
	got[0].Name = "Changed"

	assert.Equal(t, "Grief", c.Emotions()[0].Name)
}

func TestCatalog_Lookup(t *testing.T) {
	c := MustCatalog(DefaultEmotions())

	e, ok := c.Lookup("knowledge  seeking")
	require.True(t, ok)
	assert.Equal(t, "Knowledge Seeking", e.Name)

	_, ok = c.Lookup("joy")
	assert.False(t, ok)
}

func TestCatalog_Resolve(t *testing.T) {
	c := MustCatalog(DefaultEmotions())

	r, err := c.Resolve(map[string]int{"grief": 9, "HOPEFULNESS": 1})
	require.NoError(t, err)

	assert.Len(t, r, 8)
	assert.Equal(t, 9, r["Grief"])
	assert.Equal(t, 1, r["Hopefulness"])
	assert.Equal(t, DefaultRating, r["Anxiety"])
}

func TestCatalog_ResolveEmptyUsesDefaults(t *testing.T) {
	c := MustCatalog(DefaultEmotions())

	r, err := c.Resolve(nil)
	require.NoError(t, err)
	for _, name := range c.Names() {
		assert.Equal(t, DefaultRating, r[name], name)
	}
}

func TestCatalog_ResolveErrors(t *testing.T) {
	c := MustCatalog(DefaultEmotions())

	_, err := c.Resolve(map[string]int{"Joy": 5})
	assert.ErrorContains(t, err, "unknown emotion")

	_, err = c.Resolve(map[string]int{"Grief": 0})
	assert.ErrorContains(t, err, "between 1 and 10")

	_, err = c.Resolve(map[string]int{"Grief": 11})
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Very Mild", Describe(1))
	assert.Equal(t, "Strong", Describe(5))
	assert.Equal(t, "Extremely Intense", Describe(10))
	assert.Equal(t, "", Describe(0))
	assert.Equal(t, "", Describe(11))
}
