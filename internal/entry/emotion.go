package entry

import (
	"fmt"
	"regexp"
	"strings"
)

// Rating bounds and the value an untouched slider submits.
const (
	MinRating     = 1
	MaxRating     = 10
	DefaultRating = 5
)

// Emotion is one configured rating scale.
type Emotion struct {
	// Name is the human label, unique within a catalog
	Name string `json:"name" validate:"required,max=64"`

	// Category is a presentation tag (e.g. "red", "green"); it has no effect on logic
	Category string `json:"category,omitempty" validate:"omitempty,max=32"`
}

// DefaultEmotions is the reference emotion configuration.
func DefaultEmotions() []Emotion {
	return []Emotion{
		{Name: "Grief", Category: "red"},
		{Name: "Anxiety", Category: "red"},
		{Name: "Rumination", Category: "red"},
		{Name: "Fantasizing", Category: "red"},
		{Name: "Business", Category: "red"},
		{Name: "Knowledge Seeking", Category: "red"},
		{Name: "Excitement", Category: "green"},
		{Name: "Hopefulness", Category: "green"},
	}
}

var intensityLabels = [...]string{
	1:  "Very Mild",
	2:  "Mild",
	3:  "Moderate",
	4:  "Slightly Strong",
	5:  "Strong",
	6:  "Fairly Strong",
	7:  "Very Strong",
	8:  "Intense",
	9:  "Very Intense",
	10: "Extremely Intense",
}

// Describe returns the intensity label for a rating, or "" if out of range.
func Describe(rating int) string {
	if rating < MinRating || rating > MaxRating {
		return ""
	}
	return intensityLabels[rating]
}

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize trims, lowercases and collapses internal whitespace.
// Used to match user-typed emotion names against the catalog.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// Catalog is the closed, ordered set of configured emotions.
type Catalog struct {
	emotions []Emotion
	index    map[string]int // normalized name -> position
}

// NewCatalog builds a catalog, rejecting empty and duplicate names.
func NewCatalog(emotions []Emotion) (Catalog, error) {
	if len(emotions) == 0 {
		return Catalog{}, fmt.Errorf("at least one emotion is required")
	}
	c := Catalog{
		emotions: make([]Emotion, 0, len(emotions)),
		index:    make(map[string]int, len(emotions)),
	}
	for _, e := range emotions {
		name := strings.TrimSpace(e.Name)
		norm := Normalize(name)
		if norm == "" {
			return Catalog{}, fmt.Errorf("emotion name must not be empty")
		}
		if _, dup := c.index[norm]; dup {
			return Catalog{}, fmt.Errorf("duplicate emotion name %q", name)
		}
		c.index[norm] = len(c.emotions)
		c.emotions = append(c.emotions, Emotion{Name: name, Category: strings.TrimSpace(e.Category)})
	}
	return c, nil
}

// MustCatalog is like NewCatalog but panics on error.
func MustCatalog(emotions []Emotion) Catalog {
	c, err := NewCatalog(emotions)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of emotions.
func (c Catalog) Len() int {
	return len(c.emotions)
}

// Emotions returns a copy of the emotions in configured order.
func (c Catalog) Emotions() []Emotion {
	out := make([]Emotion, len(c.emotions))
	copy(out, c.emotions)
	return out
}

// Names returns the emotion names in configured order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.emotions))
	for i, e := range c.emotions {
		names[i] = e.Name
	}
	return names
}

// Lookup finds an emotion by name, ignoring case and extra whitespace.
func (c Catalog) Lookup(name string) (Emotion, bool) {
	i, ok := c.index[Normalize(name)]
	if !ok {
		return Emotion{}, false
	}
	return c.emotions[i], true
}

// Category returns the category of the named emotion, or "" if unknown.
func (c Catalog) Category(name string) string {
	e, _ := c.Lookup(name)
	return e.Category
}

// Resolve builds a full Ratings map from partial user input. Names are matched
// loosely and canonicalized; missing emotions get DefaultRating.
// Unknown names and out-of-range values are rejected.
func (c Catalog) Resolve(partial map[string]int) (Ratings, error) {
	r := make(Ratings, len(c.emotions))
	for _, e := range c.emotions {
		r[e.Name] = DefaultRating
	}
	for name, v := range partial {
		e, ok := c.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown emotion %q", name)
		}
		if v < MinRating || v > MaxRating {
			return nil, fmt.Errorf("rating for %q must be between %d and %d, got %d", e.Name, MinRating, MaxRating, v)
		}
		r[e.Name] = v
	}
	return r, nil
}
