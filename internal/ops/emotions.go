package ops

import (
	"github.com/hpungsan/moodlog/internal/entry"
)

// ScaleLevel is one point of the rating scale with its label.
type ScaleLevel struct {
	Rating int    `json:"rating"`
	Label  string `json:"label"`
}

// EmotionsOutput describes the configured catalog and rating scale.
type EmotionsOutput struct {
	Emotions        []entry.Emotion `json:"emotions"`
	Scale           []ScaleLevel    `json:"scale"`
	DefaultRating   int             `json:"default_rating"`
	DayBoundaryHour int             `json:"day_boundary_hour"`
}

// Emotions lists the configured emotions and the intensity labels of the scale.
func Emotions(deps Deps) *EmotionsOutput {
	scale := make([]ScaleLevel, 0, entry.MaxRating-entry.MinRating+1)
	for r := entry.MinRating; r <= entry.MaxRating; r++ {
		scale = append(scale, ScaleLevel{Rating: r, Label: entry.Describe(r)})
	}
	return &EmotionsOutput{
		Emotions:        deps.catalog().Emotions(),
		Scale:           scale,
		DefaultRating:   entry.DefaultRating,
		DayBoundaryHour: deps.cfg().BoundaryHour(),
	}
}
