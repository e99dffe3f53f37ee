package style

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Sky property names, as spelled in the style document.
const (
	SkyColor     = "sky-color"
	HorizonColor = "horizon-color"
	FogColor     = "fog-color"
	FogBlend     = "fog-blend"
	HorizonBlend = "horizon-blend"
)

var (
	ErrUnknownProperty = errors.New("unknown sky property")
	ErrPropertyType    = errors.New("wrong value type for sky property")
)

// Fog fades in between these camera pitches, in degrees.
const (
	fogFadeStartPitch = 60.0
	fogFadeEndPitch   = 70.0
)

// Sky is the evaluated atmosphere state of a style. Blend values are kept in
// [0,1]; colors are premultiplied.
type Sky struct {
	skyColor     Color
	horizonColor Color
	fogColor     Color
	fogBlend     float32
	horizonBlend float32
}

// NewSky returns a sky with the default style values.
func NewSky() *Sky {
	return &Sky{
		skyColor:     MustParseColor("#88C6FC"),
		horizonColor: White,
		fogColor:     White,
		fogBlend:     0.5,
		horizonBlend: 0.8,
	}
}

// Get reads a property by its style name. The value is a Color for color
// properties and a float32 for blend properties.
func (s *Sky) Get(name string) (any, error) {
	switch name {
	case SkyColor:
		return s.skyColor, nil
	case HorizonColor:
		return s.horizonColor, nil
	case FogColor:
		return s.fogColor, nil
	case FogBlend:
		return s.fogBlend, nil
	case HorizonBlend:
		return s.horizonBlend, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}

// SetProperty assigns a property from a style value. Colors accept a Color or
// a color string; blends accept any Go number and are clamped to [0,1].
func (s *Sky) SetProperty(name string, value any) error {
	switch name {
	case SkyColor, HorizonColor, FogColor:
		c, err := toColor(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		switch name {
		case SkyColor:
			s.skyColor = c
		case HorizonColor:
			s.horizonColor = c
		default:
			s.fogColor = c
		}
		return nil
	case FogBlend, HorizonBlend:
		f, err := toFloat(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if name == FogBlend {
			s.fogBlend = clamp01(f)
		} else {
			s.horizonBlend = clamp01(f)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}

func (s *Sky) SkyColor() Color       { return s.skyColor }
func (s *Sky) HorizonColor() Color   { return s.horizonColor }
func (s *Sky) FogColor() Color       { return s.fogColor }
func (s *Sky) FogBlend() float32     { return s.fogBlend }
func (s *Sky) HorizonBlend() float32 { return s.horizonBlend }

// FogBlendOpacity returns how visible the fog is at the given camera pitch in
// degrees. Fog is off for low pitches and fully on from 70 degrees.
func (s *Sky) FogBlendOpacity(pitch float64) float32 {
	if pitch < fogFadeStartPitch {
		return 0
	}
	if pitch < fogFadeEndPitch {
		return float32((pitch - fogFadeStartPitch) / (fogFadeEndPitch - fogFadeStartPitch))
	}
	return 1
}

// LoadSky reads a style document and applies its "sky" object on top of the
// defaults. A document without a sky yields the defaults.
func LoadSky(r io.Reader) (*Sky, error) {
	var doc struct {
		Sky map[string]any `json:"sky"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode style: %w", err)
	}

	sky := NewSky()
	names := make([]string, 0, len(doc.Sky))
	for name := range doc.Sky {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := sky.SetProperty(name, doc.Sky[name]); err != nil {
			return nil, err
		}
	}
	return sky, nil
}

func toColor(v any) (Color, error) {
	switch c := v.(type) {
	case Color:
		return c, nil
	case string:
		return ParseColor(c)
	}
	return Color{}, fmt.Errorf("%w: %T", ErrPropertyType, v)
}

func toFloat(v any) (float32, error) {
	switch f := v.(type) {
	case float32:
		return f, nil
	case float64:
		return float32(f), nil
	case int:
		return float32(f), nil
	case json.Number:
		x, err := f.Float64()
		return float32(x), err
	}
	return 0, fmt.Errorf("%w: %T", ErrPropertyType, v)
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
