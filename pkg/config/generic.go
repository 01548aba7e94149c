package config

import (
	"fmt"
	"sort"
)

// Generic holds the config of a camera type this package has no decoder
// for. The driver registered for Tag reads its settings from Params.
type Generic struct {
	Tag    string
	Params map[string]interface{}
}

func (g *Generic) Type() string { return g.Tag }

func (g *Generic) Validate() error {
	if g.Tag == "" {
		return fmt.Errorf("%w: type is required", ErrInvalid)
	}
	return nil
}

func (g *Generic) String() string {
	keys := make([]string, 0, len(g.Params))
	for k := range g.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var f fields
	f.add("type", g.Tag)
	for _, k := range keys {
		f.add(k, g.Params[k])
	}
	return f.render("CameraConfig")
}

// Int returns the integer parameter key, or def when it is missing or not a number.
func (g *Generic) Int(key string, def int) int {
	switch v := g.Params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Float returns the numeric parameter key, or def.
func (g *Generic) Float(key string, def float64) float64 {
	switch v := g.Params[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return def
}

// Str returns the string parameter key, or def.
func (g *Generic) Str(key, def string) string {
	if v, ok := g.Params[key].(string); ok {
		return v
	}
	return def
}
