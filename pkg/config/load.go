package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Decoder returns an empty config, defaults applied, for YAML to decode into.
type Decoder func() CameraConfig

var (
	decodersMu sync.RWMutex
	decoders   = map[string]Decoder{
		TypeOpenCV:    func() CameraConfig { return NewOpenCV(IndexOrPath{}) },
		TypeRealSense: func() CameraConfig { return NewRealSense("") },
		TypeReachy2:   func() CameraConfig { return NewReachy2("", "") },
	}
)

// RegisterDecoder makes typ decode into the config returned by d instead of
// Generic. Driver packages with typed configs call it from init.
func RegisterDecoder(typ string, d Decoder) {
	decodersMu.Lock()
	defer decodersMu.Unlock()
	decoders[typ] = d
}

func lookupDecoder(typ string) (Decoder, bool) {
	decodersMu.RLock()
	defer decodersMu.RUnlock()
	d, ok := decoders[typ]
	return d, ok
}

type document struct {
	Cameras yaml.Node `yaml:"cameras"`
}

// LoadFile reads a camera set from a YAML file.
func LoadFile(path string) (*Cameras, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cams, err := Load(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cams, nil
}

// Load reads a camera set from YAML. Every config is validated.
func Load(r io.Reader) (*Cameras, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return NewCameras(), nil
		}
		return nil, err
	}

	cams := NewCameras()
	node := &doc.Cameras
	if node.Kind == 0 {
		return cams, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: cameras must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		cfg, err := decodeCamera(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("camera %q: %w", name, err)
		}
		if err := cams.Add(name, cfg); err != nil {
			return nil, err
		}
	}
	return cams, nil
}

func decodeCamera(node *yaml.Node) (CameraConfig, error) {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, err
	}
	if head.Type == "" {
		return nil, fmt.Errorf("line %d: %w: type is required", node.Line, ErrInvalid)
	}

	var cfg CameraConfig
	if d, ok := lookupDecoder(head.Type); ok {
		cfg = d()
		if err := node.Decode(cfg); err != nil {
			return nil, err
		}
	} else {
		params := make(map[string]interface{})
		if err := node.Decode(&params); err != nil {
			return nil, err
		}
		delete(params, "type")
		cfg = &Generic{Tag: head.Type, Params: params}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
