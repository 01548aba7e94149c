package realsense

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/camrig/camrig/internal/v4l2"
	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/frame"
)

const byIDPath = "/dev/v4l/by-id/"

func discoverDevices() ([]device, error) {
	return discover(filepath.Join(byIDPath, "*RealSense*"))
}

func discover(pattern string) ([]device, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	type node struct {
		path  string
		index int
	}
	byKey := make(map[string]*device)
	nodes := make(map[string][]node)
	var keys []string
	for _, p := range paths {
		product, serial, index, ok := parseByID(filepath.Base(p))
		if !ok {
			continue
		}
		key := product + "/" + serial
		if _, ok := byKey[key]; !ok {
			byKey[key] = &device{
				Name:   strings.Join(strings.Fields(strings.ReplaceAll(product, "_", " ")), " "),
				Serial: serial,
			}
			keys = append(keys, key)
		}
		nodes[key] = append(nodes[key], node{p, index})
	}

	devices := make([]device, 0, len(keys))
	for _, key := range keys {
		ns := nodes[key]
		sort.Slice(ns, func(i, j int) bool { return ns[i].index < ns[j].index })
		d := byKey[key]
		for _, n := range ns {
			d.Nodes = append(d.Nodes, n.path)
		}
		devices = append(devices, *d)
	}
	return devices, nil
}

// parseByID splits a /dev/v4l/by-id link name into product, serial and
// node index.
func parseByID(name string) (product, serial string, index int, ok bool) {
	const marker = "-video-index"
	name = strings.TrimPrefix(name, "usb-")
	i := strings.LastIndex(name, marker)
	if i < 0 {
		return "", "", 0, false
	}
	index, err := strconv.Atoi(name[i+len(marker):])
	if err != nil {
		return "", "", 0, false
	}
	head := name[:i]
	j := strings.LastIndex(head, "_")
	if j <= 0 || j == len(head)-1 {
		return "", "", 0, false
	}
	return head[:j], head[j+1:], index, true
}

type nodeStream struct {
	*v4l2.Stream
}

func (s nodeStream) read() (image.Image, func(), error) {
	return s.Read()
}

func (s nodeStream) close() error {
	return s.Close()
}

func openNode(path string, format frame.Format, cfg *config.RealSense) (stream, error) {
	s, err := v4l2.Open(path, v4l2.Options{
		Formats: []frame.Format{format},
		Width:   cfg.Width,
		Height:  cfg.Height,
		FPS:     cfg.FPS,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nodeStream{s}, nil
}
