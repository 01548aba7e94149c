// Command camcheck builds the cameras described in a YAML file, opens them
// and grabs a few frames from each.
//
//	camcheck -config cameras.yaml -frames 10 -out ./frames
//
// With -list-backends it prints the capture backend order used on this host,
// taking LEROBOT_OPENCV_BACKENDS into account, and exits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/camrig/camrig/internal/logging"
	"github.com/camrig/camrig/pkg/camera"
	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/cv"
	"github.com/camrig/camrig/pkg/driver"
	"github.com/camrig/camrig/pkg/driver/realsense"
	"github.com/camrig/camrig/pkg/io/video"
	pionlogging "github.com/pion/logging"

	// Drivers register their camera types on import.
	_ "github.com/camrig/camrig/pkg/driver/opencv"
	_ "github.com/camrig/camrig/pkg/driver/reachy2"
	_ "github.com/camrig/camrig/pkg/driver/screen"
	_ "github.com/camrig/camrig/pkg/driver/videotest"
)

func main() {
	configPath := flag.String("config", "cameras.yaml", "Camera configuration file")
	frames := flag.Int("frames", 5, "Frames to read from each camera")
	outDir := flag.String("out", "", "Directory to save frames as PNG (optional)")
	verbose := flag.Bool("v", false, "Enable debug logging")
	listBackends := flag.Bool("list-backends", false, "Print the capture backend order and exit")
	flag.Parse()

	if *verbose {
		logging.SetDefaultLevel(pionlogging.LogLevelDebug)
	}

	if *listBackends {
		fmt.Printf("platform: %s\n", cv.HostPlatform())
		if v, ok := os.LookupEnv(cv.EnvBackends); ok {
			fmt.Printf("%s=%q\n", cv.EnvBackends, v)
		}
		for i, b := range cv.BackendsFromEnv() {
			fmt.Printf("%d. %s (%d)\n", i+1, b, int(b))
		}
		fmt.Printf("registered camera types: %v\n", driver.GetManager().Types())
		return
	}

	if err := run(*configPath, *frames, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "camcheck: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, frames int, outDir string) error {
	log := logging.NewLogger("camcheck")

	cfgs, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	cameras, err := camera.MakeCameras(cfgs)
	if err != nil {
		return err
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
	}

	var errs []error
	for name, cam := range cameras.All() {
		cfg, _ := cfgs.Get(name)
		log.Infof("%s: %s", name, cfg)
		if err := check(log, name, cam, frames, outDir); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func check(log pionlogging.LeveledLogger, name string, cam driver.Camera, frames int, outDir string) error {
	start := time.Now()
	if err := cam.Open(); err != nil {
		return err
	}
	defer func() {
		if err := cam.Close(); err != nil {
			log.Warnf("%s: close: %v", name, err)
		}
	}()
	info := cam.Info()
	log.Infof("%s: opened %s %q in %v", name, info.Type, info.Name, time.Since(start).Round(time.Millisecond))

	depth, hasDepth := cam.(driver.DepthReader)
	reader := video.DetectChanges(time.Second, func(s video.Stats) {
		if s.FPS == 0 {
			log.Infof("%s: frame size %dx%d", name, s.Width, s.Height)
			return
		}
		log.Debugf("%s: %dx%d at %.1f fps", name, s.Width, s.Height, s.FPS)
	})(cam)

	start = time.Now()
	for i := 0; i < frames; i++ {
		img, release, err := reader.Read()
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if outDir != "" {
			err = save(filepath.Join(outDir, fmt.Sprintf("%s-%03d.png", name, i)), img)
		}
		release()
		if err != nil {
			return err
		}

		if !hasDepth {
			continue
		}
		d, err := depth.ReadDepth()
		if errors.Is(err, realsense.ErrDepthDisabled) {
			hasDepth = false
			continue
		}
		if err != nil {
			return fmt.Errorf("depth frame %d: %w", i, err)
		}
		if outDir != "" {
			if err := save(filepath.Join(outDir, fmt.Sprintf("%s-depth-%03d.png", name, i)), d); err != nil {
				return err
			}
		}
	}
	if frames > 0 {
		elapsed := time.Since(start)
		fmt.Printf("%-16s %-16s %4d frames  %6.1f fps\n", name, info.Type, frames, float64(frames)/elapsed.Seconds())
	}
	return nil
}

func save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
