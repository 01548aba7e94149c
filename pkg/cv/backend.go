package cv

import (
	"os"
	"runtime"
	"strings"
)

// EnvBackends overrides the backend order, e.g. "DSHOW,MSMF,ANY".
const EnvBackends = "LEROBOT_OPENCV_BACKENDS"

// Backend is an OpenCV VideoCaptureAPIs identifier.
type Backend int

func (b Backend) String() string {
	for _, name := range tokenOrder {
		if tokenTable[name] == b {
			return name
		}
	}
	return "UNKNOWN"
}

// Platform is a GOOS value.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
)

// HostPlatform returns the platform the binary runs on.
func HostPlatform() Platform {
	return Platform(runtime.GOOS)
}

// tokenOrder fixes the name String reports when several tokens share an id.
var tokenOrder = []string{"ANY", "V4L", "DSHOW", "AVFOUNDATION", "MSMF"}

var tokenTable = buildTokenTable(optionalBackends)

// buildTokenTable maps override tokens to ids. Tokens of optional backends
// missing from the build resolve to BackendAny.
func buildTokenTable(optional map[string]Backend) map[string]Backend {
	table := map[string]Backend{
		"ANY":   BackendAny,
		"DSHOW": BackendDShow,
		"MSMF":  BackendMSMF,
	}
	for _, name := range []string{"AVFOUNDATION", "V4L"} {
		id, ok := optional[name]
		if !ok {
			id = BackendAny
		}
		table[name] = id
	}
	return table
}

// DefaultBackends is the order tried when no override is given.
func DefaultBackends(platform Platform) []Backend {
	if platform == PlatformWindows {
		return []Backend{BackendDShow, BackendMSMF, BackendAny}
	}
	return []Backend{BackendAny}
}

// SelectBackends returns the backends to try, in order. override is a comma
// separated, case insensitive token list. Unknown tokens are ignored and
// tokens resolving to an id already selected are skipped. If nothing valid
// remains the platform default is returned.
func SelectBackends(platform Platform, override string) []Backend {
	return selectBackends(tokenTable, platform, override)
}

func selectBackends(table map[string]Backend, platform Platform, override string) []Backend {
	if override == "" {
		return DefaultBackends(platform)
	}

	var backends []Backend
	seen := make(map[Backend]bool)
	for _, raw := range strings.Split(override, ",") {
		id, ok := table[strings.ToUpper(strings.TrimSpace(raw))]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		backends = append(backends, id)
	}

	if len(backends) == 0 {
		return DefaultBackends(platform)
	}
	return backends
}

// BackendsFromEnv selects backends for the host platform using EnvBackends.
func BackendsFromEnv() []Backend {
	return SelectBackends(HostPlatform(), os.Getenv(EnvBackends))
}
