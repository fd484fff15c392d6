package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "erdgen"

// DefaultConfigDir returns the platform-specific configuration directory for erdgen.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, appName), nil
		}
		return "", errors.New("AppData not set")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", appName), nil
		}
		return "", errors.New("HOME not set")
	}
}

// DefaultCacheDir returns the per-user directory metadata documents are cached in.
func DefaultCacheDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if local := os.Getenv("LocalAppData"); local != "" {
			return filepath.Join(local, appName, "cache"), nil
		}
		return "", errors.New("LocalAppData not set")
	default:
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".cache", appName), nil
		}
		return "", errors.New("HOME not set")
	}
}

// SystemCacheDir returns the machine-wide metadata cache, or "" where there is none.
func SystemCacheDir() string {
	if runtime.GOOS == "windows" {
		return ""
	}
	return filepath.Join("/etc", appName)
}

// BuildCacheDir returns the build-relative metadata cache under buildDir.
func BuildCacheDir(buildDir string) string {
	if buildDir == "" {
		buildDir = "."
	}
	return filepath.Join(buildDir, "."+appName, "cache")
}

// MetadataCacheDirs lists the machine-local cache directories in lookup order:
// extra directories first, then the user cache, the system cache and the
// build-relative cache. Directories that cannot be determined are left out.
func MetadataCacheDirs(buildDir string, extra ...string) []string {
	dirs := append([]string{}, extra...)
	if dir, err := DefaultCacheDir(); err == nil {
		dirs = append(dirs, dir)
	}
	if dir := SystemCacheDir(); dir != "" {
		dirs = append(dirs, dir)
	}
	return append(dirs, BuildCacheDir(buildDir))
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return os.MkdirAll(dir, 0o755)
}

// ConfigCandidatePaths builds candidate paths for config files per format.
// If userPath is provided, it is prioritized and routed to the matching loader by extension.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	add := func(slice *[]string, p string) { *slice = append(*slice, p) }
	addAll := func(dir string, bases ...string) {
		for _, base := range bases {
			add(&jsonPaths, filepath.Join(dir, base+".json"))
			add(&yamlPaths, filepath.Join(dir, base+".yaml"))
			add(&yamlPaths, filepath.Join(dir, base+".yml"))
			add(&tomlPaths, filepath.Join(dir, base+".toml"))
		}
	}

	if userPath != "" {
		switch ext := filepath.Ext(userPath); ext {
		case ".json":
			add(&jsonPaths, userPath)
		case ".yaml", ".yml":
			add(&yamlPaths, userPath)
		case ".toml":
			add(&tomlPaths, userPath)
		default:
			add(&jsonPaths, userPath)
		}
	}

	wd, _ := os.Getwd()
	addAll(wd, appName, "config")

	if dir, err := DefaultConfigDir(); err == nil {
		addAll(dir, "config")
	}

	if runtime.GOOS != "windows" {
		addAll(filepath.Join("/etc", appName), "config")
	}

	return
}
