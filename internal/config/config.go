package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Artifacts names the three objects that make up one model: the ONNX
// weights blob, the graph metadata JSON, and the class-label list. All five
// values are environment-provided with no defaults.
type Artifacts struct {
	Bucket   string
	Prefix   string
	Weights  string
	Metadata string
	Labels   string
}

// Settings holds the server-side knobs that are not part of the artifact
// contract. They have sensible defaults and may be overridden by a YAML file.
type Settings struct {
	Addr          string
	CacheDir      string
	FetchTimeout  time.Duration
	MaxImageBytes int64
}

// settingsFile is the on-disk YAML shape. Durations are written as strings
// ("15s"), so the file is decoded separately and merged onto the defaults.
type settingsFile struct {
	Addr          string `yaml:"addr"`
	CacheDir      string `yaml:"cache_dir"`
	FetchTimeout  string `yaml:"fetch_timeout"`
	MaxImageBytes *int64 `yaml:"max_image_bytes"`
}

const (
	envBucket   = "MODEL_BUCKET"
	envPrefix   = "MODEL_PREFIX"
	envWeights  = "MODEL_WEIGHTS_FILE"
	envMetadata = "MODEL_METADATA_FILE"
	envLabels   = "MODEL_LABELS_FILE"
)

// ArtifactsFromEnv reads the artifact coordinates from the environment.
// Every variable is required; the error names all that are missing.
func ArtifactsFromEnv() (Artifacts, error) {
	a := Artifacts{
		Bucket:   os.Getenv(envBucket),
		Prefix:   os.Getenv(envPrefix),
		Weights:  os.Getenv(envWeights),
		Metadata: os.Getenv(envMetadata),
		Labels:   os.Getenv(envLabels),
	}

	var missing []string
	for _, v := range []struct {
		name, value string
	}{
		{envBucket, a.Bucket},
		{envPrefix, a.Prefix},
		{envWeights, a.Weights},
		{envMetadata, a.Metadata},
		{envLabels, a.Labels},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return Artifacts{}, fmt.Errorf("missing required environment variables: %s",
			strings.Join(missing, ", "))
	}
	return a, nil
}

// Defaults returns the settings used when no config file is given.
func Defaults() Settings {
	return Settings{
		Addr:          ":8080",
		CacheDir:      os.TempDir(),
		FetchTimeout:  15 * time.Second,
		MaxImageBytes: 10 << 20,
	}
}

// LoadSettings reads a YAML settings file and overlays it on the defaults.
// Fields absent from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading config file: %w", err)
	}
	var f settingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Settings{}, fmt.Errorf("parsing config file: %w", err)
	}

	if f.Addr != "" {
		s.Addr = f.Addr
	}
	if f.CacheDir != "" {
		s.CacheDir = f.CacheDir
	}
	if f.FetchTimeout != "" {
		d, err := time.ParseDuration(f.FetchTimeout)
		if err != nil {
			return Settings{}, fmt.Errorf("parsing fetch_timeout: %w", err)
		}
		if d <= 0 {
			return Settings{}, fmt.Errorf("fetch_timeout must be positive, got %s", d)
		}
		s.FetchTimeout = d
	}
	if f.MaxImageBytes != nil {
		if *f.MaxImageBytes <= 0 {
			return Settings{}, fmt.Errorf("max_image_bytes must be positive, got %d", *f.MaxImageBytes)
		}
		s.MaxImageBytes = *f.MaxImageBytes
	}
	return s, nil
}
