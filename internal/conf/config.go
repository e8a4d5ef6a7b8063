// config.go: settings struct and functions to load and save the audiofp configuration.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configFiles embed.FS

// DirsConfig holds the root directories of every audio pool. Each root is a
// path prefix under which a tr/ ts/ or named subfolder convention holds .wav
// files recursively.
type DirsConfig struct {
	SourceRoot string // clean source music pool
	MixRoot    string // broadcast mix pool, paired with source for training
	BgRoot     string // background noise pool
	IrRoot     string // impulse response pool
	SpeechRoot string // speech pool
}

// DataSelConfig names the subset to use per evaluation protocol. The values
// are matched against a fixed vocabulary at resolution time.
type DataSelConfig struct {
	Train       string // "10k_icassp" or "audible"
	TestDummyDB string // "10k_full", "10k_30s", "100k_full_icassp" or a numeric string
	TestQueryDB string // "unseen_icassp" or "unseen_syn"
}

// BatchPair is a (batch size, anchor count) pair for one split.
type BatchPair struct {
	BatchSize int
	NAnchor   int
}

// BatchConfig holds per-split batch sizing. The test split carries no anchor
// count of its own, evaluation partitions derive it from the batch size.
type BatchConfig struct {
	Train BatchPair
	Val   BatchPair
	Test  struct {
		BatchSize int
	}
}

// ModelConfig holds segmenting parameters. They are passed through to the
// sequence generator unmodified, never interpreted here.
type ModelConfig struct {
	Duration   float64 // segment duration in seconds
	Hop        float64 // hop between segments in seconds
	SampleRate int     // sample rate in Hz
}

// SNRRange is the signal-to-noise bounds sampled when mixing a noise or
// speech source into a clean segment.
type SNRRange struct {
	Min float64
	Max float64
}

// SplitAug holds the augmentation toggles and SNR bounds of one split.
type SplitAug struct {
	Background      bool     // mix background noise into positives
	ImpulseResponse bool     // convolve positives with room impulse responses
	Speech          bool     // mix speech into positives
	SNR             SNRRange // bounds for background and speech mixing
}

// TDAugConfig holds the time-domain augmentation policy per split.
type TDAugConfig struct {
	Train SplitAug
	Test  SplitAug
	Val   SplitAug
}

// Settings contains all configuration options for the audiofp dataset supply.
type Settings struct {
	Debug bool // true to enable debug mode

	// Runtime values, not stored in config file
	Version   string `yaml:"-"` // Version from build
	BuildDate string `yaml:"-"` // Build date from build

	Main struct {
		Name string    // name of this audiofp node
		Log  LogConfig // logging configuration
	}

	Dirs    DirsConfig    // audio pool roots
	DataSel DataSelConfig // data selection tags
	Batch   BatchConfig   // per-split batch sizing
	Model   ModelConfig   // segmenting parameters
	TDAug   TDAugConfig   // time-domain augmentation policy
}

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled     bool         // true to enable this log
	Path        string       // Path to the log file
	Rotation    RotationType // Type of log rotation
	MaxSize     int64        // Max size in bytes for RotationSize
	RotationDay string       // Day of the week for RotationWeekly
}

// RotationType defines different types of log rotations.
type RotationType string

const (
	RotationDaily  RotationType = "daily"
	RotationWeekly RotationType = "weekly"
	RotationSize   RotationType = "size"
)

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into a new
// Settings instance.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validation happens at selector construction, after command line flags
	// have overridden the file values.

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Get OS specific config paths
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	// Assign config paths to Viper
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	// Read configuration file
	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	// Create directories for config file
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	// Write default config file
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load()
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}

// SaveYAMLConfig updates the YAML configuration file with new settings.
// It overwrites the existing file, not preserving comments or structure.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	// Marshal the settings struct to YAML
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	// Write the YAML data to a temporary file
	// This is done to ensure atomic write operation
	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	// Rename is typically atomic on most filesystems
	if err := os.Rename(tempFileName, configPath); err != nil {
		return fmt.Errorf("error replacing config file: %w", err)
	}

	return nil
}
