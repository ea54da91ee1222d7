package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	FilesystemLocal = "local"
	FilesystemS3    = "s3"
)

const sweepPrefix = "SWEEP"

type Config struct {
	Port        int    `mapstructure:"port"`
	Host        string `mapstructure:"host"`
	Environment string `mapstructure:"environment"`
	SweepHome   string `mapstructure:"sweep_home"`
	DataDir     string `mapstructure:"data_dir"`
	Filesystem  string `mapstructure:"filesystem_type"`

	S3       *S3Config       `mapstructure:"s3"`
	DB       *DBConfig       `mapstructure:"db"`
	Dataset  *DatasetConfig  `mapstructure:"dataset"`
	Tracking *TrackingConfig `mapstructure:"tracking"`
	Training *TrainingConfig `mapstructure:"training"`
	Sweep    *SweepConfig    `mapstructure:"sweep"`
}

type S3Config struct {
	Region      string `mapstructure:"region_name"`
	Bucket      string `mapstructure:"bucket_name"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	EndpointUrl string `mapstructure:"endpoint_url"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type DatasetConfig struct {
	URL          string  `mapstructure:"url"`
	TestFraction float64 `mapstructure:"test_fraction"`
	Seed         int64   `mapstructure:"seed"`
	KeyPrefix    string  `mapstructure:"key_prefix"`
}

type TrackingConfig struct {
	BaseUrl        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type TrainingConfig struct {
	BaseUrl           string             `mapstructure:"base_url"`
	EntryPoint        string             `mapstructure:"entry_point"`
	FrameworkVersion  string             `mapstructure:"framework_version"`
	InstanceType      string             `mapstructure:"instance_type"`
	InstanceCount     int                `mapstructure:"instance_count"`
	MetricDefinitions []MetricDefinition `mapstructure:"metric_definitions"`
	Tags              map[string]string  `mapstructure:"tags"`
}

type MetricDefinition struct {
	Name  string `mapstructure:"name"`
	Regex string `mapstructure:"regex"`
}

type SweepConfig struct {
	Experiment         string            `mapstructure:"experiment"`
	Description        string            `mapstructure:"description"`
	BaseJobName        string            `mapstructure:"base_job_name"`
	Parameters         []ParameterConfig `mapstructure:"parameters"`
	SubmitPauseSeconds int               `mapstructure:"submit_pause_seconds"`
	CleanupPauseMillis int               `mapstructure:"cleanup_pause_millis"`
	SortMetric         string            `mapstructure:"sort_metric"`
	LabelParams        []string          `mapstructure:"label_params"`
}

type ParameterConfig struct {
	Name   string    `mapstructure:"name"`
	Values []float64 `mapstructure:"values"`
}

var config *Config

func InitConfig() error {
	sweepHome, err := getSweepHome()
	if err != nil {
		return err
	}

	dataDir, err := getDataDir(sweepHome)
	if err != nil {
		return err
	}

	if err := createSweepHomeDirs(sweepHome); err != nil {
		return err
	}

	viper.Set("sweep_home", sweepHome)
	viper.Set("data_dir", dataDir)

	viper.SetDefault("db.driver", "sqlite")
	viper.SetDefault("db.dsn", "file:"+filepath.Join(sweepHome, "sweeprun.db")+"?cache=shared")

	envFile := viper.GetString("env_file")
	if envFile == "" {
		envFile = filepath.Join(sweepHome, ".env")
	}

	configFile := viper.GetString("config_file")
	if configFile == "" {
		configFile = filepath.Join(sweepHome, "config.yaml")
	}

	if _, err := os.Stat(configFile); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config.yaml file: %w", err)
		}

		if err := WriteConfig(configFile, sweepHome); err != nil {
			return fmt.Errorf("failed to create config.yaml file: %w", err)
		}
	}

	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(sweepPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	viper.SetConfigFile(configFile)

	setDefaults()

	if err := LoadConfig(false); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			fmt.Println("No config file found. Using default config.")
		} else {
			return err
		}
	}

	return nil
}

func LoadConfig(reload bool) error {
	if config != nil && !reload {
		return fmt.Errorf("config already loaded")
	}

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config: %w", err)
	}

	config = &Config{}
	err := viper.Unmarshal(config)
	if err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	return nil
}

func IsLoaded() bool {
	return config != nil
}

func GetConfig() *Config {
	if config == nil {
		panic("config not loaded")
	}

	return config
}

// SetConfig replaces the loaded config. Used by tests.
func SetConfig(cfg *Config) {
	config = cfg
}

// Returns the sweep home directory path.
// It attempts to retrieve it from the following sources in order:
// 1. The `sweep_home` flag from viper.
// 2. The `SWEEP_HOME` environment variable.
// 3. The default sweep home directory.
func getSweepHome() (string, error) {
	sweepHome := viper.GetString("sweep_home")
	if sweepHome == "" {
		sweepHome = os.Getenv("SWEEP_HOME")
		if sweepHome == "" {
			sweepHome = DefaultSweepHome
		}
	}

	sweepHome, err := expandPath(sweepHome)
	if err != nil {
		return "", fmt.Errorf("failed to expand sweep home path: %w", err)
	}

	return sweepHome, nil
}

func getDataDir(sweepHome string) (string, error) {
	if sweepHome == "" {
		return "", ErrSweepHomeNotSet
	}

	dataDir := viper.GetString("data_dir")
	if dataDir == "" {
		dataDir = filepath.Join(sweepHome, "data")
	}

	dataDir, err := expandPath(dataDir)
	if err != nil {
		return "", ErrSweepHomeExpandFailed
	}

	return dataDir, nil
}

func createSweepHomeDirs(sweepHome string) error {
	subdirs := []string{"data", filepath.Join("data", "train"), filepath.Join("data", "test")}
	if err := os.MkdirAll(sweepHome, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create sweep home directory: %w", err)
	}

	for _, subdir := range subdirs {
		dir := filepath.Join(sweepHome, subdir)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", subdir, err)
		}
	}

	return nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[1:])
	}
	return path, nil
}
