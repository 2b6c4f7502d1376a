package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/generator"
)

// EnvPrefix prefixes every environment override, e.g. JSON2STRUCT_RUST_INFER_NUMBERS.
const EnvPrefix = "JSON2STRUCT"

// DefaultFileName is the name written by `json2struct init`.
const DefaultFileName = ".json2struct.yml"

// Config represents the complete configuration for json2struct
type Config struct {
	Language   string           `yaml:"language" mapstructure:"language" validate:"required,language"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	TypeScript TypeScriptConfig `yaml:"typescript" mapstructure:"typescript"`
	Rust       RustConfig       `yaml:"rust" mapstructure:"rust"`
	Watch      WatchConfig      `yaml:"watch" mapstructure:"watch"`
	Dev        DevConfig        `yaml:"dev" mapstructure:"dev"`
}

// OutputConfig controls how generated text is written
type OutputConfig struct {
	FileHeader string `yaml:"file_header" mapstructure:"file_header"`
	Overwrite  bool   `yaml:"overwrite" mapstructure:"overwrite"`
}

// TypeScriptConfig overrides the TypeScript placeholder types
type TypeScriptConfig struct {
	NullType   string `yaml:"null_type" mapstructure:"null_type" validate:"omitempty,oneof=string number object null boolean unknown any"`
	ArrayType  string `yaml:"array_type" mapstructure:"array_type" validate:"omitempty,oneof=string number object null boolean unknown any"`
	ObjectType string `yaml:"object_type" mapstructure:"object_type" validate:"omitempty,oneof=string number object null boolean unknown any"`
}

// RustConfig controls the Rust target. Bit sizes are not validated here:
// unsupported widths fall back to the numeric defaults at render time.
type RustConfig struct {
	InferNumbers    bool     `yaml:"infer_numbers" mapstructure:"infer_numbers"`
	IntegerBitSize  int      `yaml:"integer_bit_size" mapstructure:"integer_bit_size"`
	Unsigned        bool     `yaml:"unsigned" mapstructure:"unsigned"`
	FloatBitSize    int      `yaml:"float_bit_size" mapstructure:"float_bit_size"`
	Derives         []string `yaml:"derives" mapstructure:"derives" validate:"dive,required"`
	SnakeCaseFields bool     `yaml:"snake_case_fields" mapstructure:"snake_case_fields"`
}

// WatchConfig controls `convert --watch`
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms" validate:"gte=0"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug    bool `yaml:"debug" mapstructure:"debug"`
	JSONLogs bool `yaml:"json_logs" mapstructure:"json_logs"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	ts := generator.DefaultTypeScriptOptions()
	rs := generator.DefaultRustOptions()
	return &Config{
		Language: string(generator.TypeScript),
		TypeScript: TypeScriptConfig{
			NullType:   ts.NullType,
			ArrayType:  ts.ArrayType,
			ObjectType: ts.ObjectType,
		},
		Rust: RustConfig{
			IntegerBitSize: rs.IntegerBitSize,
			FloatBitSize:   rs.FloatBitSize,
			Derives:        []string{},
		},
		Watch: WatchConfig{DebounceMs: 200},
	}
}

// Load reads configuration from path, or from a discovered config file when
// path is empty, applies JSON2STRUCT_* environment overrides and validates
// every setting except the language. Missing config files are not an error
// when path is empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, NewConfig())

	if path == "" {
		path = FindConfigFile()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewConfigError("config file '"+path+"' not found", errors.ErrFileNotFound)
			}
			return nil, errors.NewConfigError("failed to read config file '"+path+"'", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("failed to decode configuration", err)
	}

	// the language is checked by the command, after --language is applied
	if err := validateSettings(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so that environment overrides apply even
// when no config file sets them.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("language", cfg.Language)
	v.SetDefault("output.file_header", cfg.Output.FileHeader)
	v.SetDefault("output.overwrite", cfg.Output.Overwrite)
	v.SetDefault("typescript.null_type", cfg.TypeScript.NullType)
	v.SetDefault("typescript.array_type", cfg.TypeScript.ArrayType)
	v.SetDefault("typescript.object_type", cfg.TypeScript.ObjectType)
	v.SetDefault("rust.infer_numbers", cfg.Rust.InferNumbers)
	v.SetDefault("rust.integer_bit_size", cfg.Rust.IntegerBitSize)
	v.SetDefault("rust.unsigned", cfg.Rust.Unsigned)
	v.SetDefault("rust.float_bit_size", cfg.Rust.FloatBitSize)
	v.SetDefault("rust.derives", cfg.Rust.Derives)
	v.SetDefault("rust.snake_case_fields", cfg.Rust.SnakeCaseFields)
	v.SetDefault("watch.debounce_ms", cfg.Watch.DebounceMs)
	v.SetDefault("dev.debug", cfg.Dev.Debug)
	v.SetDefault("dev.json_logs", cfg.Dev.JSONLogs)
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{DefaultFileName, ".json2struct.yaml", "json2struct.yml", "json2struct.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// WriteDefault writes the default configuration to path as YAML. An existing
// file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.NewConfigError("config file '"+path+"' already exists", nil)
	}

	data, err := yaml.Marshal(NewConfig())
	if err != nil {
		return errors.NewConfigError("failed to encode default configuration", err)
	}

	header := "# json2struct configuration\n# Every key can be overridden with " + EnvPrefix + "_<SECTION>_<KEY>.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return errors.NewOutputError("failed to write config file '"+path+"'", err)
	}
	return nil
}

// GeneratorOptions maps the language sections onto emitter options.
func (c *Config) GeneratorOptions() generator.Options {
	return generator.Options{
		TypeScript: generator.TypeScriptOptions{
			NullType:   c.TypeScript.NullType,
			ArrayType:  c.TypeScript.ArrayType,
			ObjectType: c.TypeScript.ObjectType,
		},
		Rust: generator.RustOptions{
			InferNumbers:    c.Rust.InferNumbers,
			IntegerBitSize:  c.Rust.IntegerBitSize,
			Unsigned:        c.Rust.Unsigned,
			FloatBitSize:    c.Rust.FloatBitSize,
			Derives:         c.Rust.Derives,
			SnakeCaseFields: c.Rust.SnakeCaseFields,
		},
	}
}

// ApplyCLI overrides file and environment values with explicitly set flags.
func (c *Config) ApplyCLI(language string, overwrite bool) {
	if language != "" {
		c.Language = language
	}
	if overwrite {
		c.Output.Overwrite = true
	}
}
