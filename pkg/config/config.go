package config

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	appName        = "folio"
	environmentENV = "ENVIRONMENT"
	configFileENV  = "CONFIG_FILE"
)

type Config struct {
	DataDir           string `koanf:"data_dir" json:"data_dir" validate:"required"`
	StoreFileName     string `koanf:"store_file_name" json:"store_file_name" default:"store.json" validate:"required"`
	BooksDirName      string `koanf:"books_dir_name" json:"books_dir_name" default:"books" validate:"required"`
	ThumbnailsDirName string `koanf:"thumbnails_dir_name" json:"thumbnails_dir_name" default:"thumbnails" validate:"required"`

	ServerHost string `koanf:"server_host" json:"server_host" default:"127.0.0.1"`
	ServerPort int    `koanf:"server_port" json:"server_port" default:"3690" validate:"min=0,max=65535"`

	ImportWorkers         int  `koanf:"import_workers" json:"import_workers" default:"2" validate:"min=1,max=16"`
	ImportContinueOnError bool `koanf:"import_continue_on_error" json:"import_continue_on_error" default:"true"`
	ThumbnailWidth        int  `koanf:"thumbnail_width" json:"thumbnail_width" default:"300" validate:"min=32,max=2048"`
	ThumbnailQuality      int  `koanf:"thumbnail_quality" json:"thumbnail_quality" default:"80" validate:"min=1,max=100"`
	RenderDPI             int  `koanf:"render_dpi" json:"render_dpi" default:"72" validate:"min=18,max=600"`
	PruneOrphansOnStart   bool `koanf:"prune_orphans_on_start" json:"prune_orphans_on_start"`
}

// New builds the config from defaults, then the YAML file named by
// CONFIG_FILE (if it exists), then environment variables named after the
// upper-cased keys.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	switch os.Getenv(environmentENV) {
	case "development":
		loadDevelopmentConfig(cfg)
	default:
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.DataDir = filepath.Join(dir, appName)
		}
	}

	k := koanf.New(".")

	path := configFilePath()
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	keys := knownKeys()
	err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := keys[key]; !ok {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a valid config whose data lives under dir.
func NewForTest(dir string) *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DataDir = dir
	cfg.ServerPort = 0
	return cfg
}

// dataDir is DataDir made absolute, so paths recorded in the store do not
// depend on the working directory the process was started from.
func (c *Config) dataDir() string {
	abs, err := filepath.Abs(c.DataDir)
	if err != nil {
		return c.DataDir
	}
	return abs
}

func (c *Config) StorePath() string {
	return filepath.Join(c.dataDir(), c.StoreFileName)
}

func (c *Config) BooksDir() string {
	return filepath.Join(c.dataDir(), c.BooksDirName)
}

func (c *Config) ThumbnailsDir() string {
	return filepath.Join(c.dataDir(), c.ThumbnailsDirName)
}

func (c *Config) validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.WithStack(err)
	}

	missing := []string{}
	invalid := []string{}
	for _, fe := range verrs {
		key := toSnakeCase(fe.StructField())
		if fe.Tag() == "required" {
			missing = append(missing, strings.ToUpper(key)+" ("+key+")")
			continue
		}
		invalid = append(invalid, key+" failed "+fe.Tag()+"="+fe.Param())
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return errors.Errorf("invalid config: %s", strings.Join(invalid, ", "))
}

func configFilePath() string {
	if path := os.Getenv(configFileENV); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, appName, "config.yaml")
}

func knownKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	for _, key := range Keys() {
		keys[key] = struct{}{}
	}
	return keys
}

// Keys lists every config key, sorted.
func Keys() []string {
	keys := []string{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		if key := t.Field(i).Tag.Get("koanf"); key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
