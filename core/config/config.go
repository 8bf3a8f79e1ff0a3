package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"sigs.k8s.io/yaml"

	"github.com/josephlewis42/dosbatch/core/dosenv"
	"github.com/josephlewis42/dosbatch/core/dosfs"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	RecordingsDirName = "recordings"
	AppLogName        = "app.log"
)

type Configuration struct {
	hostFs   afero.Fs
	dir      string
	configFs afero.Fs

	Echo     bool   `json:"echo"`
	Prompt   string `json:"prompt" validate:"required"`
	LogLevel string `json:"log_level" validate:"oneof=trace debug info warn error"`
	Encoding string `json:"encoding" validate:"oneof=cp437 ascii"`

	ProgramExtensions []string `json:"program_extensions" validate:"required,unique,dive,startswith=."`

	Drives []Drive `json:"drives" validate:"required,unique=Letter,dive"`

	Environment []string `json:"environment" validate:"dive,required"`
}

// Drive maps a host directory to a DOS drive letter.
type Drive struct {
	Letter string `json:"letter" validate:"required,len=1,alpha"`
	Path   string `json:"path" validate:"required"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	if err := validate.Struct(c); err != nil {
		return err
	}

	for _, entry := range c.Environment {
		if !strings.Contains(entry, "=") {
			return fmt.Errorf("environment entry %q must be NAME=value", entry)
		}
	}
	return nil
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// CreateRecording creates a session recording with the given name.
func (c *Configuration) CreateRecording(name string) (afero.File, error) {
	toCreate := filepath.Join(RecordingsDirName, name)
	return c.fs().Create(toCreate)
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// Level is the configured log level.
func (c *Configuration) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// BatchEncoding is the character set batch files are decoded with.
func (c *Configuration) BatchEncoding() encoding.Encoding {
	if c.Encoding == "ascii" {
		return encoding.Nop
	}
	return charmap.CodePage437
}

// Env builds the initial environment block. PROMPT defaults to the
// configured prompt.
func (c *Configuration) Env() *dosenv.Env {
	env := dosenv.NewEnvFromList(c.Environment)
	if _, ok := env.LookupEnv("PROMPT"); !ok && c.Prompt != "" {
		// Ignore error, PROMPT is a valid name and the value isn't empty.
		_ = env.Setenv("PROMPT", c.Prompt)
	}
	return env
}

// MountDrives mounts the configured drives. Relative drive paths are
// resolved from the configuration directory.
func (c *Configuration) MountDrives(fsys *dosfs.FS) error {
	for _, d := range c.Drives {
		path := d.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.dir, path)
		}
		root := afero.NewBasePathFs(c.hostFs, path)
		if err := fsys.Mount(d.Letter, root); err != nil {
			return fmt.Errorf("mounting drive %s: %w", d.Letter, err)
		}
	}
	return nil
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
