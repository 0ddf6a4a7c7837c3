// Package config reads the optional cpltasks.toml file.
package config

import (
	"io"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/cpltasks/cpltasks/tasklist"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Loaders
const (
	LoaderNative = "native"
	LoaderPE     = "pe"
)

// Config is what a cpltasks.toml file can set. Flags win over
// anything in here.
type Config struct {
	// module loader: "native" (Windows loader) or "pe" (reads files directly)
	Loader string `json:"loader" mapstructure:"loader"`

	TaskList TaskList `json:"task_list" mapstructure:"task_list"`
	Output   Output   `json:"output" mapstructure:"output"`
	Host     Host     `json:"host" mapstructure:"host"`

	// extra command fixups, on top of the built-in ones
	Fixups []FixupEntry `json:"fixups" mapstructure:"fixups"`
}

// TaskList locates the task-list document.
type TaskList struct {
	Module       string `json:"module" mapstructure:"module"`
	ResourceType string `json:"resource_type" mapstructure:"resource_type"`
	ResourceID   int    `json:"resource_id" mapstructure:"resource_id"`
}

type Output struct {
	Dir string `json:"dir" mapstructure:"dir"`
}

// Host overrides what is detected about the running system.
type Host struct {
	// e.g. "English_United States"
	Language string `json:"language" mapstructure:"language"`
	// e.g. "19045.3803"
	WindowsVersion string `json:"windows_version" mapstructure:"windows_version"`
	// e.g. ["en-US"]
	UILanguages []string `json:"ui_languages" mapstructure:"ui_languages"`
}

type FixupEntry struct {
	Name      string `json:"name" mapstructure:"name"`
	Transform string `json:"transform" mapstructure:"transform"`
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		Loader: LoaderNative,
		TaskList: TaskList{
			Module:       "shell32.dll",
			ResourceType: "XML",
			ResourceID:   21,
		},
		Output: Output{
			Dir: ".",
		},
	}
}

// Load reads the config file at `path`. An empty path, or a path
// that doesn't exist, gives the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return c, nil
}

// Decode reads TOML from `r` over the defaults, and validates
// the result.
func Decode(r io.Reader) (*Config, error) {
	intermediate := make(map[string]interface{})
	_, err := toml.DecodeReader(r, &intermediate)
	if err != nil {
		// invalid TOML
		return nil, errors.WithStack(err)
	}

	c := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      c,
		ErrorUnused: true,
	})
	if err != nil {
		// internal error
		return nil, errors.WithStack(err)
	}

	err = decoder.Decode(intermediate)
	if err != nil {
		// invalid config structure
		return nil, errors.WithStack(err)
	}

	err = c.Validate()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return c, nil
}

func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Loader, validation.Required, validation.In(LoaderNative, LoaderPE)),
		validation.Field(&c.TaskList),
		validation.Field(&c.Output),
	)
	if err != nil {
		return err
	}

	for i, f := range c.Fixups {
		err := f.Validate()
		if err != nil {
			return errors.WithMessage(err, "fixup #"+strconv.Itoa(i+1))
		}
	}
	return nil
}

func (t TaskList) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Module, validation.Required),
		validation.Field(&t.ResourceType, validation.Required),
		validation.Field(&t.ResourceID, validation.Required, validation.Min(1), validation.Max(0xffff)),
	)
}

func (o Output) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Dir, validation.Required),
	)
}

func (f FixupEntry) Validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Transform, validation.Required),
	)
	if err != nil {
		return err
	}

	_, err = tasklist.NewFixup(f.Name, f.Transform)
	return err
}

// AllFixups returns the built-in fixups followed by the configured ones.
func (c *Config) AllFixups() ([]tasklist.Fixup, error) {
	fixups := tasklist.DefaultFixups()
	for _, entry := range c.Fixups {
		f, err := tasklist.NewFixup(entry.Name, entry.Transform)
		if err != nil {
			return nil, err
		}
		fixups = append(fixups, f)
	}
	return fixups, nil
}
