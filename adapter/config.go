package adapter

import (
	"fmt"
	"os"
	"time"

	"github.com/aura-studio/fxlambda/engine"
	"github.com/gofiber/fiber/v2"
	yaml "gopkg.in/yaml.v2"
)

type yamlConfig struct {
	Engine string `yaml:"engine"`
	Debug  bool   `yaml:"debug"`
	Warmup struct {
		Source string `yaml:"source"`
	} `yaml:"warmup"`
	Fiber struct {
		Options     *yamlFiberOptions `yaml:"options"`
		BinaryTypes []string          `yaml:"binaryTypes"`
	} `yaml:"fiber"`
}

type yamlFiberOptions struct {
	AppName               string        `yaml:"appName"`
	ServerHeader          string        `yaml:"serverHeader"`
	ProxyHeader           string        `yaml:"proxyHeader"`
	BodyLimit             int           `yaml:"bodyLimit"`
	Concurrency           int           `yaml:"concurrency"`
	CaseSensitive         bool          `yaml:"caseSensitive"`
	StrictRouting         bool          `yaml:"strictRouting"`
	UnescapePath          bool          `yaml:"unescapePath"`
	ETag                  bool          `yaml:"etag"`
	DisableStartupMessage bool          `yaml:"disableStartupMessage"`
	EnablePrintRoutes     bool          `yaml:"enablePrintRoutes"`
	ReadTimeout           time.Duration `yaml:"readTimeout"`
	WriteTimeout          time.Duration `yaml:"writeTimeout"`
	IdleTimeout           time.Duration `yaml:"idleTimeout"`
}

func (c *yamlFiberOptions) config() fiber.Config {
	return fiber.Config{
		AppName:               c.AppName,
		ServerHeader:          c.ServerHeader,
		ProxyHeader:           c.ProxyHeader,
		BodyLimit:             c.BodyLimit,
		Concurrency:           c.Concurrency,
		CaseSensitive:         c.CaseSensitive,
		StrictRouting:         c.StrictRouting,
		UnescapePath:          c.UnescapePath,
		ETag:                  c.ETag,
		DisableStartupMessage: c.DisableStartupMessage,
		EnablePrintRoutes:     c.EnablePrintRoutes,
		ReadTimeout:           c.ReadTimeout,
		WriteTimeout:          c.WriteTimeout,
		IdleTimeout:           c.IdleTimeout,
	}
}

func optionFromConfig(cfg yamlConfig) Option {
	return OptionFunc(func(o *Options) {
		if cfg.Engine != "" {
			k, err := engine.ParseKind(cfg.Engine)
			if err != nil {
				panic(err)
			}
			o.Engine = k
		}
		o.DebugMode = cfg.Debug
		if cfg.Warmup.Source != "" {
			o.WarmupSource = cfg.Warmup.Source
		}
		if cfg.Fiber.Options != nil {
			fc := cfg.Fiber.Options.config()
			o.FiberConfig = &fc
		}
		if cfg.Fiber.BinaryTypes != nil {
			o.BinaryTypes = append([]string{}, cfg.Fiber.BinaryTypes...)
		}
	})
}

func optionFromConfigBytes(b []byte) (Option, error) {
	var cfg yamlConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}

	return optionFromConfig(cfg), nil
}

// WithConfig parses YAML bytes following lambda.yaml structure and applies it to Options.
// It panics if the YAML is invalid or names an unknown engine.
func WithConfig(yamlBytes []byte) Option {
	opt, err := optionFromConfigBytes(yamlBytes)
	if err != nil {
		return OptionFunc(func(*Options) {
			panic(fmt.Errorf("adapter.WithConfig: %w", err))
		})
	}
	return opt
}

// WithConfigFile loads a YAML file and applies it to Options.
// It panics if the file cannot be read or YAML is invalid.
func WithConfigFile(path string) Option {
	b, err := os.ReadFile(path)
	if err != nil {
		return OptionFunc(func(*Options) {
			panic(fmt.Errorf("adapter.WithConfigFile(%s): %w", path, err))
		})
	}
	return WithConfig(b)
}
