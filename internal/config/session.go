package config

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	service "github.com/okian/contestboard/internal/app"
)

// LoadSession reads a session file: the contest ids, team list and view
// settings that a watch run recomputes from. Unset keys keep the values
// of defaults.
func LoadSession(_ context.Context, path string, defaults service.Request) (service.Request, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return service.Request{}, fmt.Errorf("%w: %s: %w", ErrLoadSession, path, err)
	}
	req := defaults
	if err := k.UnmarshalWithConf("", &req, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return service.Request{}, fmt.Errorf("%w: %s: %w", ErrLoadSession, path, err)
	}
	if err := validate.Struct(req); err != nil {
		return service.Request{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return req, nil
}

// SessionDefaults seeds a session request from process configuration.
func (c *Config) SessionDefaults() service.Request {
	return service.Request{
		IncludeLate:  c.IncludeLate,
		AutoDiscover: c.AutoDiscover,
		EloMode:      c.EloMode,
	}
}
