// Package config resolves monitor settings from the environment and the
// stack metadata file.
//
// Precedence, lowest to highest: built-in defaults, metadata file,
// STACK_MON_* environment variables, command-line flags (applied by the
// caller). Configuration problems degrade to defaults with a warning;
// they never abort the monitor.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by the monitor. Names are shared with
// the shell tooling that wraps it.
const (
	EnvMetadataFile = "STACKCTL_METADATA_FILE"
	EnvRefresh      = "STACK_MON_REFRESH"
	EnvProfiles     = "STACK_MON_PROFILES"
	EnvServices     = "STACK_MON_SERVICES"
	EnvComposeFile  = "STACK_MON_COMPOSE_FILE"
	EnvProject      = "STACK_MON_PROJECT"
	EnvProbePorts   = "STACK_MON_PROBE_PORTS"
	EnvLogErrors    = "STACK_MON_LOG_ERRORS"
	EnvUI           = "STACK_MON_UI"
)

// Toggle is a three-valued switch resolved to a concrete boolean once at
// startup.
type Toggle string

const (
	On   Toggle = "on"
	Off  Toggle = "off"
	Auto Toggle = "auto"
)

// ParseToggle interprets a toggle value the way the stack tooling does:
// the usual falsy words mean off, "auto" means auto, anything else
// (including empty) falls back to def.
func ParseToggle(raw string, def Toggle) Toggle {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "off", "false", "0", "no":
		return Off
	case "on", "true", "1", "yes":
		return On
	case "auto":
		return Auto
	default:
		return def
	}
}

// UIMode selects the presentation backend.
type UIMode string

const (
	UIAuto  UIMode = "auto"  // full-screen on a terminal, plain otherwise
	UIPlain UIMode = "plain" // redraw-in-place table
	UIFull  UIMode = "full"  // full-screen interactive table
)

// ParseUIMode returns the mode for raw, or def when raw is empty or unknown.
func ParseUIMode(raw string, def UIMode) UIMode {
	switch mode := UIMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case UIAuto, UIPlain, UIFull:
		return mode
	default:
		return def
	}
}

// Settings is the fully resolved monitor configuration.
type Settings struct {
	MetadataPath string
	StackName    string
	StackSlug    string
	StackVersion string

	ComposeFile string
	Project     string
	Profiles    []string // explicit profile scope; empty means discover
	Services    []string // explicit service scope; wins over Profiles

	Refresh    time.Duration
	ProbePorts Toggle
	LogErrors  bool
	UI         UIMode

	LogWindow time.Duration // cache TTL for log-error judgments
	LogTail   int           // log lines sampled per fetch
	LogMaxAge time.Duration // oldest log line considered
}

// Defaults returns the built-in configuration.
func Defaults() Settings {
	return Settings{
		MetadataPath: "metadata.json",
		StackName:    "Stack",
		StackSlug:    "stack",
		StackVersion: "dev",
		ComposeFile:  "docker-compose.yml",
		Refresh:      time.Second,
		ProbePorts:   Auto,
		LogErrors:    true,
		UI:           UIAuto,
		LogWindow:    10 * time.Second,
		LogTail:      80,
		LogMaxAge:    45 * time.Second,
	}
}

// Metadata mirrors the stack metadata file. The file is JSON in practice;
// YAML being a superset, both parse.
type Metadata struct {
	Stack struct {
		Name    string `yaml:"name"`
		Slug    string `yaml:"slug"`
		Version string `yaml:"version"`
	} `yaml:"stack"`
	Compose struct {
		File               string `yaml:"file"`
		ProjectNameDefault string `yaml:"project_name_default"`
	} `yaml:"compose"`
	Monitor struct {
		RefreshSeconds float64 `yaml:"refresh_seconds"`
	} `yaml:"monitor"`
}

// LoadMetadata reads the metadata file. A missing file yields an empty
// Metadata (not an error); a malformed one is an error the caller should
// warn about and ignore.
func LoadMetadata(path string) (Metadata, error) {
	var meta Metadata
	if path == "" {
		return meta, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return meta, nil
		}
		return meta, fmt.Errorf("read metadata: %w", err)
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, nil
}

// FromEnv resolves settings from defaults, the metadata file and the
// environment, in that order.
func FromEnv() Settings {
	s := Defaults()
	if v := os.Getenv(EnvMetadataFile); v != "" {
		s.MetadataPath = v
	}

	meta, err := LoadMetadata(s.MetadataPath)
	if err != nil {
		slog.Warn("ignoring metadata file", "path", s.MetadataPath, "err", err)
	}
	s.apply(meta)

	if v := os.Getenv(EnvComposeFile); v != "" {
		s.ComposeFile = v
	}
	if v := os.Getenv(EnvProject); v != "" {
		s.Project = v
	}
	s.Profiles = splitCSV(os.Getenv(EnvProfiles))
	s.Services = splitCSV(os.Getenv(EnvServices))

	if v := os.Getenv(EnvRefresh); v != "" {
		if d, err := ParseRefresh(v); err != nil {
			slog.Warn("invalid refresh value, keeping default", "value", v, "err", err)
		} else {
			s.Refresh = d
		}
	}

	s.ProbePorts = ParseToggle(os.Getenv(EnvProbePorts), s.ProbePorts)
	s.LogErrors = ParseToggle(os.Getenv(EnvLogErrors), On) != Off
	s.UI = ParseUIMode(os.Getenv(EnvUI), s.UI)

	s.clamp()
	return s
}

func (s *Settings) apply(meta Metadata) {
	if meta.Stack.Name != "" {
		s.StackName = meta.Stack.Name
	}
	if meta.Stack.Slug != "" {
		s.StackSlug = meta.Stack.Slug
	}
	if meta.Stack.Version != "" {
		s.StackVersion = meta.Stack.Version
	}
	if meta.Compose.File != "" {
		s.ComposeFile = meta.Compose.File
	}
	if meta.Compose.ProjectNameDefault != "" {
		s.Project = meta.Compose.ProjectNameDefault
	}
	if meta.Monitor.RefreshSeconds > 0 {
		s.Refresh = time.Duration(meta.Monitor.RefreshSeconds * float64(time.Second))
	}
}

func (s *Settings) clamp() {
	if s.Refresh <= 0 {
		s.Refresh = time.Second
	}
	if s.LogTail <= 0 {
		s.LogTail = 80
	}
	if s.LogWindow <= 0 {
		s.LogWindow = 10 * time.Second
	}
	if s.LogMaxAge <= 0 {
		s.LogMaxAge = 45 * time.Second
	}
}

// ParseRefresh accepts plain seconds ("1.5") or a Go duration ("1500ms").
func ParseRefresh(raw string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("refresh must be positive, got %v", secs)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse refresh %q: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("refresh must be positive, got %s", d)
	}
	return d, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
