package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gravitrone/polytag/internal/tag"
	"github.com/gravitrone/polytag/internal/tagger"
	"github.com/gravitrone/polytag/internal/webapi"
)

// Defaults applied on load.
const (
	DefaultMinInputLength = tagger.DefaultMinInputLength
	DefaultBreakerTimeout = tagger.DefaultBreakerTimeout
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultLanguageRel    = "pt_language_pt_tag"
)

// Config holds CLI configuration stored at ~/.polytag/config.
type Config struct {
	APIBase string `yaml:"api_base" validate:"required,url"`
	Token   string `yaml:"token"`

	Scope       string `yaml:"scope" validate:"required"`
	DefaultLCID string `yaml:"default_lcid" validate:"required"`

	OwnerEntity string `yaml:"owner_entity" validate:"required"`
	OwnerID     string `yaml:"owner_id,omitempty"`

	RelationshipName     string `yaml:"relationship_name,omitempty"`
	IntersectCollection  string `yaml:"intersect_collection,omitempty"`
	LanguageRelationship string `yaml:"language_relationship,omitempty"`

	MinInputLength int           `yaml:"min_input_length,omitempty" validate:"gte=0,lte=64"`
	BreakerTimeout time.Duration `yaml:"breaker_timeout,omitempty" validate:"gte=0"`
	HTTPTimeout    time.Duration `yaml:"http_timeout,omitempty" validate:"gte=0"`
	RateLimit      float64       `yaml:"rate_limit,omitempty" validate:"gte=0"`

	LogLevel string `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFile  string `yaml:"log_file,omitempty"`

	Schema webapi.Schema `yaml:"schema,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Path returns the config file path.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".polytag", "config")
}

// Dir returns the directory holding the config and log files.
func Dir() string {
	return filepath.Dir(Path())
}

// Load reads, validates and fills defaults. Returns error if missing or insecure.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.DefaultLCID = tag.NormalizeLCID(c.DefaultLCID)
	if c.MinInputLength == 0 {
		c.MinInputLength = DefaultMinInputLength
	}
	if c.BreakerTimeout == 0 {
		c.BreakerTimeout = DefaultBreakerTimeout
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = webapi.DefaultRateLimit
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(Dir(), "polytag.log")
	}
	if c.LanguageRelationship == "" {
		c.LanguageRelationship = DefaultLanguageRel
	}
	c.Schema = c.Schema.WithDefaults()
}

// Validate checks required fields and ranges. Messages name the YAML key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s (%s)", yamlKey(fe.StructField()), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// Settings maps the config onto orchestrator settings. ownerID overrides the
// configured record when set.
func (c *Config) Settings(ownerID string) tagger.Settings {
	if ownerID == "" {
		ownerID = c.OwnerID
	}
	return tagger.Settings{
		Scope:                c.Scope,
		ViewerLCID:           c.DefaultLCID,
		OwnerEntity:          c.OwnerEntity,
		OwnerID:              ownerID,
		TagEntity:            c.Schema.TagEntity,
		LanguageEntity:       c.Schema.LanguageEntity,
		LanguageRelationship: c.LanguageRelationship,
		RelationshipName:     c.RelationshipName,
		IntersectCollection:  c.IntersectCollection,
		MinInputLength:       c.MinInputLength,
		BreakerTimeout:       c.BreakerTimeout,
	}
}

// Client builds the Web API client for this config.
func (c *Config) Client() *webapi.Client {
	return webapi.NewClient(c.APIBase, c.Token, c.Schema, c.HTTPTimeout).WithRateLimit(c.RateLimit, webapi.DefaultBurst)
}

func yamlKey(field string) string {
	if f, ok := configFields[field]; ok {
		return f
	}
	return field
}

var configFields = map[string]string{
	"APIBase":        "api_base",
	"Scope":          "scope",
	"DefaultLCID":    "default_lcid",
	"OwnerEntity":    "owner_entity",
	"MinInputLength": "min_input_length",
	"BreakerTimeout": "breaker_timeout",
	"HTTPTimeout":    "http_timeout",
	"RateLimit":      "rate_limit",
	"LogLevel":       "log_level",
}
