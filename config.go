package importkit

import (
	"strings"

	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Runtime environment (development, production). Development enables
	// debug logging in the CLI.
	Environment string `env:"IMPORTKIT_ENV,default:production"`

	// Source archive layout (journiv, dayone)
	SourceFormat string `env:"IMPORTKIT_SOURCE_FORMAT,default:journiv"`

	// Directories
	StagingDir string `env:"IMPORTKIT_STAGING_DIR,default:./storage/imports"`
	MediaDir   string `env:"IMPORTKIT_MEDIA_DIR"` // zero-copy destination, optional
	UploadDir  string `env:"IMPORTKIT_UPLOAD_DIR,default:./storage/uploads"`

	// Policy
	MaxSizeMB         int64  `env:"IMPORTKIT_MAX_SIZE_MB,default:500"`
	AllowedMimeTypes  string `env:"IMPORTKIT_ALLOWED_MIME_TYPES"` // comma-separated, wildcards allowed
	AllowedExtensions string `env:"IMPORTKIT_ALLOWED_EXTENSIONS"` // comma-separated
	IgnorePatterns    string `env:"IMPORTKIT_IGNORE_PATTERNS"`    // comma-separated globs
	ValidateMedia     bool   `env:"IMPORTKIT_VALIDATE_MEDIA,default:true"`

	// Job tracking database (sqlite path)
	JobDatabase string `env:"IMPORTKIT_JOB_DATABASE,default:importkit.db"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Builder loads a Config using a custom variable prefix
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Config loads the configuration using the builder's prefix
func (b *Builder) Config() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Format parses the configured source format.
func (c *Config) Format() (SourceFormat, error) {
	return ParseSourceFormat(c.SourceFormat)
}

// Policy builds the explicit policy record handed to every entry point.
// Empty lists fall back to DefaultPolicy.
func (c *Config) Policy() Policy {
	p := DefaultPolicy()
	if c.MaxSizeMB > 0 {
		p.MaxSizeMB = c.MaxSizeMB
	}
	if types := splitList(c.AllowedMimeTypes); len(types) > 0 {
		p.AllowedMimeTypes = types
	}
	if exts := splitList(c.AllowedExtensions); len(exts) > 0 {
		p.AllowedExtensions = exts
	}
	if patterns := splitList(c.IgnorePatterns); len(patterns) > 0 {
		p.IgnorePatterns = patterns
	}
	return p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
