package importkit

import (
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// DefaultMaxSizeMB is the archive and per-file ceiling when a policy leaves
// it unset.
const DefaultMaxSizeMB = 500

// Policy is the explicit configuration passed into every entry point.
// MaxSizeMB bounds both the archive's total uncompressed size and each
// media file.
type Policy struct {
	MaxSizeMB         int64    `yaml:"max_size_mb" json:"max_size_mb"`
	AllowedMimeTypes  []string `yaml:"allowed_mime_types" json:"allowed_mime_types"`
	AllowedExtensions []string `yaml:"allowed_extensions" json:"allowed_extensions"`
	IgnorePatterns    []string `yaml:"ignore_patterns" json:"ignore_patterns"`

	// SpaceMultiplier is how many times the uncompressed archive size
	// Preflight requires to be free. Zero means DefaultSpaceMultiplier.
	SpaceMultiplier float64 `yaml:"space_multiplier" json:"space_multiplier,omitempty"`
}

// DefaultPolicy admits any image, video or audio file up to 500MB.
func DefaultPolicy() Policy {
	return Policy{
		MaxSizeMB:        DefaultMaxSizeMB,
		AllowedMimeTypes: []string{"image/*", "video/*", "audio/*"},
	}
}

// MaxBytes returns the size ceiling in bytes.
func (p Policy) MaxBytes() int64 {
	return p.maxSizeMB() * 1024 * 1024
}

func (p Policy) maxSizeMB() int64 {
	if p.MaxSizeMB <= 0 {
		return DefaultMaxSizeMB
	}
	return p.MaxSizeMB
}

func (p Policy) spaceMultiplier() float64 {
	if p.SpaceMultiplier <= 0 {
		return DefaultSpaceMultiplier
	}
	return p.SpaceMultiplier
}

// LoadPolicyFile reads a YAML policy. Fields absent from the file keep
// their DefaultPolicy values.
func LoadPolicyFile(path string) (Policy, error) {
	p := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read policy: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%w: parse policy %s: %v", ErrInvalidArguments, path, err)
	}
	if _, err := p.ignoreMatcher(); err != nil {
		return p, err
	}
	return p, nil
}

// ignoreMatcher compiles the ignore patterns. Patterns use '/' as the
// separator, so "*" stays within one path segment and "**" crosses them.
func (p Policy) ignoreMatcher() (func(name string) bool, error) {
	if len(p.IgnorePatterns) == 0 {
		return func(string) bool { return false }, nil
	}

	globs := make([]glob.Glob, 0, len(p.IgnorePatterns))
	for _, pattern := range p.IgnorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: ignore pattern %q: %v", ErrInvalidArguments, pattern, err)
		}
		globs = append(globs, g)
	}

	return func(name string) bool {
		for _, g := range globs {
			if g.Match(name) {
				return true
			}
		}
		return false
	}, nil
}
