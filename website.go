package sitechat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFreshnessDays is the number of days before crawled content is
// considered stale when a website does not specify its own window.
const DefaultFreshnessDays = 7

// WebsiteConfig describes one website to crawl and index.
// Configs are immutable once loaded.
type WebsiteConfig struct {
	Name                string   `json:"name" yaml:"name"`
	Sitemap             string   `json:"xml_sitemap" yaml:"xml_sitemap"`
	Description         string   `json:"description" yaml:"description"`
	FreshnessDays       int      `json:"freshness_days" yaml:"freshness_days"`
	ExcludePatterns     []string `json:"exclude_patterns" yaml:"exclude_patterns"`
	IncludeOnlyPatterns []string `json:"include_only_patterns" yaml:"include_only_patterns"`
}

// Validate returns an error if the website config contains invalid fields.
func (w *WebsiteConfig) Validate() error {
	if w.Name == "" {
		return Errorf(EINVALID, "website name required")
	}
	if w.Sitemap == "" {
		return Errorf(EINVALID, "website %q: sitemap URL required", w.Name)
	}
	if !strings.HasPrefix(w.Sitemap, "http://") && !strings.HasPrefix(w.Sitemap, "https://") {
		return Errorf(EINVALID, "website %q: sitemap URL must be http(s)", w.Name)
	}
	if w.FreshnessDays < 0 {
		return Errorf(EINVALID, "website %q: freshness_days must not be negative", w.Name)
	}
	if _, err := w.Filter(); err != nil {
		return err
	}
	return nil
}

// Namespace derives the vector store partition key for the website:
// the name lowercased with spaces replaced by underscores.
// The derivation is deterministic; Config.Validate rejects configurations
// in which two websites derive the same namespace.
func (w *WebsiteConfig) Namespace() string {
	return strings.ReplaceAll(strings.ToLower(w.Name), " ", "_")
}

// Filter compiles the website's exclude/include-only patterns into a URLFilter.
// Returns nil if no patterns are configured.
func (w *WebsiteConfig) Filter() (*URLFilter, error) {
	if len(w.ExcludePatterns) == 0 && len(w.IncludeOnlyPatterns) == 0 {
		return nil, nil
	}
	f := &URLFilter{}
	for _, p := range w.ExcludePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "website %q: invalid exclude pattern %q: %v", w.Name, p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	for _, p := range w.IncludeOnlyPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "website %q: invalid include pattern %q: %v", w.Name, p, err)
		}
		f.Include = append(f.Include, re)
	}
	return f, nil
}

// Config is the crawl configuration: the list of websites to process.
type Config struct {
	Websites []WebsiteConfig `json:"websites" yaml:"websites"`
}

// Validate checks every website config and rejects duplicate derived
// namespaces, which would otherwise silently merge two sites' content.
func (c *Config) Validate() error {
	if len(c.Websites) == 0 {
		return Errorf(EINVALID, "configuration contains no websites")
	}
	seen := make(map[string]string, len(c.Websites))
	for i := range c.Websites {
		w := &c.Websites[i]
		if err := w.Validate(); err != nil {
			return err
		}
		ns := w.Namespace()
		if prev, ok := seen[ns]; ok {
			return Errorf(ECONFLICT, "websites %q and %q derive the same namespace %q", prev, w.Name, ns)
		}
		seen[ns] = w.Name
	}
	return nil
}

// LoadConfig reads and validates a crawl configuration file.
// The format is chosen by extension: .json, .yaml, or .yml.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Errorf(ENOTFOUND, "configuration file %q: %v", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, Errorf(EINVALID, "configuration file %q: %v", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, Errorf(EINVALID, "configuration file %q: %v", path, err)
		}
	default:
		return nil, Errorf(EINVALID, "configuration file %q: unsupported format (want .json, .yaml, or .yml)", path)
	}

	for i := range cfg.Websites {
		if cfg.Websites[i].FreshnessDays == 0 {
			cfg.Websites[i].FreshnessDays = DefaultFreshnessDays
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindWebsite returns the website whose derived namespace matches ns.
func (c *Config) FindWebsite(ns string) (*WebsiteConfig, error) {
	for i := range c.Websites {
		if c.Websites[i].Namespace() == ns {
			return &c.Websites[i], nil
		}
	}
	return nil, Errorf(ENOTFOUND, "no website configured for namespace %q", ns)
}
