package sitechat_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sitechat/sitechat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebsiteConfig_Namespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"Acme Docs", "acme_docs"},
		{"acme", "acme"},
		{"ACME Support Site", "acme_support_site"},
	}

	for _, tt := range tests {
		w := sitechat.WebsiteConfig{Name: tt.name}
		assert.Equal(t, tt.want, w.Namespace())
	}
}

func TestWebsiteConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		w := sitechat.WebsiteConfig{
			Name:    "Acme",
			Sitemap: "https://acme.test/sitemap.xml",
		}
		require.NoError(t, w.Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		w := sitechat.WebsiteConfig{Sitemap: "https://acme.test/sitemap.xml"}
		err := w.Validate()
		assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	})

	t.Run("non-http sitemap", func(t *testing.T) {
		t.Parallel()

		w := sitechat.WebsiteConfig{Name: "Acme", Sitemap: "ftp://acme.test/sitemap.xml"}
		err := w.Validate()
		assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	})

	t.Run("bad exclude pattern", func(t *testing.T) {
		t.Parallel()

		w := sitechat.WebsiteConfig{
			Name:            "Acme",
			Sitemap:         "https://acme.test/sitemap.xml",
			ExcludePatterns: []string{"("},
		}
		err := w.Validate()
		assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	})
}

func TestConfig_Validate_DuplicateNamespaces(t *testing.T) {
	t.Parallel()

	cfg := sitechat.Config{Websites: []sitechat.WebsiteConfig{
		{Name: "Acme Docs", Sitemap: "https://docs.acme.test/sitemap.xml"},
		{Name: "acme docs", Sitemap: "https://other.acme.test/sitemap.xml"},
	}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, sitechat.ECONFLICT, sitechat.ErrorCode(err))
}

func TestLoadConfig_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "websites.json")
	data := `{
  "websites": [
    {
      "name": "Acme Docs",
      "xml_sitemap": "https://docs.acme.test/sitemap.xml",
      "description": "Product documentation",
      "exclude_patterns": ["/blog/"],
      "include_only_patterns": ["/docs/"]
    }
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := sitechat.LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Websites, 1)

	w := cfg.Websites[0]
	assert.Equal(t, "acme_docs", w.Namespace())
	assert.Equal(t, sitechat.DefaultFreshnessDays, w.FreshnessDays)
	assert.Equal(t, []string{"/blog/"}, w.ExcludePatterns)
}

func TestLoadConfig_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "websites.yaml")
	data := `websites:
  - name: Acme Support
    xml_sitemap: https://support.acme.test/sitemap.xml
    description: Support articles
    freshness_days: 14
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := sitechat.LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Websites, 1)
	assert.Equal(t, 14, cfg.Websites[0].FreshnessDays)
	assert.Equal(t, "acme_support", cfg.Websites[0].Namespace())
}

func TestLoadConfig_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "websites.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))

	_, err := sitechat.LoadConfig(path)
	assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := sitechat.LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, sitechat.ENOTFOUND, sitechat.ErrorCode(err))
}

func TestConfig_FindWebsite(t *testing.T) {
	t.Parallel()

	cfg := sitechat.Config{Websites: []sitechat.WebsiteConfig{
		{Name: "Acme Docs", Sitemap: "https://docs.acme.test/sitemap.xml"},
	}}

	w, err := cfg.FindWebsite("acme_docs")
	require.NoError(t, err)
	assert.Equal(t, "Acme Docs", w.Name)

	_, err = cfg.FindWebsite("missing")
	assert.Equal(t, sitechat.ENOTFOUND, sitechat.ErrorCode(err))
}
