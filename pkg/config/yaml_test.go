package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/adocast/pkg/asciidoc"
	"github.com/yaklabco/adocast/pkg/config"
)

func TestNewConfig(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, asciidoc.DefaultMaxDepth, cfg.MaxDepth)
	assert.False(t, cfg.DetectLanguageEnabled())
	assert.True(t, cfg.CacheFilesEnabled())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, config.FormatJSON, cfg.Format)
}

func TestConfigEnabledHelpers(t *testing.T) {
	var nilCfg *config.Config
	assert.False(t, nilCfg.DetectLanguageEnabled())
	assert.True(t, nilCfg.CacheFilesEnabled())

	cfg := &config.Config{}
	assert.False(t, cfg.DetectLanguageEnabled())
	assert.True(t, cfg.CacheFilesEnabled())

	cfg.DetectLanguage = config.Bool(true)
	cfg.CacheFiles = config.Bool(false)
	assert.True(t, cfg.DetectLanguageEnabled())
	assert.False(t, cfg.CacheFilesEnabled())
}

func TestReaderOptions(t *testing.T) {
	cfg := &config.Config{MaxDepth: 4, DetectLanguage: config.Bool(true)}

	opts := cfg.ReaderOptions()
	assert.Equal(t, 4, opts.MaxDepth)
	assert.True(t, opts.DetectLanguage)
	assert.Empty(t, opts.Input)
}

func TestOutputFormatIsValid(t *testing.T) {
	tests := []struct {
		format config.OutputFormat
		want   bool
	}{
		{config.FormatJSON, true},
		{config.FormatTree, true},
		{"sarif", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("copies pointer fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Output = "out.json"

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, original, clone)

		*clone.CacheFiles = false
		assert.True(t, original.CacheFilesEnabled())
		assert.NotSame(t, original.DetectLanguage, clone.DetectLanguage)
	})

	t.Run("copies ignore patterns", func(t *testing.T) {
		original := &config.Config{Ignore: []string{"vendor/**"}}

		clone := original.Clone()
		clone.Ignore[0] = "build/**"
		assert.Equal(t, []string{"vendor/**"}, original.Ignore)
	})
}

func TestYAMLRoundTrip(t *testing.T) {
	original := &config.Config{
		MaxDepth:       8,
		DetectLanguage: config.Bool(true),
		CacheFiles:     config.Bool(false),
		LogLevel:       "debug",
		Format:         config.FormatTree,
		Output:         "ignored.txt",
	}

	data, err := original.ToYAML()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ignored.txt")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, 8, parsed.MaxDepth)
	assert.True(t, parsed.DetectLanguageEnabled())
	assert.False(t, parsed.CacheFilesEnabled())
	assert.Equal(t, "debug", parsed.LogLevel)
	assert.Empty(t, parsed.Format)
	assert.Empty(t, parsed.Output)
}

func TestToYAMLWithHeader(t *testing.T) {
	cfg := &config.Config{MaxDepth: 3}

	data, err := cfg.ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.Contains(t, string(data), "# header\n\nmax_depth: 3\n")

	plain, err := cfg.ToYAMLWithHeader("")
	require.NoError(t, err)
	assert.Contains(t, string(plain), "max_depth: 3")
}

func TestFromYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name:  "empty document",
			input: "  \n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Zero(t, cfg.MaxDepth)
				assert.Nil(t, cfg.DetectLanguage)
			},
		},
		{
			name:  "partial document",
			input: "detect_language: true\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.True(t, cfg.DetectLanguageEnabled())
				assert.Nil(t, cfg.CacheFiles)
			},
		},
		{
			name:    "unknown key",
			input:   "flavor: gfm\n",
			wantErr: true,
		},
		{
			name:    "wrong type",
			input:   "max_depth: deep\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.FromYAML([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestGenerateTemplate(t *testing.T) {
	t.Run("yaml parses back", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(data), "# adocast configuration")

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, asciidoc.DefaultMaxDepth, cfg.MaxDepth)
		assert.True(t, cfg.CacheFilesEnabled())
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("json", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.InDelta(t, float64(asciidoc.DefaultMaxDepth), decoded["max_depth"], 0)
		assert.Equal(t, false, decoded["detect_language"])
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := config.GenerateTemplate(config.TemplateOptions{Format: "toml"})
		require.Error(t, err)
	})
}
