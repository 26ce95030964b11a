package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/music/library", "/music/library"},
		{"single trailing slash", "/music/library/", "/music/library"},
		{"multiple trailing slashes", "/music/library///", "/music/library"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDirArg(tt.in))
		})
	}
}

func TestValidate_SampleRate(t *testing.T) {
	tests := []struct {
		name    string
		rate    int
		wantErr bool
	}{
		{"44100 is valid", 44100, false},
		{"48000 is valid", 48000, false},
		{"8000 is valid", 8000, false},
		{"zero is invalid", 0, true},
		{"negative is invalid", -44100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true // skip path requirement
			cfg.SampleRate = tt.rate
			err := cfg.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
		})
	}
}

func TestValidate_BitDepth(t *testing.T) {
	tests := []struct {
		name    string
		depth   int
		wantErr bool
	}{
		{"16 is valid", 16, false},
		{"32 is valid", 32, false},
		{"8 is invalid", 8, true},
		{"24 is invalid", 24, true},
		{"zero is invalid", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true
			cfg.BitDepth = tt.depth
			err := cfg.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
		})
	}
}

func TestValidate_ToolPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true
	cfg.FFmpegPath = "  "
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.CheckOnly = true
	cfg.FFprobePath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := DefaultConfig()
	require.Error(t, cfg.Validate(), "paths are empty and CheckOnly is false")

	cfg.SourceDir = "/in"
	cfg.TargetDir = "/out"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CheckOnlySkipsPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true
	assert.NoError(t, cfg.Validate())
}

func TestSampleFormat(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "s16", cfg.SampleFormat())
	cfg.BitDepth = 32
	assert.Equal(t, "s32", cfg.SampleFormat())
}

func TestTargetInsideSource(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
		want   bool
	}{
		{"separate directories", "/music/in", "/music/out", false},
		{"target equals source", "/music/lib", "/music/lib", true},
		{"target inside source", "/music/lib", "/music/lib/converted", true},
		{"target is parent of source", "/music/lib/sub", "/music/lib", false},
		{"similar prefix not nested", "/music/library", "/music/library2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetInsideSource(tt.source, tt.target))
		})
	}
}

func TestResolvePath(t *testing.T) {
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	realDir := filepath.Join(base, "realDir")
	require.NoError(t, os.Mkdir(realDir, 0o755))
	link := filepath.Join(base, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	got, err := ResolvePath(link)
	require.NoError(t, err)
	assert.Equal(t, realDir, got)

	// A target that does not exist yet resolves through its existing ancestor.
	got, err = ResolvePath(filepath.Join(link, "converted", "wav"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realDir, "converted", "wav"), got)
	assert.True(t, TargetInsideSource(realDir, got))
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, 16, cfg.BitDepth)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.CheckOnly)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "positional only keeps defaults",
			args: []string{"in/", "out"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "in", cfg.SourceDir)
				assert.Equal(t, "out", cfg.TargetDir)
				assert.Equal(t, 44100, cfg.SampleRate)
				assert.Equal(t, 16, cfg.BitDepth)
			},
		},
		{
			name: "short options",
			args: []string{"-sr", "48000", "-bd", "32", "in", "out"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 48000, cfg.SampleRate)
				assert.Equal(t, 32, cfg.BitDepth)
			},
		},
		{
			name: "long options",
			args: []string{"--sample-rate", "22050", "--bit-depth=16", "--no-color", "-v", "in", "out"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 22050, cfg.SampleRate)
				assert.Equal(t, ColorNever, cfg.ColorMode)
				assert.True(t, cfg.Verbose)
			},
		},
		{
			name: "options after positionals",
			args: []string{"in", "out", "-sr", "48000", "--bit-depth", "32"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "in", cfg.SourceDir)
				assert.Equal(t, "out", cfg.TargetDir)
				assert.Equal(t, 48000, cfg.SampleRate)
				assert.Equal(t, 32, cfg.BitDepth)
			},
		},
		{
			name: "options between positionals",
			args: []string{"in", "-v", "out"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "in", cfg.SourceDir)
				assert.Equal(t, "out", cfg.TargetDir)
				assert.True(t, cfg.Verbose)
			},
		},
		{
			name: "check needs no positional args",
			args: []string{"--check"},
			check: func(t *testing.T, cfg Config) {
				assert.True(t, cfg.CheckOnly)
			},
		},
		{name: "missing target", args: []string{"in"}, wantErr: true},
		{name: "too many args", args: []string{"a", "b", "c"}, wantErr: true},
		{name: "too many args around options", args: []string{"a", "-v", "b", "c"}, wantErr: true},
		{name: "unknown flag after positionals", args: []string{"in", "out", "--dry-run"}, wantErr: true},
		{name: "unknown flag", args: []string{"--dry-run", "in", "out"}, wantErr: true},
		{name: "non-numeric rate", args: []string{"-sr", "fast", "in", "out"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := ParseFlags(&cfg, "test", tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
