package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points every config lookup at empty temporary locations.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("APPDATA", filepath.Join(dir, "AppData"))
	t.Setenv("MANDELBENCH_CONFIG", "")
	for _, name := range []string{"WORKERS", "DISPLAY", "OUTPUT", "REPORT", "CHART", "LOG_LEVEL", "LOG_FORMAT", "LOG_TIMESTAMPS", "LOG_CALLER", "LOG_DIR"} {
		t.Setenv(envPrefix+name, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("test", flag.ContinueOnError)
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers: got %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.Display != DisplayWindow {
		t.Errorf("Display: got %q, want window", cfg.Display)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cs, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	for _, field := range configFields() {
		if cs.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, cs.Sources[field])
		}
	}
	got, _ := filepath.EvalSymlinks(cs.Config.ProjectRoot)
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("ProjectRoot: got %s, want %s", got, want)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	userDir := filepath.Join(dir, ".mandelbench")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	userFile := `workers = 2
display = "text"
log_level = "warn"
chart = "user.png"
`
	if err := os.WriteFile(filepath.Join(userDir, "mandelbench.toml"), []byte(userFile), 0644); err != nil {
		t.Fatal(err)
	}

	projectFile := `workers = 3
output = "project.png"
`
	if err := os.WriteFile(filepath.Join(dir, "mandelbench.toml"), []byte(projectFile), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MANDELBENCH_WORKERS", "5")
	t.Setenv("MANDELBENCH_LOG_TIMESTAMPS", "yes")

	cs, err := LoadWithSources(newFlagSet(), []string{"-display", "none", "partition"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cs.Config

	tests := []struct {
		field  string
		value  string
		source ConfigSource
	}{
		{"workers", "5", SourceEnv},
		{"display", "none", SourceFlag},
		{"output", "project.png", SourceProjFile},
		{"chart", "user.png", SourceUserFile},
		{"log_level", "warn", SourceUserFile},
		{"log_timestamps", "true", SourceEnv},
		{"log_format", "text", SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := cfg.Value(tt.field); got != tt.value {
				t.Errorf("value: got %q, want %q", got, tt.value)
			}
			if got := cs.Sources[tt.field]; got != tt.source {
				t.Errorf("source: got %q, want %q", got, tt.source)
			}
		})
	}
}

func TestLoadExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("workers = 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MANDELBENCH_CONFIG", path)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 7 {
		t.Errorf("Workers: got %d, want 7", cfg.Workers)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{name: "unknown display flag", args: []string{"-display", "hologram"}, wantErr: "unknown display"},
		{name: "negative workers", args: []string{"-workers", "-1"}, wantErr: "negative"},
		{name: "bad workers env", env: map[string]string{"MANDELBENCH_WORKERS": "many"}, wantErr: "MANDELBENCH_WORKERS"},
		{name: "bad log level", env: map[string]string{"MANDELBENCH_LOG_LEVEL": "loud"}, wantErr: "log level"},
		{name: "bad log format", args: []string{"-log-format", "xml"}, wantErr: "log format"},
		{name: "unknown key in file", file: "max_iterations = 5\n", wantErr: "max_iterations"},
		{name: "malformed file", file: "workers = \n", wantErr: "project config file"},
		{name: "undefined flag", args: []string{"-zoom", "2"}, wantErr: "parsing flags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.file != "" {
				if err := os.WriteFile(filepath.Join(dir, "mandelbench.toml"), []byte(tt.file), 0644); err != nil {
					t.Fatal(err)
				}
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			fs := newFlagSet()
			fs.SetOutput(new(strings.Builder))
			_, err := Load(fs, tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseDisplay(t *testing.T) {
	for _, s := range []string{"window", "tui", "text", "none"} {
		if d, err := ParseDisplay(s); err != nil || string(d) != s {
			t.Errorf("ParseDisplay(%q): got %q, %v", s, d, err)
		}
	}
	if d, err := ParseDisplay("headless"); err != nil || d != DisplayNone {
		t.Errorf("ParseDisplay(headless): got %q, %v", d, err)
	}
	if _, err := ParseDisplay(""); err == nil {
		t.Error("ParseDisplay(\"\"): expected error")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := expandPath("~/out.png"); got != filepath.Join(home, "out.png") {
		t.Errorf("expandPath(~/out.png): got %s", got)
	}
	if got := expandPath(""); got != "" {
		t.Errorf("expandPath(\"\"): got %s", got)
	}
	t.Setenv("MB_TEST_DIR", "/tmp/mb")
	if got := expandPath("$MB_TEST_DIR/r.json"); got != "/tmp/mb/r.json" {
		t.Errorf("expandPath($MB_TEST_DIR/r.json): got %s", got)
	}
}

func TestExpandWindowsEnv(t *testing.T) {
	t.Setenv("MB_OUT", `C:\out`)

	tests := []struct {
		in   string
		want string
	}{
		{`%MB_OUT%\img.png`, `C:\out\img.png`},
		{`no vars`, `no vars`},
		{`%MB_UNSET_VAR%\x`, `%MB_UNSET_VAR%\x`},
		{`100%% done`, `100%% done`},
		{`50% off`, `50% off`},
	}
	for _, tt := range tests {
		if got := expandWindowsEnv(tt.in); got != tt.want {
			t.Errorf("expandWindowsEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	cfg := &Config{ProjectRoot: "/work"}
	if got := cfg.ResolvePath("out.png"); got != filepath.Join("/work", "out.png") {
		t.Errorf("ResolvePath: got %s", got)
	}
	if got := cfg.ResolvePath("/abs/out.png"); got != "/abs/out.png" {
		t.Errorf("ResolvePath absolute: got %s", got)
	}
	if got := cfg.ResolvePath(""); got != "" {
		t.Errorf("ResolvePath empty: got %s", got)
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "mandelbench.toml"), []byte(ExampleConfig()), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(newFlagSet(), nil); err != nil {
		t.Errorf("example config does not load: %v", err)
	}
}
