package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/GriffinCanCode/brilgo/pkg/ir"
	"github.com/GriffinCanCode/brilgo/pkg/logger"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate: %v", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, c Config)
	}{
		{
			name: "full",
			yaml: "heap: arena\nprofile: true\ncheck: true\nlog:\n  level: debug\n  format: json\ngroups: [float, memory]\n",
			check: func(t *testing.T, c Config) {
				if c.Heap != "arena" || !c.Profile || !c.Check {
					t.Errorf("got %+v", c)
				}
				groups, err := c.OpGroups()
				if err != nil {
					t.Fatalf("OpGroups: %v", err)
				}
				if !slices.Equal(groups, []ir.Group{ir.GroupFloat, ir.GroupMemory}) {
					t.Errorf("OpGroups = %v", groups)
				}
				lc, err := c.Logger()
				if err != nil {
					t.Fatalf("Logger: %v", err)
				}
				if lc.Level != logger.LevelDebug || lc.Format != "json" {
					t.Errorf("Logger = %+v", lc)
				}
			},
		},
		{
			name: "partial keeps defaults",
			yaml: "profile: true\n",
			check: func(t *testing.T, c Config) {
				if c.Heap != "basic" || c.Log.Level != "warn" {
					t.Errorf("defaults lost: %+v", c)
				}
			},
		},
		{name: "unknown heap", yaml: "heap: slab\n", wantErr: true},
		{name: "unknown level", yaml: "log:\n  level: loud\n", wantErr: true},
		{name: "unknown format", yaml: "log:\n  format: xml\n", wantErr: true},
		{name: "unknown group", yaml: "groups: [vector]\n", wantErr: true},
		{name: "unknown key", yaml: "heapp: basic\n", wantErr: true},
		{name: "not yaml", yaml: "heap: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			err := Parse([]byte(tt.yaml), &c)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brili.yaml")
	if err := os.WriteFile(path, []byte("heap: arena\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Heap != "arena" {
		t.Errorf("Heap = %q, want arena", c.Heap)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestNoGroupsEnablesAll(t *testing.T) {
	groups, err := Default().OpGroups()
	if err != nil || groups != nil {
		t.Errorf("OpGroups = %v, %v; want nil, nil", groups, err)
	}
}
