package compose

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	composetypes "github.com/compose-spec/compose-go/v2/types"

	"stackmon"
)

const labFile = `
services:
  api:
    image: nginx:alpine
    ports:
      - "8080:80"
      - target: 9090
        published: "9090"
        host_ip: 127.0.0.1
  db:
    image: postgres:16
  worker:
    image: busybox
    profiles: ["batch"]
  edge:
    image: nginx:alpine
    profiles: ["edge", "batch"]
    ports:
      - target: 8100
        published: "8100-8105"
`

func loadFixture(t *testing.T) *composetypes.Project {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	if err := os.WriteFile(path, []byte(labFile), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(context.Background(), path, "lab")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return p
}

func TestLoadSetsProjectName(t *testing.T) {
	p := loadFixture(t)
	if p.Name != "lab" {
		t.Errorf("project name = %q, want %q", p.Name, "lab")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yml"), "lab")
	if err == nil {
		t.Fatal("Load() = nil error for missing file")
	}
}

func TestAllProfiles(t *testing.T) {
	p := loadFixture(t)
	got := AllProfiles(p)
	want := []string{"batch", "edge"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllProfiles() = %v, want %v", got, want)
	}
}

func TestServicesInScope(t *testing.T) {
	p := loadFixture(t)

	tests := []struct {
		name     string
		profiles []string
		want     []string
	}{
		{"no profiles", nil, []string{"api", "db"}},
		{"batch", []string{"batch"}, []string{"api", "db", "edge", "worker"}},
		{"edge", []string{"edge"}, []string{"api", "db", "edge"}},
		{"unknown profile", []string{"nope"}, []string{"api", "db"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ServicesInScope(p, tt.profiles); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ServicesInScope(%v) = %v, want %v", tt.profiles, got, tt.want)
			}
		})
	}
}

func TestPortBindings(t *testing.T) {
	p := loadFixture(t)

	got := PortBindings(p, "api")
	want := []stackmon.HostPort{
		{Host: "localhost", Port: 8080},
		{Host: "127.0.0.1", Port: 9090},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PortBindings(api) = %v, want %v", got, want)
	}

	if got := PortBindings(p, "db"); got != nil {
		t.Errorf("PortBindings(db) = %v, want nil (no published ports)", got)
	}

	// A published range cannot be probed; the whole service degrades to
	// "no ports known" instead of failing the resolver.
	if got := PortBindings(p, "edge"); got != nil {
		t.Errorf("PortBindings(edge) = %v, want nil for published range", got)
	}

	if got := PortBindings(p, "ghost"); got != nil {
		t.Errorf("PortBindings(ghost) = %v, want nil for unknown service", got)
	}
}

func TestTargetsExplicitOrderPreserved(t *testing.T) {
	p := loadFixture(t)

	targets := Targets(p, nil, []string{"worker", "api"})
	if len(targets) != 2 || targets[0].Service != "worker" || targets[1].Service != "api" {
		t.Fatalf("Targets() = %+v, want explicit order preserved", targets)
	}
	if len(targets[1].Ports) != 2 {
		t.Errorf("api ports = %v, want 2 bindings", targets[1].Ports)
	}
}

func TestTargetsByProfile(t *testing.T) {
	p := loadFixture(t)

	targets := Targets(p, []string{"batch"}, nil)
	names := make([]string, len(targets))
	for i, tgt := range targets {
		names[i] = tgt.Service
	}
	want := []string{"api", "db", "edge", "worker"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Targets(batch) services = %v, want %v", names, want)
	}
}

func TestNormalizeProjectName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"My Stack", "mystack"},
		{"acme-lab", "acme-lab"},
		{"__Weird!!", "weird"},
		{"", "default"},
	}
	for _, tt := range tests {
		if got := NormalizeProjectName(tt.in); got != tt.want {
			t.Errorf("NormalizeProjectName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
