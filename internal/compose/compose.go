// Package compose resolves the monitor's working set from a Docker Compose
// configuration: which profiles exist, which services are in scope, and
// which host ports each service publishes.
package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	composetypes "github.com/compose-spec/compose-go/v2/types"

	"stackmon"
)

// Load parses the compose file into a Project. The project name falls back
// to a normalized form of the compose file's directory, matching how the
// compose CLI names projects when -p is not given.
func Load(ctx context.Context, path, project string) (*composetypes.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read compose file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve compose file path: %w", err)
	}
	name := strings.TrimSpace(project)
	if name == "" {
		name = NormalizeProjectName(filepath.Base(filepath.Dir(abs)))
	}

	details := composetypes.ConfigDetails{
		WorkingDir: filepath.Dir(abs),
		ConfigFiles: []composetypes.ConfigFile{
			{Filename: path, Content: data},
		},
		Environment: composetypes.NewMapping(os.Environ()),
	}

	p, err := loader.LoadWithContext(ctx, details, func(o *loader.Options) {
		o.SkipValidation = true
		o.ResolvePaths = false
		o.SetProjectName(name, project != "")
	})
	if err != nil {
		return nil, fmt.Errorf("parse compose file %s: %w", path, err)
	}
	if len(p.Services)+len(p.DisabledServices) == 0 {
		return nil, fmt.Errorf("compose file %s has no services", path)
	}
	return p, nil
}

// NormalizeProjectName lowercases s and strips characters the compose
// project-name grammar rejects.
func NormalizeProjectName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	out := strings.TrimLeft(b.String(), "-_")
	if out == "" {
		return "default"
	}
	return out
}

// AllProfiles returns every profile named by any service, sorted.
func AllProfiles(p *composetypes.Project) []string {
	seen := map[string]struct{}{}
	forEachService(p, func(svc composetypes.ServiceConfig) {
		for _, prof := range svc.Profiles {
			seen[prof] = struct{}{}
		}
	})
	out := make([]string, 0, len(seen))
	for prof := range seen {
		out = append(out, prof)
	}
	sort.Strings(out)
	return out
}

// ServicesInScope returns the names of services enabled by the profile
// selection: profile-less services plus services sharing at least one
// selected profile. Order is deterministic (sorted).
func ServicesInScope(p *composetypes.Project, profiles []string) []string {
	selected := map[string]struct{}{}
	for _, prof := range profiles {
		selected[prof] = struct{}{}
	}

	var out []string
	forEachService(p, func(svc composetypes.ServiceConfig) {
		if len(svc.Profiles) == 0 {
			out = append(out, svc.Name)
			return
		}
		for _, prof := range svc.Profiles {
			if _, ok := selected[prof]; ok {
				out = append(out, svc.Name)
				return
			}
		}
	})
	sort.Strings(out)
	return out
}

// Targets builds the working set. An explicit service list is used verbatim
// in its given order; otherwise the profile selection decides. Each target
// carries its published host-port bindings.
func Targets(p *composetypes.Project, profiles, services []string) []stackmon.Target {
	names := services
	if len(names) == 0 {
		names = ServicesInScope(p, profiles)
	}

	targets := make([]stackmon.Target, 0, len(names))
	for _, name := range names {
		targets = append(targets, stackmon.Target{
			Service: name,
			Ports:   PortBindings(p, name),
		})
	}
	return targets
}

// PortBindings extracts (host, published port) pairs for one service.
// Container-internal ports (no published side) are skipped. A binding the
// monitor cannot interpret, such as a published range, degrades the whole
// service to "no ports known" rather than failing the resolver.
func PortBindings(p *composetypes.Project, service string) []stackmon.HostPort {
	svc, ok := findService(p, service)
	if !ok {
		return nil
	}

	var out []stackmon.HostPort
	for _, pc := range svc.Ports {
		if pc.Published == "" {
			continue
		}
		port, err := strconv.Atoi(pc.Published)
		if err != nil {
			return nil
		}
		host := pc.HostIP
		if host == "" {
			host = "localhost"
		}
		out = append(out, stackmon.HostPort{Host: host, Port: port})
	}
	return out
}

func findService(p *composetypes.Project, name string) (composetypes.ServiceConfig, bool) {
	if svc, ok := p.Services[name]; ok {
		return svc, true
	}
	if svc, ok := p.DisabledServices[name]; ok {
		return svc, true
	}
	return composetypes.ServiceConfig{}, false
}

func forEachService(p *composetypes.Project, fn func(composetypes.ServiceConfig)) {
	names := make([]string, 0, len(p.Services)+len(p.DisabledServices))
	for name := range p.Services {
		names = append(names, name)
	}
	for name := range p.DisabledServices {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		svc, _ := findService(p, name)
		fn(svc)
	}
}
