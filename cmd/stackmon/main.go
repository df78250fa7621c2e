package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"stackmon/config"
	"stackmon/infra/docker"
	"stackmon/internal/compose"
	"stackmon/internal/logging"
	"stackmon/internal/monitor"
	"stackmon/internal/ui"
)

var version = "dev"

func main() {
	var (
		debug       bool
		metadata    string
		composeFile string
		project     string
		profiles    []string
		services    []string
		refresh     string
		probePorts  string
		logErrors   string
		uiMode      string
	)

	if err := logging.Configure(os.Stderr, logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "stackmon",
		Short:         "Live status monitor for a Docker Compose stack",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelWarn
			if debug {
				level = logging.LevelDebug
			}
			return logging.Configure(os.Stderr, level)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(services) > 0 && len(profiles) > 0 {
				return fmt.Errorf("--service and --profile are mutually exclusive")
			}

			if metadata != "" {
				if err := os.Setenv(config.EnvMetadataFile, metadata); err != nil {
					return fmt.Errorf("set metadata path: %w", err)
				}
			}
			s := config.FromEnv()
			if composeFile != "" {
				s.ComposeFile = composeFile
			}
			if project != "" {
				s.Project = project
			}
			if len(profiles) > 0 {
				s.Profiles, s.Services = profiles, nil
			}
			if len(services) > 0 {
				s.Services, s.Profiles = services, nil
			}
			if refresh != "" {
				d, err := config.ParseRefresh(refresh)
				if err != nil {
					return err
				}
				s.Refresh = d
			}
			if probePorts != "" {
				s.ProbePorts = config.ParseToggle(probePorts, s.ProbePorts)
			}
			if logErrors != "" {
				s.LogErrors = config.ParseToggle(logErrors, config.On) != config.Off
			}
			if uiMode != "" {
				s.UI = config.ParseUIMode(uiMode, s.UI)
			}

			return run(cmd.Context(), s)
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.Flags().StringVar(&metadata, "metadata", "", "Stack metadata file path")
	root.Flags().StringVarP(&composeFile, "compose-file", "f", "", "Compose file path")
	root.Flags().StringVarP(&project, "project", "p", "", "Compose project name")
	root.Flags().StringSliceVar(&profiles, "profile", nil, "Limit scope to these compose profiles")
	root.Flags().StringSliceVar(&services, "service", nil, "Limit scope to these services")
	root.Flags().StringVar(&refresh, "refresh", "", "Refresh interval (seconds or duration)")
	root.Flags().StringVar(&probePorts, "probe-ports", "", "Probe published ports: on, off or auto")
	root.Flags().StringVar(&logErrors, "log-errors", "", "Sample container logs for errors: on or off")
	root.Flags().StringVar(&uiMode, "ui", "", "UI backend: auto, plain or full")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(parent context.Context, s config.Settings) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	project, err := compose.Load(ctx, s.ComposeFile, s.Project)
	if err != nil {
		return err
	}
	if s.Project == "" {
		s.Project = project.Name
	}
	if len(s.Profiles) == 0 && len(s.Services) == 0 {
		s.Profiles = compose.AllProfiles(project)
	}

	targets := compose.Targets(project, s.Profiles, s.Services)
	if len(targets) == 0 {
		return fmt.Errorf("no services in scope for %s", s.ComposeFile)
	}

	rt, err := docker.Detect(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	probe := monitor.ResolveProbePorts(s.ProbePorts, targets)
	cache := monitor.NewLogCache(rt, monitor.LogCacheConfig{
		Enabled: s.LogErrors,
		Window:  s.LogWindow,
		Tail:    s.LogTail,
		MaxAge:  s.LogMaxAge,
	}, nil)
	mon := monitor.New(targets, rt, nil, cache, monitor.Config{
		Project:    s.Project,
		ProbePorts: probe,
	})

	interactive := ui.IsInteractive()
	ui.ConfigureColor(interactive)
	header := monitor.HeaderLines(s, probe)

	mode := s.UI
	if !interactive {
		mode = config.UIPlain
	} else if mode == config.UIAuto {
		mode = config.UIFull
	}

	if mode == config.UIFull {
		return monitor.RunApp(ctx, monitor.NewApp(ctx, mon, header, s.Refresh))
	}

	width := 0
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}
	loop := &monitor.Loop{
		Monitor:     mon,
		Presenter:   &monitor.Presenter{Header: header, Width: width},
		Out:         os.Stdout,
		Interval:    s.Refresh,
		Interactive: interactive,
	}
	return loop.Run(ctx)
}
