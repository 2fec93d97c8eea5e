package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/CrestNiraj12/postpad/app"
	"github.com/CrestNiraj12/postpad/infra/auth"
	"github.com/CrestNiraj12/postpad/infra/config"
	"github.com/CrestNiraj12/postpad/infra/editor"
	"github.com/CrestNiraj12/postpad/infra/logger"
	"github.com/CrestNiraj12/postpad/infra/metrics"
	"github.com/CrestNiraj12/postpad/infra/rest"
	"github.com/CrestNiraj12/postpad/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return `Usage: postpad [--version|-version|-v] [--help|-h]

Environment:
  POSTPAD_BASE_URL      posts API root (default ` + config.DefaultBaseURL + `)
  POSTPAD_TOKEN_PATH    file holding a bearer token
  POSTPAD_LOG_FILE      write logs to this file
  POSTPAD_LOG_LEVEL     debug, info, warn or error
  POSTPAD_METRICS_ADDR  serve Prometheus metrics on this address
  POSTPAD_CONFIG        YAML config file (default ~/.config/postpad/config.yaml)`
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func openLog(cfg config.Config) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		return logger.Discard(), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logger.New(cfg.LogLevel, f), f, nil
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("postpad %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
	}

	// A local .env only fills variables that are unset.
	_ = godotenv.Load()
	if err := run(context.Background(), tea.WithAltScreen()); err != nil {
		fmt.Fprintf(os.Stderr, "postpad: %v\n", err)
		os.Exit(1)
	}
}

// run wires the application and blocks until the program exits. Every
// resource it opens is released before it returns.
func run(ctx context.Context, opts ...tea.ProgramOption) error {
	// 1. Load config.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser, err := openLog(cfg)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	defer logCloser.Close()
	log.Info("starting", slog.String("base_url", cfg.BaseURL))
	defer log.Info("stopped")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, log); err != nil {
				log.Error("metrics server failed", slog.String("error", err.Error()))
			}
		}()
	}

	// 2. Build infrastructure.
	httpClient := rest.NewClient(cfg.BaseURL, auth.FromPath(cfg.TokenPath), log)
	postSvc := rest.NewPostService(httpClient)

	// 3. Build the state holder.
	presenter := app.NewPresenter(postSvc, app.NewStore(), log)
	defer presenter.Close()

	// 4. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Presenter: presenter,
		Editor:    editor.NewEnvEditor(),
	})
	defer rootModel.Close()

	// 5. Run.
	p := tea.NewProgram(rootModel, append(opts, tea.WithContext(ctx))...)
	if _, err := p.Run(); err != nil {
		log.Error("program exited", slog.String("error", err.Error()))
		return err
	}
	return nil
}
