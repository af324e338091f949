package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	kongcompletion "github.com/jotaen/kong-completion"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dockctl/dock/internal/dockerr"
	"github.com/dockctl/dock/internal/runtimecli"
)

// Context carries the dependencies every subcommand's Run method needs,
// built once in main after CLI parsing and ambient-config loading.
type Context struct {
	Runtime  *runtimecli.Runtime
	StartDir string
	Debug    bool
}

// CLI is the full Kong command tree. Top-level flags double as the fields
// ~/.dock.yaml supplies defaults for via kong-yaml.
type CLI struct {
	RuntimeBinary string `name:"runtime-binary" default:"docker" help:"container runtime binary to invoke"`
	LogLevel      string `name:"log-level" default:"info" placeholder:"<debug|info|warn|error>" help:"logging level"`
	LogFile       string `name:"log-file" default:"~/.dock/dock.log" help:"path to the rotated log file"`
	Debug         bool   `help:"stream build output and echo runtime commands to stderr (rebuild and run-in; shell echoes nothing)"`

	RunIn      RunInCmd                  `cmd:"" name:"run-in" help:"rebuild (unless skipped) and run a command in a named environment"`
	Shell      ShellCmd                  `cmd:"" help:"open the configured shell for an environment"`
	Rebuild    RebuildCmd                `cmd:"" help:"rebuild a single image tag, independent of any dock.yaml"`
	Version    VersionCmd                `cmd:"" help:"print version information about this command"`
	Completion kongcompletion.Completion `cmd:"" help:"generate shell completion scripts"`
}

func initSlog(logFile, levelName string) {
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	path, err := expandHome(logFile)
	if err != nil {
		panic(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 5,
	}
	logger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

func main() {
	var cli CLI

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"shell"}
	}

	configPath, err := expandHome("~/.dock.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(dockerr.ExitConfig)
	}

	parser := kong.Must(&cli,
		kong.Configuration(kongyaml.Loader, "?"+configPath),
		kong.Description("Run commands inside disposable, declaratively configured containers."),
	)
	if err := kongcompletion.Register(parser); err != nil {
		fmt.Fprintln(os.Stderr, "registering shell completion:", err)
		os.Exit(dockerr.ExitConfig)
	}

	kctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	logLevel := cli.LogLevel
	if cli.Debug || cli.RunIn.Debug {
		logLevel = "debug"
	}
	initSlog(cli.LogFile, logLevel)

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(dockerr.ExitConfig)
	}

	runCtx := &Context{
		Runtime:  runtimecli.New(cli.RuntimeBinary),
		StartDir: cwd,
		Debug:    cli.Debug,
	}

	// The rebuild, run-in and shell Run methods call os.Exit themselves with
	// the precise exit code (which, for run-in/shell, may be the child
	// command's own exit status rather than a member of the dockerr
	// taxonomy); version and completion return here, and the process exits
	// 0 unless their Run returned an error.
	parser.FatalIfErrorf(kctx.Run(runCtx))
	os.Exit(0)
}
