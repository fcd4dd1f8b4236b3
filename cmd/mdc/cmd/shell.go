package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/mDC/foundation/core/config"
	mdcerror "github.com/msto63/mDC/foundation/core/error"
	"github.com/msto63/mDC/foundation/core/log"
	"github.com/msto63/mDC/internal/conn"
	"github.com/msto63/mDC/internal/session"
	"github.com/msto63/mDC/internal/shell"
)

var (
	shellHost      string
	shellPort      int
	shellTransport string
	shellCommands  []string
	shellNoColor   bool
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interaktive Sitzung mit einem Gerät",
	Long: `Startet eine interaktive Shell gegen einen Gerätebaum.

Mit --command werden die angegebenen Zeilen ohne Prompt der Reihe
nach ausgeführt; der erste Fehler beendet die Sitzung mit einem
Exit-Code ungleich null.

Beispiele:
  mdc shell --transport mem
  mdc shell --host 10.0.0.5 --port 4444
  mdc shell --transport mem --command "cd Block/Gain" --command "get gain"`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().StringVar(&shellHost, "host", "", "Geräteadresse")
	shellCmd.Flags().IntVar(&shellPort, "port", 0, "Geräteport")
	shellCmd.Flags().StringVar(&shellTransport, "transport", "", "Transport (tcp|udp|unix|mem)")
	shellCmd.Flags().StringArrayVar(&shellCommands, "command", nil, "Batch-Befehl (wiederholbar)")
	shellCmd.Flags().BoolVar(&shellNoColor, "no-color", false, "Farbausgabe deaktivieren")
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("Konfiguration konnte nicht geladen werden", err)
		return err
	}
	if err := setupLogger(cfg); err != nil {
		printError("Ungültiges Log-Level", err)
		return err
	}

	logger := log.GetDefault()

	device, err := buildDevice(cfg)
	if err != nil {
		printError("Gerät konnte nicht initialisiert werden", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := device.Connect(ctx); err != nil {
		printError("Verbindung fehlgeschlagen", err)
		return err
	}

	s := session.New(device, logger)
	registry := shell.NewRegistry(logger)
	shell.RegisterBuiltins(registry)

	out := shell.NewOutput(os.Stdout)
	dispatcher := shell.NewDispatcher(registry, s, out, logger)
	repl := shell.NewREPL(dispatcher, os.Stdin, out, logger)

	if len(shellCommands) > 0 {
		return repl.RunBatch(ctx, shellCommands)
	}

	styled := stdoutIsTerminal() && !shellNoColor
	repl.Prompt = func(displayPath string) string {
		if styled {
			return promptStyle.Render(displayPath) + mutedStyle.Render(" > ")
		}
		return displayPath + " > "
	}
	if styled {
		repl.RenderError = func(message string) string { return errorStyle.Render(message) }
		repl.RenderEvent = func(message string) string { return eventStyle.Render(message) }
	}

	return repl.Run(ctx)
}

// buildDevice selects the transport. Network transports need a protocol
// adapter implementing conn.Device; this build ships the in-memory one.
func buildDevice(cfg *config.Config) (conn.Device, error) {
	transport := shellTransport
	if transport == "" {
		transport = cfg.GetString("device.transport", "mem")
	}

	switch transport {
	case "mem":
		return conn.NewMemDevice(conn.DemoTree()), nil

	case "tcp", "udp", "unix":
		host := shellHost
		if host == "" {
			host = cfg.GetString("device.host", "")
		}
		port := shellPort
		if port == 0 {
			port = cfg.GetInt("device.port", 4444)
		}

		return nil, mdcerror.Newf("transport %q is not built into this binary (target %s:%d)", transport, host, port).
			WithCode(mdcerror.CodeNotImplemented).
			WithOperation("cmd.buildDevice")

	default:
		return nil, mdcerror.Newf("unknown transport %q", transport).
			WithCode(mdcerror.CodeInvalidConfig).
			WithOperation("cmd.buildDevice")
	}
}
