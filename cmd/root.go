package cmd

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ernesto27/go-nip/args"
	"github.com/ernesto27/go-nip/manager"
	"github.com/ernesto27/go-nip/ui"
	"github.com/spf13/cobra"
)

//go:embed version.json
var versionFile []byte

type VersionInfo struct {
	Version string `json:"version"`
}

func getVersion() string {
	var versionInfo VersionInfo
	if err := json.Unmarshal(versionFile, &versionInfo); err != nil {
		return "unknown"
	}
	return versionInfo.Version
}

// exitCode is the installer's status, reported once the command returns.
var exitCode int

// newManager is replaced in tests.
var newManager = func() (*manager.Manager, error) {
	deps, err := manager.BuildDependencies(getVersion())
	if err != nil {
		return nil, fmt.Errorf("error building dependencies: %w", err)
	}
	return manager.New(deps)
}

var rootCmd = &cobra.Command{
	Use:   "nip [...names]",
	Short: "Install packages into pnpm catalogs",
	Long: `nip adds packages to package.json and records their versions in the catalogs
of pnpm-workspace.yaml, then runs the install with pnpm.

Flags nip does not know are passed on to the package manager.`,
	Version:            getVersion(),
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,
	RunE:               runRoot,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		ui.New(os.Stderr).Error("%v", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Declared for the help text only; argv is parsed by the args package.
	flags := rootCmd.Flags()
	flags.String("catalog", "", "install from a specific catalog, auto detect if not provided (false for a plain install)")
	flags.Lookup("catalog").NoOptDefVal = "default"
	flags.Bool("yes", false, "skip the confirmation prompt")
	flags.BoolP("dev", "d", false, "add to devDependencies")
	flags.BoolP("workspace", "w", false, "use package.json in the current directory instead of searching upwards")
	flags.BoolP("help", "h", false, "help for nip")
	flags.BoolP("version", "v", false, "version for nip")
}

func runRoot(cmd *cobra.Command, argv []string) error {
	a := args.Parse(argv)

	if a.Help {
		return cmd.Help()
	}
	if a.Version {
		fmt.Fprintln(cmd.OutOrStdout(), cmd.Version)
		return nil
	}

	m, err := newManager()
	if err != nil {
		return err
	}

	code, err := m.Add(cmd.Context(), a)
	if err != nil {
		return err
	}
	exitCode = code
	return nil
}
