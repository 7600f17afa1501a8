/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/ssargent/bandkit/pkg/config"
)

const (
	serviceName     = "bandkit.service"
	defaultUnitPath = "/etc/systemd/system/bandkit.service"
)

// runCommand runs an external command attached to the given writers.
// Tests replace it to observe systemctl and journalctl calls.
var runCommand = func(cmd *cobra.Command, name string, args ...string) error {
	c := exec.CommandContext(cmd.Context(), name, args...)
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	return c.Run()
}

// requireRoot is replaced in tests
var requireRoot = func() error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("this command requires root privileges (run with sudo)")
	}
	return nil
}

var unitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description=bandkit raster band server
After=network-online.target
Wants=network-online.target

[Service]
User={{.User}}
Group={{.User}}
ExecStart={{.Binary}} serve --config {{.ConfigPath}}
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths={{.DataDir}}
ReadWritePaths={{.ConfigDir}}

[Install]
WantedBy=multi-user.target
`))

type unitParams struct {
	User       string
	Binary     string
	ConfigPath string
	ConfigDir  string
	DataDir    string
}

// renderUnit builds the systemd unit that runs bandkit serve with configPath
func renderUnit(cfg *config.Config, configPath, user, binary string) (string, error) {
	var buf bytes.Buffer
	err := unitTemplate.Execute(&buf, unitParams{
		User:       user,
		Binary:     binary,
		ConfigPath: configPath,
		ConfigDir:  filepath.Dir(configPath),
		DataDir:    cfg.DataDir,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render unit: %w", err)
	}
	return buf.String(), nil
}

func newServiceCmd() *cobra.Command {
	serviceCmd := &cobra.Command{
		Use:   "service",
		Short: "Manage bandkit as a systemd service",
		Long: `Manage the bandkit REST API server as a systemd service.

Examples:
  sudo bandkit service install --data-dir /var/lib/bandkit
  bandkit service logs -f`,
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install bandkit as a systemd service",
		Long: `Create or load the configuration, write a systemd unit that runs
"bandkit serve" with it, then enable and optionally start the service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			user, _ := cmd.Flags().GetString("user")
			binary, _ := cmd.Flags().GetString("binary")
			unitPath, _ := cmd.Flags().GetString("unit-path")
			startNow, _ := cmd.Flags().GetBool("start")

			if err := requireRoot(); err != nil {
				return err
			}
			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
			}

			var cfg *config.Config
			var err error
			if config.ConfigExists(configPath) {
				if cfg, err = config.LoadConfig(configPath); err != nil {
					return err
				}
				cmd.Printf("✅ Loaded existing configuration\n")
			} else {
				if cfg, err = config.BootstrapConfig(configPath, ""); err != nil {
					return err
				}
				cmd.Printf("✅ Created new configuration at %s\n", configPath)
			}

			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
			}
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := config.SaveConfig(cfg, configPath); err != nil {
				return err
			}

			unit, err := renderUnit(cfg, configPath, user, binary)
			if err != nil {
				return err
			}
			if err := os.WriteFile(unitPath, []byte(unit), 0600); err != nil {
				return fmt.Errorf("failed to write unit file: %w", err)
			}

			if err := runCommand(cmd, "systemctl", "daemon-reload"); err != nil {
				return fmt.Errorf("failed to reload systemd: %w", err)
			}
			if err := runCommand(cmd, "systemctl", "enable", serviceName); err != nil {
				return fmt.Errorf("failed to enable service: %w", err)
			}
			cmd.Printf("✅ Service enabled\n")

			if startNow {
				if err := runCommand(cmd, "systemctl", "start", serviceName); err != nil {
					return fmt.Errorf("failed to start service: %w", err)
				}
				cmd.Printf("✅ Service started\n")
			}

			cmd.Printf("\nService: %s\n", serviceName)
			cmd.Printf("Config: %s\n", configPath)
			cmd.Printf("Data: %s\n", cfg.DataDir)
			cmd.Printf("Port: %d\n", cfg.Port)
			return nil
		},
	}
	installCmd.Flags().String("user", "bandkit", "User to run the service as")
	installCmd.Flags().String("binary", "/usr/local/bin/bandkit", "Path of the installed bandkit binary")
	installCmd.Flags().String("unit-path", defaultUnitPath, "Where to write the systemd unit")
	installCmd.Flags().Int("port", 8080, "Port for the service (overrides config)")
	installCmd.Flags().Bool("start", true, "Start the service after installation")

	uninstallCmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the bandkit service",
		Long:  `Stop and disable the service and remove its unit. Configuration and data are kept.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unitPath, _ := cmd.Flags().GetString("unit-path")
			if err := requireRoot(); err != nil {
				return err
			}

			// already stopped is fine
			_ = runCommand(cmd, "systemctl", "stop", serviceName)
			if err := runCommand(cmd, "systemctl", "disable", serviceName); err != nil {
				cmd.PrintErrf("Warning: could not disable service: %v\n", err)
			}
			if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove unit file: %w", err)
			}
			if err := runCommand(cmd, "systemctl", "daemon-reload"); err != nil {
				return fmt.Errorf("failed to reload systemd: %w", err)
			}
			cmd.Printf("✅ bandkit service uninstalled\n")
			return nil
		},
	}
	uninstallCmd.Flags().String("unit-path", defaultUnitPath, "Unit file to remove")

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show bandkit service logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			follow, _ := cmd.Flags().GetBool("follow")
			lines, _ := cmd.Flags().GetInt("lines")

			journalArgs := []string{"-u", serviceName}
			if follow {
				journalArgs = append(journalArgs, "-f")
			}
			if lines > 0 {
				journalArgs = append(journalArgs, fmt.Sprintf("-n%d", lines))
			}
			return runCommand(cmd, "journalctl", journalArgs...)
		},
	}
	logsCmd.Flags().Bool("follow", false, "Follow log output")
	logsCmd.Flags().IntP("lines", "n", 0, "Number of lines to show")

	serviceCmd.AddCommand(installCmd, uninstallCmd, logsCmd)
	for _, action := range []string{"start", "stop", "restart", "status"} {
		serviceCmd.AddCommand(systemctlCmd(action))
	}
	return serviceCmd
}

// systemctlCmd wraps a plain systemctl action on the bandkit unit
func systemctlCmd(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: fmt.Sprintf("Run systemctl %s on the bandkit service", action),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, "systemctl", action, serviceName)
		},
	}
}
