package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/inklusif-kerja/gesturecli/commands"
	"github.com/inklusif-kerja/gesturecli/config"
	"github.com/inklusif-kerja/gesturecli/daemon"
	"github.com/inklusif-kerja/gesturecli/server"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the gesturecli server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the gesturecli server",
	Long:  `Starts the JSON-RPC server that hosts gesture sessions over HTTP and WebSocket.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := serverConfig(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}
		commands.SetConfig(cfg)

		if runDaemon && !daemon.IsChild() {
			_, err := daemon.Daemonize(daemonArgs(os.Args, configPath))
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", cfg.Server.Listen)
			return nil
		}

		return server.StartServer(context.Background(), cfg)
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized gesturecli server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := listenAddr
		if addr == "" {
			addr = commands.GetConfig().Server.Listen
		}

		err := daemon.KillServer(addr)
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

// daemonArgs repeats the resolved config path for the daemon child, which
// runs from / and would otherwise resolve a relative path against it. The
// last --config on the command line wins.
func daemonArgs(args []string, configPath string) []string {
	childArgs := append([]string(nil), args...)
	if configPath != "" {
		childArgs = append(childArgs, "--config", configPath)
	}
	return childArgs
}

// serverConfig layers the flags the user set over the loaded config
func serverConfig(cmd *cobra.Command) config.Config {
	cfg := commands.GetConfig()

	if cmd.Flags().Changed("listen") {
		cfg.Server.Listen = listenAddr
	}
	if cmd.Flags().Changed("cors") {
		cfg.Server.CORS = enableCORS
	}
	if cmd.Flags().Changed("max-sessions") {
		cfg.Server.MaxSessions = maxSessions
	}

	return cfg
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().StringVar(&listenAddr, "listen", "", fmt.Sprintf("Address to listen on (default: %s)", config.DefaultListenAddress))
	serverStartCmd.Flags().BoolVar(&enableCORS, "cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolVarP(&runDaemon, "daemon", "d", false, "Run server in daemon mode (background)")
	serverStartCmd.Flags().IntVar(&maxSessions, "max-sessions", 0, "Maximum number of open gesture sessions")

	// server kill flags
	serverKillCmd.Flags().StringVar(&listenAddr, "listen", "", fmt.Sprintf("Address of server to kill (default: %s)", config.DefaultListenAddress))
}
