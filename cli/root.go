package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/inklusif-kerja/gesturecli/commands"
	"github.com/inklusif-kerja/gesturecli/config"
	"github.com/inklusif-kerja/gesturecli/server"
	"github.com/inklusif-kerja/gesturecli/utils"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gesturecli",
	Short: "Accessible gesture classification for job listings",
	Long: `Classifies pointer interactions into flicks, swipes, double-taps and
long-presses, and maps them to job listing actions with spoken and haptic feedback.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:           server.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

// initConfig loads the config file and applies its log level. --verbose
// wins over the configured level.
func initConfig(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return err
	}
	configPath = path

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	commands.SetConfig(cfg)

	if cfg.Log.Level != "" {
		if err := utils.SetLevel(cfg.Log.Level); err != nil {
			return err
		}
	}
	if verbose {
		utils.SetVerbose(true)
	}

	return nil
}

// resolveConfigPath makes path absolute so it survives the daemon's chdir
func resolveConfigPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}
	return abs, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.ini, .yaml or .plist)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		utils.Error("Failed to encode output: %v", err)
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

// printResponse prints a command response and turns an error response into
// the command's error
func printResponse(response *commands.CommandResponse) error {
	if err := printJson(response); err != nil {
		return err
	}
	if response.Status == "error" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}
