package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nx-dart/internal/types"
)

// workspaceRoot returns the workspace root from the flag, NX_DART_WORKSPACE
// or the config file.
func workspaceRoot() string {
	return viper.GetString("workspace")
}

func addModeFlag(cmd *cobra.Command, mode *string) {
	cmd.Flags().StringVar(mode, "mode", string(types.ResolutionModeDeclared), "Dependency resolution mode (declared or resolved)")
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		return viper.BindPFlag("resolution_mode", cmd.Flags().Lookup("mode"))
	}
}

func resolveMode(cmd *cobra.Command, mode string) types.ResolutionMode {
	return types.ResolutionMode(resolveString(cmd, mode, "resolution_mode", "mode"))
}

// resolveString prefers an explicitly set flag, then the environment and
// config file, then the flag default.
func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return value
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if flagChanged(cmd, flagName) {
		return values
	}
	if viper.IsSet(key) {
		return viper.GetStringSlice(key)
	}
	return values
}

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}
