package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reportqa/internal/config"
)

var (
	flagConfigInitPath  string
	flagConfigInitForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVar(&flagConfigInitPath, "path", "", "Destination (default ~/.config/reportqa/config.yaml)")
	configInitCmd.Flags().BoolVar(&flagConfigInitForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := flagConfigInitPath
	if path == "" {
		var err error
		if path, err = config.DefaultUserConfigPath(); err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); err == nil && !flagConfigInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
