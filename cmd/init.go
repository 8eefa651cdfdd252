/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/pcc/core/config"
	"github.com/tristendillon/pcc/core/logger"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default pcc config file",
	Long:  `Creates ~/` + config.FileName + ` with the default action, output file and ignore patterns.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Path()
		if err != nil {
			return err
		}
		if err := config.Save(config.Default(), path, force); err != nil {
			return fmt.Errorf("%w, use --force to overwrite", err)
		}
		logger.Info("Wrote config file: %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite an existing config file")
}
