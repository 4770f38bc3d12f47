package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/traderlab/intraday/config"
)

var configPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate a configuration file and print the effective values",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		fmt.Printf("%s: OK\n\n", configPath)
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	configCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.AddCommand(configCmd)
}
