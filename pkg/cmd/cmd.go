// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rkwork/clipforge/pkg/app"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "clipforge",
		Short: "File upload orchestration service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewApp(configPath).Run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./", "config file or directory")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// serveCmd 与根命令等价的显式启动入口.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.NewApp(configPath).Run()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
