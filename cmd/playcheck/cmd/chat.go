package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"playcheck/internal/agent"
	"playcheck/internal/console"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive console session",
	Long:  `Reads one question per line, answers it, and repeats until "exit" or "quit".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(cfg, logger, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		loop := agent.NewSessionLoop(a.controller, os.Stdin, os.Stdout, console.NewRenderer(os.Stdout))
		return loop.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	// Chat is the default when no subcommand is given.
	rootCmd.RunE = chatCmd.RunE
}
