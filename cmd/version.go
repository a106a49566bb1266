package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of devstack",
		Long:  `All software has versions. This is devstack's.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("devstack version %s\n", rootCmd.Version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
