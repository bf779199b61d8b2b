package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   serviceName,
		Short: "Bounded producer-consumer handoff",
		Long: `handoff copies a finite list of items from a producer to a consumer
through a fixed-capacity channel, then checks that the destination is an
exact ordered copy of the source.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}
