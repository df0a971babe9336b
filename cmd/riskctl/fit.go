package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fit",
		Short: "Fit the model and print its coefficients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := opts.pipeline(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderModel(pipeline.Target(), pipeline.Model()))
			return nil
		},
	}
}
