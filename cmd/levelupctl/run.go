package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PyKydo/LevelUpGamer/pkg/run"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Validación y formato de RUN chileno",
	}

	check := &cobra.Command{
		Use:   "check <RUN>",
		Short: "Verifica el dígito verificador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run.Validate(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s válido\n", run.Format(args[0]))
			return nil
		},
	}

	format := &cobra.Command{
		Use:   "format <RUN>",
		Short: "Normaliza el RUN como cuerpo-dv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), run.Format(args[0]))
			return nil
		},
	}

	cmd.AddCommand(check, format)
	return cmd
}
