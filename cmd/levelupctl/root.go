package main

import (
	"github.com/spf13/cobra"

	"github.com/PyKydo/LevelUpGamer/internal/domain/pricing"
	"github.com/PyKydo/LevelUpGamer/pkg/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "levelupctl",
		Short:        "Herramientas de LevelUpGamer",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newPriceCmd(loadPolicy))
	return root
}

// loadPolicy política de descuentos según la configuración del entorno.
func loadPolicy() (pricing.Policy, error) {
	cfg, err := config.Load()
	if err != nil {
		return pricing.Policy{}, err
	}
	d := cfg.Discount
	return pricing.NewPolicy(d.Registered, d.Duoc, d.Cap, d.DuocDomains), nil
}
