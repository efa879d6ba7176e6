package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the API server is up",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			if err := c.Healthz(context.Background()); err != nil {
				return err
			}
			fmt.Println("Server is healthy at", viper.GetString("server"))
			return nil
		},
	}
}
