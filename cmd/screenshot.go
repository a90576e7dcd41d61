// cmd/screenshot.go
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/gauntlet/internal/observability"
)

func newScreenshotCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "screenshot URL",
		Short: "Open URL in the configured browser and save a PNG of the viewport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			c, err := openCase(ctx, cfg, observability.GetLogger())
			if err != nil {
				return err
			}
			defer func() {
				_, ferr := c.Finish(ctx, nil)
				err = errors.Join(err, ferr)
			}()

			if err := c.Session.Navigate(ctx, args[0]); err != nil {
				return err
			}
			path, err := c.Session.SaveScreenshot(ctx, output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "screenshot.png", "file to write")
	return cmd
}
