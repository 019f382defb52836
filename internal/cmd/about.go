package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lh2mqtt/lh2mqtt/internal/app"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/config"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
)

// NewAboutCmd creates the about command.
func NewAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show plugin information in the configured language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, f, err := openExisting(cmd)
			if err != nil {
				return err
			}

			lang, _ := f.Snapshot().Get(string(schema.SectionGeneral), "LANGUAGE")
			texts := app.TextsFor(config.GeneralSettings{Language: lang}, f.Path(), time.Now())
			fmt.Fprintln(s.out, texts.About)
			return nil
		},
	}
}
