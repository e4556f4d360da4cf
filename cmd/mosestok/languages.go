package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/example/go-moses-tokenizer/internal/prefix"
	"github.com/example/go-moses-tokenizer/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List languages with nonbreaking prefix data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LANG\tPREFIXES\tNUMERIC\tPAD\tAPOSTROPHE")
			for _, lang := range prefix.Languages() {
				set, _ := prefix.Lookup(lang)
				text, numeric := set.Len()
				p := tokenizer.ProfileFor(lang)
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", lang, text, numeric, p.Pad, p.Apostrophe)
			}
			fmt.Fprintf(tw, "\nother languages use the %s prefixes\n", prefix.Fallback)
			return tw.Flush()
		},
	}
}
