package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sngm3741/nasam-site/internal/content"
	"github.com/sngm3741/nasam-site/internal/render"
)

func newRenderCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render [content-file]",
		Short: "Render the page to HTML",
		Long: `Merge the content file (or nothing) with the defaults and render the full page.
Without --out the page is written to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var partial *content.Partial
			if len(args) == 1 {
				p, err := content.LoadPartialFile(args[0])
				if err != nil {
					return err
				}
				partial = p
			}
			page, err := render.New(render.Options{}).Page(content.Merge(content.Defaults(), partial))
			if err != nil {
				return fmt.Errorf("ページの描画に失敗: %w", err)
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(page)
				return err
			}
			if err := os.WriteFile(out, page, 0o644); err != nil {
				return fmt.Errorf("%s への書き込みに失敗: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s に %d バイト書き込みました\n", out, len(page))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "出力先ファイル (省略時は標準出力)")
	return cmd
}
