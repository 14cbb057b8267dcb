// Command sitectl はサイトコンテンツの投入と静的レンダリングを行う運用 CLI。
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "sitectl",
	Short: "Operate the NASAM site content",
	Long: `sitectl manages the site content outside the HTTP service.

Available subcommands:
  seed   - Load a YAML/JSON content file into the document store
  render  - Render the full page from a content file to HTML
  prompts - Preview the timed prompt sequence for a visitor state`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if len(envFiles) == 0 {
			_ = godotenv.Load()
			return nil
		}
		if err := godotenv.Load(envFiles...); err != nil {
			return fmt.Errorf("env ファイルの読み込みに失敗: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "読み込む .env ファイル (複数指定可)")
	rootCmd.AddCommand(newSeedCmd(), newRenderCmd(), newPromptsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
