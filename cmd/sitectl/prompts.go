package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sngm3741/nasam-site/internal/prompt"
)

// scaledEntries は遅延を speed 分の 1 に縮め、発火時に元の遅延を out へ書き出すエントリを返す。
func scaledEntries(entries []prompt.Entry, speed float64, out io.Writer) []prompt.Entry {
	scaled := make([]prompt.Entry, 0, len(entries))
	for _, entry := range entries {
		original := entry
		entry.Delay = time.Duration(float64(entry.Delay) / speed)
		entry.Action = func(context.Context) {
			fmt.Fprintf(out, "  fire %-10s %-8s at %s\n", original.Key, original.Kind, original.Delay)
		}
		scaled = append(scaled, entry)
	}
	return scaled
}

func newPromptsCmd() *cobra.Command {
	var (
		state    prompt.State
		speed    float64
		declined bool
	)
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Preview the timed prompt sequence for a visitor",
		Long: `Print the prompt plan served by GET /api/prompts for the given visitor state,
then run the timed dispatcher with delays divided by --speed and report which prompts fire.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if speed <= 0 {
				return fmt.Errorf("--speed は正の値を指定してください")
			}
			out := cmd.OutOrStdout()

			plan := prompt.Plan(prompt.DefaultEntries(), state, time.Time{}, time.Now())
			fmt.Fprintf(out, "plan (%d):\n", len(plan))
			for _, item := range plan {
				fmt.Fprintf(out, "  %-10s %-8s %dms\n", item.Key, item.Kind, item.DelayMS)
			}

			policy := prompt.DefaultPolicy()
			sched := prompt.NewScheduler(scaledEntries(prompt.DefaultEntries(), speed, out), prompt.Options{
				Window: policy.WindowFor(declined),
			})
			sched.UpdateState(func(s *prompt.State) { *s = state })

			fmt.Fprintln(out, "run:")
			if err := sched.Run(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "fired: %s\n", strings.Join(sched.Fired(), ","))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&state.ModalOpen, "modal-open", false, "モーダル表示中として評価する")
	flags.BoolVar(&state.ReviewSubmitted, "review-submitted", false, "レビュー送信済みとして評価する")
	flags.BoolVar(&state.ContactSubmitted, "contact-submitted", false, "問い合わせ送信済みとして評価する")
	flags.BoolVar(&declined, "consent-declined", false, "保存に同意しない訪問者の短い抑止期間を使う")
	flags.Float64Var(&speed, "speed", 60, "遅延を何倍速で再生するか")
	return cmd
}
