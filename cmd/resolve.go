package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"bg3-mod-manager/mods"
	"bg3-mod-manager/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errReportNotEmpty = errors.New("load order has missing mods or conflicts")

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the resolved load order and its report",
	Long: `Resolves the current load order the way it would be exported and
prints every mod in final order followed by the missing-mod report.
With --strict the command fails when the report is not empty.`,
	Run: func(cmd *cobra.Command, _ []string) {
		strict, _ := cmd.Flags().GetBool("strict")
		s := bootstrap(configDir)
		defer s.close()

		err := runResolve(s, os.Stdout, strict)
		if errors.Is(err, errReportNotEmpty) {
			s.log.Warnw("Strict resolve failed", zap.Error(err))
			s.close()
			os.Exit(2)
		}
		if err != nil {
			s.log.Fatalw("Resolve failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().Bool("strict", false, "Exit with status 2 when anything is missing")
}

func runResolve(s *session, w io.Writer, strict bool) error {
	o, err := s.currentOrder()
	if err != nil {
		return err
	}
	r, err := s.resolve(o)
	if err != nil {
		return err
	}
	if err := s.flagMissing(o, r); err != nil {
		s.log.Warnw("Failed to store missing flags", zap.Error(err))
	}

	writeResolved(w, r)
	if strict && !r.Report.Empty() {
		return fmt.Errorf("%d problems: %w", r.Report.Count(), errReportNotEmpty)
	}
	return nil
}

func writeResolved(w io.Writer, r *mods.ResolvedOrder) {
	fmt.Fprintln(w, ui.HeadingStyle.Render(fmt.Sprintf("Resolved order (%d)", len(r.Mods))))
	for i, m := range r.Mods {
		tag := ""
		switch {
		case i == 0 && m.UUID == r.AdventureUUID:
			tag = ui.MutedStyle.Render(" [adventure]")
		case i >= r.ForceLoadedStart:
			tag = ui.MutedStyle.Render(" [force loaded]")
		}
		fmt.Fprintf(w, "  %3d. %s%s\n", i+1, ui.ModName(m.DisplayName(), m.UUID), tag)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, ui.RenderReport(r.Report))
	fmt.Fprint(w, ui.RenderWarnings(r.Warnings))
}
