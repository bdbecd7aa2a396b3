package cmd

import (
	"fmt"
	"io"
	"os"

	"bg3-mod-manager/db"
	"bg3-mod-manager/mods"
	"bg3-mod-manager/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current load order and anything missing from it",
	Run: func(_ *cobra.Command, _ []string) {
		s := bootstrap(configDir)
		defer s.close()
		if err := runStatus(s, os.Stdout); err != nil {
			s.log.Fatalw("Status failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	// Running without a subcommand shows the status.
	rootCmd.Run = statusCmd.Run
}

func runStatus(s *session, w io.Writer) error {
	o, err := s.currentOrder()
	if err != nil {
		return err
	}
	resolved, err := s.resolve(o)
	if err != nil {
		return err
	}
	if err := s.flagMissing(o, resolved); err != nil {
		s.log.Warnw("Failed to store missing flags", zap.Error(err))
	}

	part := mods.NewPartitioner(s.catalog, o).Compute()
	fmt.Fprintf(w, "%s %s\n\n", ui.HeadingStyle.Render("Profile:"), s.profile.Name)
	fmt.Fprintf(w, "%s %s\n\n", ui.HeadingStyle.Render("Load order:"), o.Name)
	fmt.Fprintln(w, ui.RenderList("Active", part.Active))
	fmt.Fprintln(w, ui.RenderList("Inactive", part.Inactive))
	fmt.Fprintln(w, ui.RenderList("Force loaded", part.ForceLoaded))
	fmt.Fprint(w, ui.RenderReport(resolved.Report))
	fmt.Fprint(w, ui.RenderWarnings(resolved.Warnings))
	return nil
}

// flagMissing records which entries of o did not resolve.
func (s *session) flagMissing(o *mods.LoadOrder, r *mods.ResolvedOrder) error {
	o.FlagMissing(r)
	var missing []string
	for _, e := range o.Entries {
		if e.Missing {
			missing = append(missing, e.UUID)
		}
	}
	return db.SetMissing(s.db, o.ID, missing)
}
