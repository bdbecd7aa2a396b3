package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bg3-mod-manager/db"
	"bg3-mod-manager/export"
	"bg3-mod-manager/mods"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the resolved load order to a file",
	Long: `Resolves the current load order and writes it in one of the
supported formats (lsx, json, tsv, txt, yaml).

The lsx format always contains the full order and, without --out,
replaces the profile's modsettings.lsx. Other formats list only the
user-ordered mods unless --full is given, and print to stdout
without --out.`,
	Run: func(cmd *cobra.Command, _ []string) {
		format, _ := cmd.Flags().GetString("format")
		full, _ := cmd.Flags().GetBool("full")
		out, _ := cmd.Flags().GetString("out")

		s := bootstrap(configDir)
		defer s.close()
		if format == "" {
			format = s.cfg.ExportFormat
		}
		path, err := runExport(s, exportOptions{format: format, full: full, out: out})
		if err != nil {
			s.log.Fatalw("Export failed", zap.Error(err))
		}
		if path != "" {
			fmt.Printf("Exported load order to %s\n", path)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "", "Export format: "+strings.Join(export.Formats(), ", "))
	exportCmd.Flags().Bool("full", false, "Include the adventure and force-loaded mods")
	exportCmd.Flags().StringP("out", "o", "", "Output file, or - for stdout")
}

type exportOptions struct {
	format string
	full   bool
	out    string
	stdout io.Writer
}

// runExport writes the projection and returns the file written, or "" when
// it went to stdout.
func runExport(s *session, opts exportOptions) (string, error) {
	o, err := s.currentOrder()
	if err != nil {
		return "", err
	}
	r, err := s.resolve(o)
	if err != nil {
		return "", err
	}

	format := strings.ToLower(opts.format)
	mode := mods.ProjectUserOrder
	if opts.full || format == export.FormatLSX {
		mode = mods.ProjectFull
	}
	doc := export.Document{
		Name:       o.Name,
		Profile:    s.profile.Name,
		Adventure:  r.AdventureUUID,
		ExportedAt: time.Now(),
		Mods:       mods.Project(r, mode),
	}
	if !r.Report.Empty() {
		s.log.Warnw("Exporting a load order with problems", zap.Int("problems", r.Report.Count()))
	}

	target := opts.out
	if target == "" && format == export.FormatLSX {
		target = s.modSettingsPath()
	}
	if target == "" || target == "-" {
		w := opts.stdout
		if w == nil {
			w = os.Stdout
		}
		return "", export.Write(w, format, doc)
	}

	if err := writeFileAtomic(target, func(w io.Writer) error { return export.Write(w, format, doc) }); err != nil {
		return "", err
	}
	if target == s.modSettingsPath() {
		s.profile.ModOrder = mods.ToUUIDs(doc.Mods)
		if err := db.SaveProfile(s.db, s.profile); err != nil {
			return target, err
		}
	}
	s.log.Infow("Exported load order",
		zap.String("order", o.Name),
		zap.String("format", format),
		zap.String("path", target),
		zap.Int("mods", len(doc.Mods)),
	)
	return target, nil
}

// writeFileAtomic writes through a temp file in the same directory and
// renames it over path.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
