package cmd

import (
	"cmp"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"bg3-mod-manager/db"
	"bg3-mod-manager/logger"
	"bg3-mod-manager/modinfo"
	"bg3-mod-manager/mods"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Rebuild the mod catalog from the mods directory",
	Long: `Scans MODS_DIR for mod metadata files (<mod>.json, <mod>.yaml or
<mod>/info.json), hashes the matching .pak files and replaces the
stored catalog with what was found.`,
	Run: func(cmd *cobra.Command, args []string) {
		useTUI, _ := cmd.Flags().GetBool("tui")
		s := bootstrap(configDir)
		defer s.close()

		if useTUI {
			runImportTUI(s)
			return
		}

		sum, err := runImport(s, func(msg ImportProgressMsg) {
			switch msg.Type {
			case "warning", "duplicate":
				s.log.Warnw(msg.Message, zap.String("file", msg.Path))
			case "error":
				s.log.Errorw(msg.Message, zap.String("file", msg.Path))
			case "parsed":
				s.log.Debugw("Parsed metadata", zap.String("file", msg.Path))
			}
		})
		if err != nil {
			s.log.Fatalw("Import failed", zap.Error(err))
		}
		fmt.Println(sum)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Bool("tui", false, "Show live progress in an interactive view")
}

// ImportProgressMsg reports progress of an import.
type ImportProgressMsg struct {
	Type    string // "status", "parsed", "warning", "duplicate", "error", "summary", "done"
	Message string
	Path    string
	Done    int
	Total   int
}

type importSummary struct {
	Files      int
	Mods       int
	Duplicates int
	Warnings   int
	Errors     int
}

func (s importSummary) String() string {
	return fmt.Sprintf("Imported %d mods from %d metadata files (%d duplicates, %d warnings, %d errors)",
		s.Mods, s.Files, s.Duplicates, s.Warnings, s.Errors)
}

type scanResult struct {
	files    int
	records  []mods.ModRecord
	warnings []string
	errs     []error
}

// runImport scans the mods directory, refreshes the session catalog and
// stores it. progress may be nil.
func runImport(s *session, progress func(ImportProgressMsg)) (importSummary, error) {
	report := func(msg ImportProgressMsg) {
		if progress != nil {
			progress(msg)
		}
	}

	report(ImportProgressMsg{Type: "status", Message: "Scanning " + s.cfg.ModsDir})
	res, err := scanModsDir(s.cfg.ModsDir, s.cfg.ImportWorkers, report)
	if err != nil {
		return importSummary{}, err
	}

	notices, err := s.catalog.Refresh(res.records)
	if err != nil {
		// Refresh still applied every valid record.
		s.log.Warnw("Some records were rejected", zap.Error(err))
		res.errs = append(res.errs, err)
	}
	for _, n := range notices {
		report(ImportProgressMsg{Type: "duplicate", Message: n.String(), Path: n.Displaced.FilePath})
	}

	report(ImportProgressMsg{Type: "status", Message: "Saving catalog"})
	if err := db.SaveCatalog(s.db, s.catalog); err != nil {
		return importSummary{}, err
	}

	sum := importSummary{
		Files:      res.files,
		Mods:       len(res.records) - len(notices),
		Duplicates: len(notices),
		Warnings:   len(res.warnings),
		Errors:     len(res.errs),
	}
	report(ImportProgressMsg{Type: "summary", Message: sum.String()})
	return sum, nil
}

// scanModsDir parses every metadata file under dir using a pool of workers.
// Records come back sorted by file path so catalog refreshes are repeatable.
func scanModsDir(dir string, workers int, report func(ImportProgressMsg)) (scanResult, error) {
	var sidecars []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && modinfo.IsMetadataFile(path) {
			sidecars = append(sidecars, path)
		}
		return nil
	})
	if err != nil {
		return scanResult{}, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	res := scanResult{files: len(sidecars)}
	if len(sidecars) == 0 {
		return res, nil
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		processed atomic.Int64
		jobs      = make(chan string)
	)
	workers = max(1, min(workers, len(sidecars)))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				records, warnings, err := importSidecar(path)

				mu.Lock()
				res.records = append(res.records, records...)
				res.warnings = append(res.warnings, warnings...)
				if err != nil {
					res.errs = append(res.errs, err)
				}
				mu.Unlock()

				done := int(processed.Add(1))
				for _, w := range warnings {
					report(ImportProgressMsg{Type: "warning", Message: w, Path: path, Done: done, Total: len(sidecars)})
				}
				if err != nil {
					report(ImportProgressMsg{Type: "error", Message: err.Error(), Path: path, Done: done, Total: len(sidecars)})
				}
				report(ImportProgressMsg{Type: "parsed", Path: path, Done: done, Total: len(sidecars)})
			}
		}()
	}
	for _, path := range sidecars {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	slices.SortStableFunc(res.records, func(a, b mods.ModRecord) int {
		return cmp.Compare(a.FilePath, b.FilePath)
	})
	return res, nil
}

// importSidecar parses one metadata file and fills in the file-derived fields.
// Valid records are returned even when some entries were rejected.
func importSidecar(path string) ([]mods.ModRecord, []string, error) {
	f, err := modinfo.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	records, warnings, err := f.Records()
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
	}

	pak := pakFor(path)
	var pakMD5 string
	if pak != "" {
		if sum, hashErr := calculateMD5(pak); hashErr != nil {
			logger.Log.Warnw("Failed to calculate hash", zap.String("file", pak), zap.Error(hashErr))
		} else {
			pakMD5 = sum
		}
	}

	for i := range records {
		rec := &records[i]
		rec.IsUserInstalled = true
		rec.FilePath = path
		if pak != "" {
			rec.FilePath = pak
		}
		if rec.MD5 == "" {
			rec.MD5 = pakMD5
		}
	}
	return records, warnings, err
}

// pakFor finds the package a metadata file describes: X.pak next to X.json,
// or Dir.pak next to Dir/info.json. Returns "" when there is none.
func pakFor(sidecar string) string {
	base := strings.TrimSuffix(sidecar, filepath.Ext(sidecar))
	candidates := []string{base + ".pak"}
	if strings.EqualFold(filepath.Base(base), "info") {
		candidates = append(candidates, filepath.Dir(base)+".pak")
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

func calculateMD5(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

func runImportTUI(s *session) {
	m := initialImportModel(func(progress func(ImportProgressMsg)) error {
		_, err := runImport(s, progress)
		return err
	})

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		s.log.Fatalw("Failed to run import view", zap.Error(err))
	}
}
