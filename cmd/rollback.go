package cmd

import (
	"fmt"

	"bg3-mod-manager/db"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rollbackCmd represents the rollback command
var rollbackCmd = &cobra.Command{
	Use:   "rollback [order]",
	Short: "Restore the previous revision of a load order",
	Long: `Restore the previous revision of a load order.
Example: bg3-mod-manager rollback Current

Every save archives the entries it replaces. Rolling back restores
the most recent archived revision and removes it from history, so
repeated rollbacks walk further back. Without an argument the
current order is rolled back.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withSession(func(s *session) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return rollbackOrder(s, name)
		})
	},
}

func init() {
	rootCmd.AddCommand(rollbackCmd)
}

// rollbackOrder handles the rollback process for a specific load order
func rollbackOrder(s *session, name string) error {
	var id string
	if name == "" {
		o, err := s.currentOrder()
		if err != nil {
			return err
		}
		id, name = o.ID, o.Name
	} else {
		o, err := db.FindLoadOrder(s.db, s.profile.ID, name)
		if err != nil {
			return err
		}
		id = o.ID
	}

	log := s.log.With(zap.String("order", name))
	log.Infow("Attempting rollback")

	restored, err := db.RollbackLoadOrder(s.db, id)
	if err != nil {
		return err
	}

	log.Infow("Rollback successful", zap.Int("mods", len(restored.Entries)))
	fmt.Printf("Successfully rolled back %s to %d mods\n", restored.Name, len(restored.Entries))
	return nil
}
