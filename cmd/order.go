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

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Manage the profile's load orders",
}

var orderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved load orders",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		withSession(func(s *session) error { return listOrders(s, os.Stdout) })
	},
}

var orderNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a load order and make it current",
	Long: `Creates a new load order. With --copy the current order's entries
are copied into it, otherwise it starts empty.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		copyCurrent, _ := cmd.Flags().GetBool("copy")
		withSession(func(s *session) error { return newOrder(s, args[0], copyCurrent) })
	},
}

var orderUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a saved load order current",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withSession(func(s *session) error { return useOrder(s, args[0]) })
	},
}

var orderActivateCmd = &cobra.Command{
	Use:   "activate <mod> [position]",
	Short: "Add a mod to the current load order",
	Long:  `Adds a mod by UUID, name or folder. Without a position it is appended.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(_ *cobra.Command, args []string) {
		withSession(func(s *session) error {
			at := -1
			if len(args) == 2 {
				pos, err := parsePosition(args[1])
				if err != nil {
					return err
				}
				at = pos
			}
			return editOrder(s, func(p *mods.Partitioner, m *mods.ModRecord) error {
				_, err := p.Activate(m.UUID, at)
				return err
			}, args[0])
		})
	},
}

var orderDeactivateCmd = &cobra.Command{
	Use:   "deactivate <mod>",
	Short: "Remove a mod from the current load order",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withSession(func(s *session) error {
			return editOrder(s, func(p *mods.Partitioner, m *mods.ModRecord) error {
				_, err := p.Deactivate(m.UUID)
				return err
			}, args[0])
		})
	},
}

var orderMoveCmd = &cobra.Command{
	Use:   "move <mod> <position>",
	Short: "Move an active mod to a new position",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		withSession(func(s *session) error {
			to, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			return editOrder(s, func(p *mods.Partitioner, m *mods.ModRecord) error {
				_, err := p.Move(m.UUID, to)
				return err
			}, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
	orderCmd.AddCommand(orderListCmd, orderNewCmd, orderUseCmd, orderActivateCmd, orderDeactivateCmd, orderMoveCmd)
	orderNewCmd.Flags().Bool("copy", false, "Copy the current order's entries")
}

// withSession runs fn against a bootstrapped session and exits on error.
func withSession(fn func(*session) error) {
	s := bootstrap(configDir)
	defer s.close()
	if err := fn(s); err != nil {
		s.log.Fatalw("Command failed", zap.Error(err))
	}
}

func listOrders(s *session, w io.Writer) error {
	orders, err := db.ListLoadOrders(s.db, s.profile.ID)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(w, "No saved load orders.")
		return nil
	}
	for _, o := range orders {
		marker := " "
		if o.ID == s.profile.CurrentOrderID {
			marker = ui.CursorStyle.Render("*")
		}
		fmt.Fprintf(w, "%s %-30s %3d mods  %s\n", marker, o.Name, len(o.Entries),
			ui.MutedStyle.Render(o.LastModified.Format("2006-01-02 15:04")))
	}
	return nil
}

func newOrder(s *session, name string, copyCurrent bool) error {
	if _, err := db.FindLoadOrder(s.db, s.profile.ID, name); err == nil {
		return fmt.Errorf("load order %q already exists", name)
	}
	var uuids []string
	if copyCurrent {
		cur, err := s.currentOrder()
		if err != nil {
			return err
		}
		uuids = cur.UUIDs()
	}
	o, err := mods.LoadOrderFrom(name, uuids, s.catalog)
	if err != nil {
		return err
	}
	if err := s.saveOrder(o, true); err != nil {
		return err
	}
	s.log.Infow("Created load order", zap.String("order", name), zap.Int("mods", len(o.Entries)))
	return nil
}

func useOrder(s *session, name string) error {
	o, err := db.FindLoadOrder(s.db, s.profile.ID, name)
	if err != nil {
		return err
	}
	if o.IsCurrent && s.profile.CurrentOrderID == o.ID {
		return nil
	}
	return s.saveOrder(o, true)
}

// editOrder applies edit to the current order for the mod named by key and
// saves the result.
func editOrder(s *session, edit func(*mods.Partitioner, *mods.ModRecord) error, key string) error {
	o, err := s.currentOrder()
	if err != nil {
		return err
	}
	m, err := findMod(s.catalog, key)
	if err != nil {
		return err
	}
	if err := edit(mods.NewPartitioner(s.catalog, o), m); err != nil {
		return err
	}
	return s.saveOrder(o, true)
}
