package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionSource sourceFlags

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage analysis sessions",
}

var sessionNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a session from the current settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, _, err := sessionSource.resolve(cmd)
		if err != nil {
			return err
		}
		if err := ac.Validate(); err != nil {
			return err
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		store := sessionStore()
		if name != "" {
			if _, err := store.Open(name); err == nil {
				return fmt.Errorf("session %q already exists", name)
			}
		}
		sess := store.Create(name, ac)
		if err := sess.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created session '%s' (%s)\n", sess.Name, sess.ID)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := sessionStore().List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(all) == 0 {
			fmt.Fprintln(out, "(no sessions)")
			return nil
		}
		for _, s := range all {
			fmt.Fprintf(out, "- %s %s source=%s results=%d updated=%s\n",
				s.ID[:8], s.Name, s.Config.DataSource, len(s.Results), s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionNewCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionSource.register(sessionNewCmd)
}
