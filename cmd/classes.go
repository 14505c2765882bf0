package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/soocke/obb-label-go/app"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "Manage the class list",
	Long: `List and edit the class names stored in the session config. Removing a
class does not renumber existing labels.

Examples:
  obblabel classes list
  obblabel classes add car truck
  obblabel classes remove 1
  obblabel classes import classes.txt
  obblabel classes export classes.txt`,
}

var classesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the class list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		for i, name := range s.Classes.Names() {
			fmt.Printf("%d: %s\n", i, name)
		}
		return nil
	},
}

var classesAddCmd = &cobra.Command{
	Use:   "add <name>...",
	Short: "Append classes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		for _, name := range args {
			id, err := s.AddClass(name)
			if err != nil {
				return fmt.Errorf("failed to add class: %w", err)
			}
			fmt.Printf("Added %d: %s\n", id, s.Classes.Name(id))
		}
		return nil
	},
}

var classesRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove a class by index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid class index %q: %w", args[0], err)
		}
		s := newSession()
		name := s.Classes.Name(i)
		if err := s.RemoveClass(i); err != nil {
			return fmt.Errorf("failed to remove class: %w", err)
		}
		fmt.Printf("Removed %d: %s\n", i, name)
		return nil
	},
}

var classesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the class list from a file with one name per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		n, err := s.ImportClasses(args[0])
		if err != nil {
			return fmt.Errorf("failed to import classes: %w", err)
		}
		fmt.Printf("Imported %d classes\n", n)
		return nil
	},
}

var classesExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the class list to a file with one name per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		if err := s.ExportClasses(args[0]); err != nil {
			return fmt.Errorf("failed to export classes: %w", err)
		}
		fmt.Printf("Exported %d classes to %s\n", s.Classes.Len(), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classesCmd)
	classesCmd.AddCommand(classesListCmd, classesAddCmd, classesRemoveCmd, classesImportCmd, classesExportCmd)
}

func newSession() *app.Session {
	return app.BuildSession(cfg, cfgPath, logger, app.Views{})
}
