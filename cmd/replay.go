package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/soocke/obb-label-go/app"
	"github.com/soocke/obb-label-go/ui/presenter"
)

var (
	replayDryRun bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <image> <script>",
	Short: "Apply a pointer-event script to an image's labels",
	Long: `Run a script of pointer events through the labeling state machine and
save the resulting labels. Use - to read the script from stdin.

Script commands, one per line. Pointer coordinates are image pixels unless a
view command sets a device size, after which they pass through the view:
  mode draw|edit|rotate
  down X Y | move X Y | up X Y
  select I | class I | angle DEG
  set class I | set x|y|w|h|angle V
  cancel | delete | clear
  view W H | zoom F X Y | wheel D X Y | pan DX DY | fit

Examples:
  obblabel replay images/0001.jpg edits.txt
  echo "down 10 10
up 90 60" | obblabel replay images/0001.jpg -`,
	Args: cobra.ExactArgs(2),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVarP(&replayDryRun, "dry-run", "n", false,
		"print the resulting labels without saving")
}

func runReplay(cmd *cobra.Command, args []string) error {
	s := newSession()
	if err := s.OpenImage(args[0]); err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	var script io.Reader = os.Stdin
	if args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		script = f
	}
	n, err := app.RunScript(s, script)
	if err != nil {
		return fmt.Errorf("replay stopped after %d commands: %w", n, err)
	}

	for i, l := range s.Store.Labels() {
		fmt.Printf("  %s\n", presenter.RowText(i, s.Classes.Name(l.ClassID), l))
	}
	if replayDryRun {
		fmt.Printf("Replayed %d commands (not saved)\n", n)
		return nil
	}
	if err := s.SaveCurrent(); err != nil {
		return fmt.Errorf("failed to save labels: %w", err)
	}
	fmt.Printf("Replayed %d commands, %d labels saved\n", n, s.Store.Len())
	return nil
}
