package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/pricefetch/internal/engine"
	"github.com/rshade/pricefetch/internal/logging"
	"github.com/rshade/pricefetch/internal/tui"
)

// menuRunner shows the menu once and returns the user's selection.
type menuRunner func(ctx context.Context, in io.Reader, out io.Writer, notice string) (tui.Selection, error)

func newMenuCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Long: `Opens a menu to fetch listings or show the price of one cryptocurrency.
After each action press Enter to return to the menu.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenuLoop(cmd, s)
		},
	}
}

// runMenuLoop shows the menu until the user exits. Action failures are
// printed and the menu is shown again.
func runMenuLoop(cmd *cobra.Command, s *session) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	run := s.runMenu
	if run == nil {
		run = tui.RunMenu
	}

	notice := ""
	for {
		sel, err := run(ctx, cmd.InOrStdin(), out, notice)
		if err != nil {
			return err
		}
		notice = ""

		var actionErr error
		switch sel.Action {
		case tui.ActionFetch:
			var res *engine.Result
			res, actionErr = runFetch(cmd, s, fetchParams{top: -1}.resolve(s))
			if actionErr == nil {
				notice = fetchOutcome(res)
			}
		case tui.ActionShowPrice:
			actionErr = runPrice(cmd, s, sel.Query, s.settings.Fetch.Currency)
		case tui.ActionExit, tui.ActionNone:
			_, _ = fmt.Fprintln(out, "Exiting the program.")
			return nil
		}

		if actionErr != nil {
			logging.FromContext(ctx).Debug().Err(actionErr).Msg("menu action failed")
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), explain(actionErr))
		}

		if _, err = s.prompter(cmd).Ask(ctx, "\nPress Enter to return to the menu..."); err != nil {
			_, _ = fmt.Fprintln(out, "Exiting the program.")
			return nil
		}
	}
}
