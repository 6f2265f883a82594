package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Balthazzahr/scry-daemon/internal/domain"
	"github.com/Balthazzahr/scry-daemon/internal/store"
)

// ResetCmd wipes recorded match history
type ResetCmd struct {
	Force bool `short:"f" help:"Skip the confirmation prompt"`
}

// Run executes the reset command
func (c *ResetCmd) Run(globals *Globals) error {
	st := store.New(globals.Config.StateFile(), globals.Logger)
	state := st.Load()

	if len(state.Matches) == 0 {
		fmt.Fprintln(globals.Stdout, "No matches recorded; nothing to reset.")
		return nil
	}

	if !c.Force {
		fmt.Fprintf(globals.Stdout, "Delete %d recorded matches? [y/N] ", len(state.Matches))
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if s := strings.ToLower(strings.TrimSpace(answer)); s != "y" && s != "yes" {
			fmt.Fprintln(globals.Stdout, "Aborted.")
			return nil
		}
	}

	// Identity and the chosen log path survive a reset.
	state.Matches = []domain.MatchRecord{}
	state.LastGameEndTime = 0
	if err := st.Save(state); err != nil {
		return err
	}

	fmt.Fprintln(globals.Stdout, "Match history cleared.")
	return nil
}
