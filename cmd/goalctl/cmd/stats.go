package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/templui/goalpace/internal/app"
	"github.com/templui/goalpace/internal/model"
)

func StatsCmd() *cobra.Command {
	var (
		userEmail string
		period    int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print a user's analytics for a window of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, userEmail, func(a *app.App, user *model.User) error {
				result, err := a.StatsService.UserStats(cmd.Context(), user.ID, period)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(out, result)
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "window\t%d days\n", result.WindowDays)
				fmt.Fprintf(w, "goals\t%d (%d completed, %d%%)\n", result.Total, result.Completed, result.Rate)
				fmt.Fprintf(w, "active rate\t%d%%\n", result.ActiveRate)
				fmt.Fprintf(w, "streak\t%d current, %d longest\n", result.Streaks.Current, result.Streaks.Longest)
				fmt.Fprintf(w, "avg days to complete\t%d\n", result.AvgDaysToComplete)
				fmt.Fprintf(w, "completed in last 30 days\t%d\n", result.CompletedInLast30Days)
				if f := result.FastestGoal; f != nil {
					fmt.Fprintf(w, "fastest goal\t%s (%d days)\n", f.Name, f.Days)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&userEmail, "user", "u", "", "email of the goal owner")
	cmd.Flags().IntVarP(&period, "period", "p", 0, "window in days, 1 to 365 (default from STATS_DEFAULT_WINDOW)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
