package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/goalpace/internal/app"
	"github.com/templui/goalpace/internal/model"
	"github.com/templui/goalpace/internal/query"
	"github.com/templui/goalpace/internal/service"
)

func GoalsCmd() *cobra.Command {
	var userEmail string

	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List and change a user's goals",
	}
	cmd.PersistentFlags().StringVarP(&userEmail, "user", "u", "", "email of the goal owner")

	cmd.AddCommand(goalsListCmd(&userEmail))
	cmd.AddCommand(goalsCreateCmd(&userEmail))
	cmd.AddCommand(goalsProgressCmd(&userEmail))
	cmd.AddCommand(goalsCompleteCmd(&userEmail))
	cmd.AddCommand(goalsHistoryCmd(&userEmail))
	cmd.AddCommand(goalsDeleteCmd(&userEmail))

	return cmd
}

func goalsListCmd(userEmail *string) *cobra.Command {
	var (
		text   string
		colors []string
		status string
		sort   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals with optional filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, *userEmail, func(a *app.App, user *model.User) error {
				values := url.Values{}
				values.Set("q", text)
				values.Set("status", status)
				values.Set("sort", sort)
				if len(colors) > 0 {
					values.Set("colors", strings.Join(colors, ","))
				}

				filter, err := query.ParseFilter(values, a.GoalService.Locale())
				if err != nil {
					return err
				}

				goals, err := a.GoalService.List(user.ID, filter)
				if err != nil {
					return err
				}

				printGoals(cmd.OutOrStdout(), goals, time.Now())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&text, "query", "q", "", "substring match on name")
	cmd.Flags().StringSliceVar(&colors, "color", nil, "hex colors to include")
	cmd.Flags().StringVar(&status, "status", "", "active, completed or overdue")
	cmd.Flags().StringVar(&sort, "sort", "", "name_asc, progress_desc, deadline_asc or deadline_desc")

	return cmd
}

func goalsCreateCmd(userEmail *string) *cobra.Command {
	var (
		in       service.CreateGoalInput
		deadline string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, *userEmail, func(a *app.App, user *model.User) error {
				if deadline != "" {
					in.Deadline = &deadline
				}

				goal, err := a.GoalService.Create(cmd.Context(), user.ID, in)
				if err != nil {
					return err
				}

				printGoals(cmd.OutOrStdout(), []*model.Goal{goal}, time.Now())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "goal name")
	cmd.Flags().StringVar(&in.Unit, "unit", "", "unit of measure")
	cmd.Flags().Float64Var(&in.Target, "target", 0, "target amount")
	cmd.Flags().Float64Var(&in.Baseline, "baseline", 0, "starting amount")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline as YYYY-MM-DD")
	cmd.Flags().StringVar(&in.Color, "color", "", "hex color, e.g. #3B82F6")

	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("target")

	return cmd
}

func goalsProgressCmd(userEmail *string) *cobra.Command {
	var (
		delta float64
		note  string
	)

	cmd := &cobra.Command{
		Use:   "progress <goal-id>",
		Short: "Record a progress delta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, *userEmail, func(a *app.App, user *model.User) error {
				goal, err := a.GoalService.RecordProgress(cmd.Context(), user.ID, args[0], delta, note)
				if err != nil {
					return err
				}

				printGoals(cmd.OutOrStdout(), []*model.Goal{goal}, time.Now())
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&delta, "delta", 0, "amount to add, negative to subtract")
	cmd.Flags().StringVar(&note, "note", "", "optional note")
	cmd.MarkFlagRequired("delta")

	return cmd
}

func goalsCompleteCmd(userEmail *string) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "complete <goal-id>",
		Short: "Bring a goal to its target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, *userEmail, func(a *app.App, user *model.User) error {
				goal, err := a.GoalService.Complete(cmd.Context(), user.ID, args[0], note)
				if err != nil {
					return err
				}

				printGoals(cmd.OutOrStdout(), []*model.Goal{goal}, time.Now())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "optional note")

	return cmd
}

func goalsHistoryCmd(userEmail *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history <goal-id>",
		Short: "Show the progress history of a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, *userEmail, func(a *app.App, user *model.User) error {
				summary, err := a.GoalService.History(user.ID, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(out, summary)
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "DATE\tDELTA\tVALUE\tPCT\tNOTE\n")
				fmt.Fprintf(w, "-\t-\t%g\t-\tinitial\n", summary.InitialValue)
				for _, row := range summary.Rows {
					note := row.Note
					if row.Complete && note == "" {
						note = "(completed)"
					}
					fmt.Fprintf(w, "%s\t%+g\t%g\t%d%%\t%s\n", row.Date, row.Delta, row.ResultingValue, row.Percentage, note)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func goalsDeleteCmd(userEmail *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <goal-id>",
		Short: "Delete a goal and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, *userEmail, func(a *app.App, user *model.User) error {
				if err := a.GoalService.Delete(user.ID, args[0]); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func printGoals(out io.Writer, goals []*model.Goal, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tPROGRESS\tPCT\tDEADLINE\tSTATUS\n")
	for _, g := range goals {
		deadline := "-"
		if g.Deadline != nil {
			deadline = *g.Deadline
		}
		fmt.Fprintf(w, "%s\t%s\t%g/%g %s\t%d%%\t%s\t%s\n",
			g.ID, g.Name, g.Current, g.Target, g.Unit, g.Percentage(), deadline, g.Status(now))
	}
	w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
