package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"kpiboard/internal/domain/evaluation"
)

var (
	red   = color.New(color.FgRed).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
)

var tokenColors = map[evaluation.Color]color.Attribute{
	evaluation.ColorDefault:   color.FgHiBlack,
	evaluation.ColorPrimary:   color.FgBlue,
	evaluation.ColorSecondary: color.FgMagenta,
	evaluation.ColorInfo:      color.FgCyan,
	evaluation.ColorSuccess:   color.FgGreen,
	evaluation.ColorWarning:   color.FgYellow,
	evaluation.ColorDanger:    color.FgRed,
}

func paint(token evaluation.Color, s string) string {
	attr, ok := tokenColors[token]
	if !ok {
		attr = color.FgHiBlack
	}
	return color.New(attr).Sprint(s)
}

func newRootCmd() *cobra.Command {
	var noColor bool
	root := &cobra.Command{
		Use:           "evalctl",
		Short:         "Inspect KPI evaluation workflows from task fixtures",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	root.AddCommand(newDashboardCmd(), newBandCmd(), newStatusCmd())
	return root
}

func newDashboardCmd() *cobra.Command {
	var file, viewerID, role string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Categorize fixture tasks into dashboard queues for a viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := loadTasks(file)
			if err != nil {
				return err
			}
			viewer := evaluation.Viewer{ID: evaluation.ID(viewerID), Role: role}
			for i := range tasks {
				tasks[i].IsPendingForMe = evaluation.IsPendingFor(&tasks[i], viewer)
			}
			partition := evaluation.Categorize(tasks, viewer)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(partition)
			}
			printDashboard(cmd.OutOrStdout(), partition, viewer)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "task fixture (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&viewerID, "viewer", "", "viewer user id")
	cmd.Flags().StringVar(&role, "role", "employee", "viewer role")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the partition as JSON")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("viewer")
	return cmd
}

func printDashboard(w io.Writer, partition evaluation.Partition, viewer evaluation.Viewer) {
	fmt.Fprintf(w, "%s %s (%s)\n", bold("Dashboard for"), viewer.ID, viewer.Role)
	for _, q := range evaluation.Queues {
		tasks := partition.Queue(q)
		fmt.Fprintf(w, "\n%s %s\n", bold(string(q)), gray(fmt.Sprintf("(%d)", len(tasks))))
		for i := range tasks {
			task := &tasks[i]
			action := evaluation.DecideAction(task, viewer, evaluation.ResolveStatus(task), task.IsPendingForMe)
			label := action.Text
			if action.Disabled {
				label += " [disabled]"
			}
			fmt.Fprintf(w, "  %-12s %-40s %s\n", task.ID, task.Title, paint(action.Color, label))
		}
	}
}

func newBandCmd() *cobra.Command {
	var scale string
	cmd := &cobra.Command{
		Use:   "band <score>",
		Short: "Classify a score into its performance band",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
			if err != nil {
				return fmt.Errorf("score must be a number: %w", err)
			}
			if !evaluation.Finite(score) {
				return fmt.Errorf("score must be finite, got %s", args[0])
			}
			s := evaluation.ParseScale(scale)
			band := evaluation.ScoreBand(score, s)
			fmt.Fprintf(cmd.OutOrStdout(), "%g/%g (%.1f%%) %s\n", score, s.Max(), s.Percent(score), paint(band.Color, band.Label))
			return nil
		},
	}
	cmd.Flags().StringVar(&scale, "scale", "superior", "score scale: self or superior")
	return cmd
}

func newStatusCmd() *cobra.Command {
	var file, taskID string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the evaluation chain of one fixture task",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := loadTasks(file)
			if err != nil {
				return err
			}
			task, ok := findTask(tasks, taskID)
			if !ok {
				return fmt.Errorf("task %q not found in %s", taskID, file)
			}
			printStatus(cmd.OutOrStdout(), task)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "task fixture (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&taskID, "task", "", "task id")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

func printStatus(w io.Writer, task *evaluation.Task) {
	status := evaluation.ResolveStatus(task)
	chain := "single"
	if evaluation.RequiresDualEvaluation(task) {
		chain = "dual"
	}
	fmt.Fprintf(w, "%s %s\n", bold(string(task.ID)), task.Title)
	fmt.Fprintf(w, "chain: %s\n", chain)
	for _, t := range evaluation.Types {
		ev := status.Stage(t)
		if ev == nil {
			if t == evaluation.TypeTopManagement && chain == "single" {
				continue
			}
			fmt.Fprintf(w, "  %-15s %s\n", t, gray("missing"))
			continue
		}
		band := evaluation.BandOf(ev)
		d := ev.Details()
		fmt.Fprintf(w, "  %-15s %g/%g %s by %s\n", t, d.Score, ev.Scale().Max(), paint(band.Color, band.Label), d.Evaluator.ID)
	}
	if evaluation.IsComplete(status, task) {
		fmt.Fprintln(w, green("complete"))
		return
	}
	fmt.Fprintf(w, "next: %s\n", evaluation.NextStage(status, task))
}
