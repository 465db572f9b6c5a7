package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Bbowlby22/oxproxion/core"
)

type statusStyles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	muted lipgloss.Style
	warn  lipgloss.Style
}

func newStatusStyles() statusStyles {
	return statusStyles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45")),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		value: lipgloss.NewStyle().Bold(true),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

func newStatusCmd(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show federation, routing and orchestration statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, cfg, err := openEngine(*configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			syncStats := engine.SyncStats()
			orchStats := engine.Stats()
			agents := engine.Router().Agents()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Sync          core.SyncStats          `json:"sync"`
					Orchestration core.OrchestrationStats `json:"orchestration"`
					Agents        []core.AgentDescriptor  `json:"agents"`
				}{syncStats, orchStats, agents})
			}

			st := newStatusStyles()
			var b strings.Builder

			fmt.Fprintln(&b, st.title.Render(fmt.Sprintf("Federation %s <-> %s", cfg.RepoA, cfg.RepoB)))
			fmt.Fprintf(&b, "%s %s\n", st.label.Render("Total syncs:"), st.value.Render(fmt.Sprintf("%d", syncStats.Total)))
			fmt.Fprintf(&b, "%s %s   %s %s\n",
				st.label.Render(fmt.Sprintf("%s -> %s:", cfg.RepoA, cfg.RepoB)), st.value.Render(fmt.Sprintf("%d", syncStats.AToB)),
				st.label.Render(fmt.Sprintf("%s -> %s:", cfg.RepoB, cfg.RepoA)), st.value.Render(fmt.Sprintf("%d", syncStats.BToA)))
			fmt.Fprintf(&b, "%s %s\n", st.label.Render("Last sync:"), renderTime(st, syncStats.LastSync))

			fmt.Fprintln(&b)
			fmt.Fprintln(&b, st.title.Render("Orchestration"))
			fmt.Fprintf(&b, "%s %s   %s %s\n",
				st.label.Render("Solved:"), st.value.Render(fmt.Sprintf("%d", orchStats.TotalSolved)),
				st.label.Render("Success rate:"), st.value.Render(fmt.Sprintf("%.1f%%", orchStats.SuccessRate*100)))
			fmt.Fprintf(&b, "%s %s\n", st.label.Render("Routed:"), st.value.Render(fmt.Sprintf("%d", orchStats.Routing.TotalRouted)))
			if last := orchStats.Routing.LastRouting; last != nil {
				fmt.Fprintf(&b, "%s %s %s\n",
					st.label.Render("Last routing:"), st.value.Render(last.SelectedAgent),
					st.muted.Render(fmt.Sprintf("(%s)", last.ProblemType)))
			}

			fmt.Fprintln(&b)
			fmt.Fprintln(&b, st.title.Render("Agents"))
			if len(agents) == 0 {
				fmt.Fprintln(&b, st.warn.Render("no agents registered"))
			}
			for _, a := range agents {
				availability := st.value.Render("available")
				if !a.Available {
					availability = st.warn.Render("unavailable")
				}
				fmt.Fprintf(&b, "%s %s %s\n",
					st.value.Render(a.Name), availability,
					st.muted.Render(fmt.Sprintf("load=%d", a.CurrentLoad)))
			}

			fmt.Fprint(cmd.OutOrStdout(), b.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit statistics as JSON")
	return cmd
}

func renderTime(st statusStyles, t *time.Time) string {
	if t == nil {
		return st.muted.Render("never")
	}
	return st.value.Render(t.Format(time.RFC3339))
}
