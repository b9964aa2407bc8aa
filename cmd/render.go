package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	app "github.com/okian/promosim/internal/app"
	"github.com/okian/promosim/internal/domain/promotion"
	"github.com/okian/promosim/internal/domain/schema"
	"github.com/okian/promosim/internal/sweep"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F39C12"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	winnerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2ECC71"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#5B8DEF")).
			Padding(0, 1)
)

const (
	labelWidth  = 14
	numberWidth = 14
	barWidth    = 20
)

// tableRow renders a label column followed by right-aligned value columns.
func tableRow(style lipgloss.Style, label string, values ...string) string {
	cells := make([]string, 0, len(values)+1)
	cells = append(cells, style.Width(labelWidth).Render(label))
	for _, v := range values {
		cells = append(cells, style.Width(numberWidth).Align(lipgloss.Right).Render(v))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func num(v float64) string { return fmt.Sprintf("%.2f", v) }

func winnerLabel(winner string, mode promotion.Mode) string {
	switch winner {
	case "candidate":
		return "skill-based (" + string(mode) + ")"
	case "baseline":
		return "random"
	default:
		return "tie"
	}
}

func renderSimulation(sim *app.Simulation) string {
	lines := []string{
		titleStyle.Render("Promotion simulation"),
		mutedStyle.Render(fmt.Sprintf("run %s  mode=%s  seed=%d  population=%d",
			sim.RunID, sim.Mode, sim.Seed, len(sim.Population))),
		"",
		tableRow(headerStyle, "Layer", "Random req", "Random total", "Skill req", "Skill total"),
	}
	for _, row := range sim.Comparison.Rows {
		lines = append(lines, tableRow(lipgloss.NewStyle(), row.Layer,
			num(row.Baseline.RequiredSkillAverage), num(row.Baseline.TotalScoreAverage),
			num(row.Candidate.RequiredSkillAverage), num(row.Candidate.TotalScoreAverage)))
	}
	totals := sim.Comparison.GrandTotals
	lines = append(lines,
		tableRow(headerStyle, "Grand total", num(totals.Baseline), "", num(totals.Candidate), ""),
		"",
		"Winner: "+winnerStyle.Render(winnerLabel(totals.Winner(), sim.Mode)),
	)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderPerson(view personView) string {
	p := view.Person
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s (id %d)", p.Name, p.ID)),
		mutedStyle.Render(fmt.Sprintf("run %s  seed=%d", view.RunID, view.Seed)),
		fmt.Sprintf("total score %d  random layer %s  skill layer %s",
			p.TotalScore(), orNone(view.RandomLayer), orNone(view.SkillLayer)),
		"",
	}
	for _, sk := range schema.Skills() {
		score := p.Scores.Get(sk)
		bar := strings.Repeat("█", score*barWidth/100)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(22).Render(sk.String()),
			lipgloss.NewStyle().Width(5).Align(lipgloss.Right).Render(fmt.Sprint(score)),
			" ",
			winnerStyle.Render(bar),
		))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func orNone(layer string) string {
	if layer == "" {
		return "-"
	}
	return layer
}

func renderSweep(res *sweep.Result) string {
	lines := []string{
		titleStyle.Render("Promotion sweep"),
		mutedStyle.Render(fmt.Sprintf("sweep %s  mode=%s  runs=%d  first seed=%d",
			res.ID, res.Mode, res.Runs, res.FirstSeed)),
		"",
		tableRow(headerStyle, "Layer", "Random req", "Skill req"),
	}
	for _, l := range res.Layers {
		lines = append(lines, tableRow(lipgloss.NewStyle(), l.Layer, num(l.Random), num(l.Skill)))
	}
	lines = append(lines,
		tableRow(headerStyle, "Mean total", num(res.MeanRandomTotal), num(res.MeanSkillTotal)),
		"",
		fmt.Sprintf("Wins: skill-based %s  random %s  tie %d",
			winnerStyle.Render(fmt.Sprint(res.Wins.Skill)), fmt.Sprint(res.Wins.Random), res.Wins.Tie),
	)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
