package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"healthrisk/ml"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Width(16)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	positiveBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	negativeBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	badgeStyles = map[ml.RiskLevel]lipgloss.Style{
		ml.RiskLow:      badge("2"),
		ml.RiskModerate: badge("3"),
		ml.RiskHigh:     badge("1"),
	}
)

const barWidth = 24

func badge(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color(color))
}

func renderPrediction(p ml.Prediction) string {
	lines := []string{
		titleStyle.Render("Prediction Result"),
		labelStyle.Render("Risk score") + fmt.Sprintf("%.2f", p.Score),
		labelStyle.Render("Risk level") + badgeStyles[p.Level].Render(p.Label),
		labelStyle.Render("Indicator") + progressBar(p.Progress),
	}
	for _, w := range p.Warnings {
		lines = append(lines, warningStyle.Render("! "+w))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func progressBar(progress int) string {
	filled := progress * barWidth / 100
	return positiveBar.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled)) +
		fmt.Sprintf(" %d%%", progress)
}

func renderModel(target string, model ml.RiskModel) string {
	diag := model.Diagnostics()
	impacts := model.Impacts()

	var largest float64
	for _, impact := range impacts {
		if w := abs(impact.Weight); w > largest {
			largest = w
		}
	}

	lines := []string{titleStyle.Render("Linear model for " + target)}
	for _, impact := range impacts {
		lines = append(lines, labelStyle.Render(impact.Feature)+
			fmt.Sprintf("%10.4f  ", impact.Weight)+impactBar(impact.Weight, largest))
	}
	lines = append(lines,
		labelStyle.Render("Intercept")+fmt.Sprintf("%10.4f", model.Intercept()),
		mutedStyle.Render(fmt.Sprintf("n=%d  R²=%.4f  RMSE=%.4f  max residual=%.4f",
			diag.Samples, diag.RSquared, diag.RMSE, diag.MaxResidual)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func impactBar(weight, largest float64) string {
	if largest == 0 {
		return ""
	}
	n := int(abs(weight) / largest * barWidth)
	if weight < 0 {
		return negativeBar.Render(strings.Repeat("◀", n))
	}
	return positiveBar.Render(strings.Repeat("▶", n))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
