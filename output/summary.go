package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"regen/calculator"
	"regen/feed"
	"regen/injector"
)

var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorDanger  = lipgloss.Color("#FF6B6B")
	colorMuted   = lipgloss.Color("#6C757D")

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(22)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)
)

func line(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// Summary renders the headline numbers of one march.
func Summary(name string, res *calculator.Result, runErr error) string {
	sections := []string{titleStyle.Render(name)}
	if res != nil && len(res.Rows) > 0 {
		sections = append(sections,
			line("stations", fmt.Sprintf("%d", len(res.Rows))),
			line("peak wall temperature", fmt.Sprintf("%.1f K at station %d", res.PeakWallT, res.PeakIndex)),
			line("coolant outlet", fmt.Sprintf("%.1f K, %.2f bar", res.Outlet.Temperature, res.Outlet.Pressure/1e5)),
			line("skipped / unsettled", fmt.Sprintf("%d / %d", res.Skipped, res.Unsettled)),
			line("floored stations", fmt.Sprintf("%d", res.Floored)),
			line("elapsed", res.Elapsed.Round(time.Millisecond).String()),
		)
	}
	if runErr != nil {
		sections = append(sections, errorStyle.Render(runErr.Error()))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SweepSummary renders one line per case in case order.
func SweepSummary(results []calculator.CaseResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%-32s %12s %10s %12s", "case", "peak Tw [K]", "station", "outlet [bar]")))
	for _, r := range results {
		b.WriteString("\n")
		if r.Err != nil {
			b.WriteString(fmt.Sprintf("%-32s ", r.Name) + errorStyle.Render(r.Err.Error()))
			continue
		}
		b.WriteString(fmt.Sprintf("%-32s %12.1f %10d %12.2f", r.Name, r.Result.PeakWallT, r.Result.PeakIndex, r.Result.Outlet.Pressure/1e5))
	}
	return boxStyle.Render(b.String())
}

// InjectorRow is one sized element.
type InjectorRow struct {
	Name   string
	Result injector.Result
}

func InjectorSummary(rows []InjectorRow) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%-12s %10s %10s %10s %8s %12s %10s", "element", "d [mm]", "dm [mm]", "v [m/s]", "mu", "Re", "dp [bar]")))
	for _, r := range rows {
		res := r.Result
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-12s %10.3f %10.3f %10.2f %8.3f %12.4g %10.2f",
			r.Name, res.Diameter*1e3, res.MeanDiameter*1e3, res.Velocity, res.Discharge, res.Reynolds, res.PressureDrop/1e5))
	}
	return boxStyle.Render(b.String())
}

// FeedReport collects the supply sizing outputs.
type FeedReport struct {
	PropellantVolume float64
	Adiabatic        feed.Pressurant
	Sutton           feed.Pressurant
	Tanks            feed.Tanks
}

func FeedSummary(r FeedReport) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("feed system"),
		line("propellant volume", fmt.Sprintf("%.1f l", r.PropellantVolume*1e3)),
		line("pressurant (adiabatic)", fmt.Sprintf("%.3f kg in %.1f l", r.Adiabatic.Mass, r.Adiabatic.TankVolume*1e3)),
		line("pressurant (Sutton)", fmt.Sprintf("%.3f kg in %.1f l", r.Sutton.Mass, r.Sutton.TankVolume*1e3)),
		line("cooling factor", fmt.Sprintf("%.3f", r.Sutton.CoolingFactor)),
		line("tank masses", fmt.Sprintf("%.2f kg propellant, %.2f kg pressurant", r.Tanks.Propellant, r.Tanks.Pressurant)),
	))
}
