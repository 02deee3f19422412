package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-equity/internal/bcm"
	"github.com/lox/holdem-equity/internal/crosscheck"
	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/poker"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	percentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func displayResults(w io.Writer, res equity.Enumeration, mode string) {
	if res.Board.Len() > 0 {
		fmt.Fprintf(w, "%s\n", headerStyle.Render(res.Board.Stage().String()))
		fmt.Fprintf(w, "%s\n\n", formatCards(res.Board.Cards()))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("player"),
		headerStyle.Render("hand"),
		headerStyle.Render("category"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"),
		headerStyle.Render("equity"))

	results := res.Results()
	for _, r := range results.Players {
		hole := res.Players[r.Player]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			fmt.Sprintf("P%d", r.Player+1),
			handStyle.Render(formatCards(hole[:])),
			categoryStyle.Render(string(poker.CategorizeHole(hole))),
			winStyle.Render(fmt.Sprintf("%.2f%%", r.WinPercent())),
			tieStyle.Render(fmt.Sprintf("%.2f%%", r.TiePercent())),
			percentStyle.Render(fmt.Sprintf("%.2f%%", r.Equity())))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d boards (%s) in %v\n", res.Cases, mode, res.Elapsed.Truncate(time.Millisecond))
	if res.Skipped > 0 {
		fmt.Fprintf(w, "%s\n", percentStyle.Render(fmt.Sprintf("%d boards could not be ranked and count for nobody", res.Skipped)))
	}
}

func displayOuts(w io.Writer, outs equity.Outs) {
	next := "river"
	if outs.Board.Stage() == poker.Flop {
		next = "turn"
	}
	fmt.Fprintf(w, "%s\n", headerStyle.Render("outs on the "+next))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, hole := range outs.Players {
		cards := outs.For(i).Cards()
		list := "."
		if len(cards) > 0 {
			list = formatCards(cards)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			fmt.Sprintf("P%d", i+1),
			handStyle.Render(formatCards(hole[:])),
			winStyle.Render(fmt.Sprintf("%d", len(cards))),
			list)
	}
	tw.Flush()

	leader := outs.Leader()
	fmt.Fprintf(w, "\nmost outs: P%d %s\n", leader+1, formatCards(outs.Players[leader][:]))
}

func displayMatchup(w io.Writer, a, b poker.Hole, m equity.Matchup, cached bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("wins"),
		headerStyle.Render("ties"),
		headerStyle.Render("losses"),
		headerStyle.Render("equity"))
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		handStyle.Render(formatCards(a[:])),
		winStyle.Render(fmt.Sprintf("%d", m.Wins)),
		tieStyle.Render(fmt.Sprintf("%d", m.Ties)),
		fmt.Sprintf("%d", m.Losses),
		percentStyle.Render(fmt.Sprintf("%.2f%%", m.Equity())))
	s := m.Swap()
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		handStyle.Render(formatCards(b[:])),
		winStyle.Render(fmt.Sprintf("%d", s.Wins)),
		tieStyle.Render(fmt.Sprintf("%d", s.Ties)),
		fmt.Sprintf("%d", s.Losses),
		percentStyle.Render(fmt.Sprintf("%.2f%%", s.Equity())))
	tw.Flush()

	source := "computed"
	if cached {
		source = "cached"
	}
	fmt.Fprintf(w, "\n%d boards (%s)\n", m.Total(), source)
}

func displayVerify(w io.Writer, report bcm.VerifyReport) {
	status := winStyle.Render("ok")
	if !report.OK() {
		status = percentStyle.Render(fmt.Sprintf("%d mismatches", len(report.Mismatches)))
	}
	fmt.Fprintf(w, "%s %d samples: %s\n", headerStyle.Render("cache"), report.Samples, status)
	for i, m := range report.Mismatches {
		if i == 10 {
			fmt.Fprintf(w, "  ... %d more\n", len(report.Mismatches)-i)
			break
		}
		fmt.Fprintf(w, "  %s\n", m)
	}
}

func displayCrosscheck(w io.Writer, report crosscheck.Report) {
	status := winStyle.Render("ok")
	if !report.OK() {
		status = percentStyle.Render(fmt.Sprintf("%d disagreements", len(report.Disagreements)))
	}
	fmt.Fprintf(w, "%s %d samples, %d classes: %s\n", headerStyle.Render("reference"), report.Samples, report.Classes, status)
	for i, d := range report.Disagreements {
		if i == 10 {
			fmt.Fprintf(w, "  ... %d more\n", len(report.Disagreements)-i)
			break
		}
		fmt.Fprintf(w, "  %s\n", d)
	}
}

func formatCards(cards []poker.Card) string {
	var parts []string
	for _, card := range cards {
		parts = append(parts, card.Pretty())
	}
	return strings.Join(parts, " ")
}
