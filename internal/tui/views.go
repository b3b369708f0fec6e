package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/convsurvey/internal/conversation"
	"github.com/fyrsmithlabs/convsurvey/internal/scoring"
)

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.screen {
	case screenSetup:
		content = m.renderSetup()
	case screenList:
		content = m.renderList()
	case screenRate:
		content = m.renderRate()
	}

	return containerStyle.Render(content)
}

func (m Model) renderSetup() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(" Conversation Rating Survey ") + "\n\n")
	b.WriteString(labelStyle.Render("Annotator ID") + "\n")
	b.WriteString(m.annotatorInput.View() + "\n\n")
	b.WriteString(dimStyle.Render("Conversations: ") + valueStyle.Render(m.folder) + "\n")
	if m.status != "" {
		b.WriteString("\n" + failStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + footerKeyStyle.Render("[enter]") + footerStyle.Render(" start  ") +
		footerKeyStyle.Render("[esc]") + footerStyle.Render(" quit"))
	return b.String()
}

func (m Model) renderList() string {
	conversations := m.session.Conversations()
	done, total := m.session.Progress()

	var b strings.Builder
	b.WriteString(headerStyle.Render(" Conversation Rating Survey ") + "  ")
	b.WriteString(dimStyle.Render("Annotator: ") + valueStyle.Render(m.session.AnnotatorID()) + "\n\n")

	fraction := 0.0
	if total > 0 {
		fraction = float64(done) / float64(total)
	}
	b.WriteString(labelStyle.Render("Progress: ") +
		m.doneProgress.ViewAs(fraction) + " " +
		dimStyle.Render(fmt.Sprintf("%d/%d rated", done, total)) + "\n")

	if m.banner != "" {
		b.WriteString("\n" + warnStyle.Render("☕ "+m.banner) + "\n")
	}

	b.WriteString("\n" + sectionStyle.Render("┃ Conversations") + "\n")
	for i, conv := range conversations {
		line := m.renderListRow(conv)
		if i == m.cursor {
			line = selectedStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + dimStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" +
		footerKeyStyle.Render("[enter]") + footerStyle.Render(" rate  ") +
		footerKeyStyle.Render("[s]") + footerStyle.Render(" save  ") +
		footerKeyStyle.Render("[i]") + footerStyle.Render(" import  ") +
		footerKeyStyle.Render("[r]") + footerStyle.Render(" reload  ") +
		footerKeyStyle.Render("[q]") + footerStyle.Render(" quit"))
	return b.String()
}

func (m Model) renderListRow(conv conversation.Conversation) string {
	badge := dimStyle.Render("[ ]")
	score := ""
	if r, ok := m.session.Store().Get(conv.ID); ok {
		if r.PassFail == scoring.Pass {
			badge = passStyle.Render("[✓]")
		} else {
			badge = failStyle.Render("[✗]")
		}
		score = fmt.Sprintf("  %.2f %s", r.OverallScore, r.PassFail)
	}
	seed := conv.SeedPhrase
	if len(seed) > 40 {
		seed = seed[:37] + "..."
	}
	return fmt.Sprintf("%s %s  %s%s",
		badge,
		valueStyle.Render(conv.ID),
		dimStyle.Render(fmt.Sprintf("%d turns, %d targets  %s", len(conv.Turns), len(conv.Targets), seed)),
		score)
}

func (m Model) renderRate() string {
	var b strings.Builder
	conv := m.form.conv

	b.WriteString(headerStyle.Render(fmt.Sprintf(" %s ", conv.ID)))
	if m.session.Store().IsDone(conv.ID) {
		b.WriteString("  " + warnStyle.Render("already rated — submitting replaces it"))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Scenario: ") + valueStyle.Render(conv.SeedPhrase) + "\n")

	b.WriteString("\n" + sectionStyle.Render("┃ Transcript") + "\n")
	b.WriteString(m.transcript.View() + "\n")

	b.WriteString("\n" + sectionStyle.Render("┃ Dimensions (0-2)") + "\n")
	for i, def := range m.form.defs {
		b.WriteString(m.renderDimensionRow(i, def) + "\n")
	}

	if len(m.form.targets) > 0 {
		b.WriteString("\n" + sectionStyle.Render("┃ Targets completed") + "\n")
		for i, desc := range m.form.targets {
			b.WriteString(m.renderTargetRow(i, desc) + "\n")
		}
	}

	if m.form.showRubric {
		if def, ok := m.form.focusedDef(); ok {
			b.WriteString("\n" + renderRubric(def, m.transcript.Width))
		}
	}

	b.WriteString("\n" + m.renderPreview())

	if m.status != "" {
		b.WriteString("\n" + dimStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" +
		footerKeyStyle.Render("[0-2]") + footerStyle.Render(" score  ") +
		footerKeyStyle.Render("[space]") + footerStyle.Render(" toggle target  ") +
		footerKeyStyle.Render("[tab/j/k]") + footerStyle.Render(" field  ") +
		footerKeyStyle.Render("[↑↓]") + footerStyle.Render(" scroll  ") +
		footerKeyStyle.Render("[?]") + footerStyle.Render(" rubric  ") +
		footerKeyStyle.Render("[enter]") + footerStyle.Render(" submit  ") +
		footerKeyStyle.Render("[esc]") + footerStyle.Render(" back"))
	return b.String()
}

func (m Model) renderDimensionRow(i int, def scoring.Definition) string {
	marks := make([]string, 0, 3)
	current, scored := m.form.scores[def.Dimension]
	for v := scoring.MinDimensionScore; v <= scoring.MaxDimensionScore; v++ {
		mark := fmt.Sprintf("( ) %d", v)
		if scored && v == current {
			mark = fmt.Sprintf("(●) %d", v)
		}
		marks = append(marks, mark)
	}

	row := fmt.Sprintf("%-38s %s", def.Name, strings.Join(marks, "  "))
	if m.form.focus == i {
		return selectedStyle.Render("▸ " + row)
	}
	if !scored {
		return "  " + labelStyle.Render(row)
	}
	return "  " + dimStyle.Render(row)
}

func (m Model) renderTargetRow(i int, desc string) string {
	mark := "[ ]"
	if m.form.statuses[desc] == 1 {
		mark = "[✓]"
	}
	row := fmt.Sprintf("%s %s", mark, desc)
	if m.form.focus == len(m.form.defs)+i {
		return selectedStyle.Render("▸ " + row)
	}
	return "  " + labelStyle.Render(row)
}

// renderPreview shows the score the current form would produce, colored by
// how close it sits to the pass threshold.
func (m Model) renderPreview() string {
	if !m.form.complete() {
		remaining := 0
		for _, def := range m.form.defs {
			if _, ok := m.form.scores[def.Dimension]; !ok {
				remaining++
			}
		}
		return dimStyle.Render(fmt.Sprintf("Score preview: %d dimension(s) left to score", remaining))
	}

	score, outcome, band := m.session.Preview(m.form.scores, m.form.statuses)
	style := failStyle
	switch band {
	case scoring.BandHigh:
		style = passStyle
	case scoring.BandMedium:
		style = warnStyle
	}
	return labelStyle.Render("Score preview: ") +
		style.Render(fmt.Sprintf("%.2f %s (%s)", score, outcome, band)) +
		dimStyle.Render(fmt.Sprintf("  threshold %.2f", m.session.Threshold()))
}

func renderRubric(def scoring.Definition, width int) string {
	wrap := lipgloss.NewStyle().Width(max(20, width))

	var b strings.Builder
	b.WriteString(sectionStyle.Render("┃ "+def.Name) + "\n")
	b.WriteString(wrap.Render(labelStyle.Render("Key question: ")+def.KeyQuestion) + "\n")
	for _, item := range def.WhatToCheck {
		b.WriteString(wrap.Render(dimStyle.Render("  • "+item)) + "\n")
	}
	for i, level := range def.Rubric {
		b.WriteString(wrap.Render(
			valueStyle.Render(fmt.Sprintf("  %d %s: ", i, level.Label))+
				dimStyle.Render(level.Description)) + "\n")
	}
	if len(def.FailureTypes) > 0 {
		b.WriteString(labelStyle.Render("Failure types:") + "\n")
		for _, ft := range def.FailureTypes {
			b.WriteString(wrap.Render(dimStyle.Render("  • "+ft.Name+": "+ft.Description)) + "\n")
		}
	}
	return b.String()
}

// renderTranscript lays out the turn sequence for the viewport. Turns are
// shown in order with the speaker labels the raters know from the export.
func renderTranscript(conv conversation.Conversation, width int) string {
	wrap := lipgloss.NewStyle().Width(max(20, width))

	var b strings.Builder
	for _, turn := range conv.Turns {
		b.WriteString(dimStyle.Render(fmt.Sprintf("— turn %d —", turn.TurnNumber)) + "\n")
		b.WriteString(wrap.Render(userStyle.Render("User: ")+turn.UserUtterance) + "\n")
		b.WriteString(wrap.Render(assistantStyle.Render("Assistant: ")+turn.AssistantResponse) + "\n\n")
	}
	if len(conv.Targets) > 0 {
		descs := make([]string, 0, len(conv.Targets))
		for desc := range conv.Targets {
			descs = append(descs, desc)
		}
		sort.Strings(descs)
		b.WriteString(dimStyle.Render("— targets —") + "\n")
		for _, desc := range descs {
			b.WriteString(wrap.Render(dimStyle.Render(
				fmt.Sprintf("  %s (introduced turn %d)", desc, conv.Targets[desc].IntroducedTurn))) + "\n")
		}
	}
	return b.String()
}
