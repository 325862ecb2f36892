package create

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/format"
	"github.com/propdesk/propdesk/internal/tui/render"
	"github.com/propdesk/propdesk/internal/wizard"
)

var stepLabels = []string{"Category", "Purpose", "NOC", "Details"}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Cyan))
	choiceStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Blue))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Gray))
	attachedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Green))
)

// View renders the model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n")
	step, inLinear := m.w.Step()
	if !inLinear {
		step = wizard.StepNocUpload
	}
	b.WriteString(render.Steps(stepLabels, int(step)))
	b.WriteString("\n\n")

	if !inLinear {
		b.WriteString(m.viewNocSubflow())
	} else {
		switch step {
		case wizard.StepCategory:
			b.WriteString(m.viewChoices("What kind of property?", categoryLabels()))
		case wizard.StepPurpose:
			b.WriteString(m.viewChoices("Listed for?", purposeLabels()))
		case wizard.StepNocUpload:
			b.WriteString(m.viewUpload())
		default:
			b.WriteString(m.viewForm())
		}
	}

	b.WriteString("\n")
	if m.busy != "" {
		b.WriteString(m.spinner.View() + " " + m.busy + "...")
	} else {
		b.WriteString(render.StatusLine(m.status, m.width))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help()))
	return b.String()
}

func (m *Model) title() string {
	switch m.w.Mode() {
	case wizard.ModeResumeDraft:
		return "Resume draft " + m.w.DraftID()
	case wizard.ModeEditExisting:
		return "Edit property " + m.w.PropertyID()
	default:
		return "New property"
	}
}

func categoryLabels() []string {
	out := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		out[i] = string(c)
	}
	return out
}

func purposeLabels() []string {
	out := make([]string, len(domain.Purposes))
	for i, p := range domain.Purposes {
		out[i] = string(p)
	}
	return out
}

func (m *Model) viewChoices(prompt string, labels []string) string {
	var b strings.Builder
	b.WriteString(prompt + "\n")
	for i, label := range labels {
		if i == m.choice {
			b.WriteString(choiceStyle.Render("› " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewUpload() string {
	var b strings.Builder
	b.WriteString("Attach the No Objection Certificate\n")
	if noc := m.w.NOC(); noc != nil {
		label := "Attached: " + noc.Name
		if noc.Placeholder {
			label += " (placeholder)"
		}
		b.WriteString(attachedStyle.Render(label) + "\n")
	}
	b.WriteString(m.path.View() + "\n")
	return b.String()
}

func (m *Model) viewNocSubflow() string {
	var b strings.Builder
	b.WriteString("Generate a NOC\n")
	for i := range m.noc {
		b.WriteString(m.noc[i].View() + "\n")
	}
	return b.String()
}

func (m *Model) viewForm() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s for %s\n", m.w.Category(), strings.ToLower(string(m.w.Purpose())))
	if noc := m.w.NOC(); noc != nil {
		b.WriteString(attachedStyle.Render("NOC: "+noc.Name) + "\n")
	}
	for i, f := range wizard.Fields {
		line := m.form[i].View()
		if f.Required {
			line += mutedStyle.Render(" *")
		}
		if f.Key == "price" {
			if v, ok, err := f.Parse(m.form[i].Value()); err == nil && ok {
				line += mutedStyle.Render("  " + format.Price(v.(float64)))
			}
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) help() string {
	if _, ok := m.w.Stage().(wizard.NocSubflow); ok {
		return "Tab: next field  |  Enter: generate  |  ESC: back"
	}
	step, _ := m.w.Step()
	switch step {
	case wizard.StepCategory, wizard.StepPurpose:
		return "j/k: choose  |  Enter: next  |  ESC: back"
	case wizard.StepNocUpload:
		hint := "Enter: attach file and continue  |  ctrl+n: generate NOC  |  ESC: back"
		if !m.w.CanAdvance() && strings.TrimSpace(m.path.Value()) == "" {
			hint = "A NOC is required.  " + hint
		}
		return hint
	default:
		hint := "Tab: next field  |  Enter on last field: submit  |  ESC: back"
		if m.drafts != nil && m.w.Mode() != wizard.ModeEditExisting {
			hint += "  |  ctrl+s: save draft"
		}
		return hint
	}
}
