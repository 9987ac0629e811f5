package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fbkclanna/poetry-export-hook/internal/export"
	"github.com/fbkclanna/poetry-export-hook/internal/project"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// --- inputModel: text input with a default value and validation ---

type inputModel struct {
	textInput textinput.Model
	title     string
	hint      string
	validate  func(string) error
	errMsg    string
	done      bool
	aborted   bool
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			if m.validate != nil {
				if err := m.validate(m.value()); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}
	m.errMsg = ""
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// value returns the typed text, falling back to the placeholder as default.
func (m inputModel) value() string {
	if v := strings.TrimSpace(m.textInput.Value()); v != "" {
		return v
	}
	return m.textInput.Placeholder
}

func (m inputModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	if m.hint != "" {
		b.WriteString(hintStyle.Render(m.hint) + "\n")
	}
	b.WriteString(m.textInput.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}

// --- confirmModel: yes/no toggle starting at a default ---

type confirmModel struct {
	title   string
	value   bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.value = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.value = false
			m.done = true
			return m, tea.Quit
		case "left", "right", "tab", "h", "l":
			m.value = !m.value
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	yes := " Yes "
	no := " No "
	if m.value {
		yes = selectedStyle.Render(" Yes ")
	} else {
		no = selectedStyle.Render(" No ")
	}
	return fmt.Sprintf("%s %s / %s\n", titleStyle.Render(m.title), yes, no)
}

// --- prompt helpers ---

func promptInput(title, hint, def string, validate func(string) error) (string, error) {
	ti := textinput.New()
	ti.Placeholder = def
	ti.Focus()

	m := inputModel{
		textInput: ti,
		title:     title,
		hint:      hint,
		validate:  validate,
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	rm := result.(inputModel)
	if rm.aborted {
		return "", fmt.Errorf("user aborted")
	}
	return rm.value(), nil
}

func promptConfirm(title string, def bool) (bool, error) {
	m := confirmModel{
		title: title,
		value: def,
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, err
	}
	rm := result.(confirmModel)
	if rm.aborted {
		return false, fmt.Errorf("user aborted")
	}
	return rm.value, nil
}

// interactiveHookOptions asks for each export setting, starting from opts.
// declared lists the extras pyproject.toml defines; when non-empty, requested
// extras must be among them.
func interactiveHookOptions(opts hookOptions, declared []string) (hookOptions, error) {
	var err error

	if opts.Dev, err = promptConfirm("Include development dependencies?", opts.Dev); err != nil {
		return opts, err
	}

	def := opts.Output
	if def == "" {
		def = project.DefaultOutput(opts.Dev)
	}
	output, err := promptInput("Output file", "", def, validateOutputPath)
	if err != nil {
		return opts, err
	}
	// Leave the default implicit so the hook follows --dev.
	if output == project.DefaultOutput(opts.Dev) {
		output = ""
	}
	opts.Output = output

	hint := "comma separated, empty for none"
	if len(declared) > 0 {
		hint = "declared: " + strings.Join(declared, ", ")
	}
	extras, err := promptInput("Extras to include", hint, strings.Join(opts.Extras, ","), extrasValidator(declared))
	if err != nil {
		return opts, err
	}
	opts.Extras = parseExtras(extras)

	if opts.WithoutHashes, err = promptConfirm("Exclude hashes?", opts.WithoutHashes); err != nil {
		return opts, err
	}
	if opts.WithCredentials, err = promptConfirm("Include credentials for extra indices?", opts.WithCredentials); err != nil {
		return opts, err
	}
	return opts, nil
}

// parseExtras splits a comma or space separated list of extras.
func parseExtras(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	return export.NormalizeExtras(fields)
}

// extrasValidator rejects extras pyproject.toml does not declare. With no
// declared extras every name is accepted.
func extrasValidator(declared []string) func(string) error {
	known := make(map[string]bool, len(declared))
	for _, d := range declared {
		known[d] = true
	}
	return func(s string) error {
		if len(known) == 0 {
			return nil
		}
		for _, e := range parseExtras(s) {
			if !known[e] {
				return fmt.Errorf("extra %q is not declared in %s", e, project.PyProjectFile)
			}
		}
		return nil
	}
}
