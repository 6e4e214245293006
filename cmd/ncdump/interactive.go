package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apexys/netcdf"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E5A88")).
			Padding(0, 1)

	groupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	varStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	attStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C0C0C0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E5A88"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// treeNode is one selectable line of the browser.
type treeNode struct {
	label  string
	detail string
	depth  int
	style  lipgloss.Style
}

type browseModel struct {
	err      error
	file     *netcdf.File
	filename string
	nodes    []treeNode
	selected int
	view     viewport.Model
	ready    bool
}

type openedMsg struct {
	err  error
	file *netcdf.File
}

func newBrowseModel(filename string) *browseModel {
	return &browseModel{filename: filename}
}

func (m *browseModel) Init() tea.Cmd {
	return m.openFile
}

func (m *browseModel) openFile() tea.Msg {
	f, err := netcdf.Open(m.filename)
	if err != nil {
		return openedMsg{err: err}
	}
	return openedMsg{file: f}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.file != nil {
				m.file.Close()
			}
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.nodes)-1 {
				m.selected++
			}
		case "g":
			m.selected = 0
		case "G":
			m.selected = len(m.nodes) - 1
		}
		m.syncViewport()

	case tea.WindowSizeMsg:
		if !m.ready {
			m.view = viewport.New(msg.Width, msg.Height-3)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = msg.Height - 3
		}
		m.syncViewport()

	case openedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.file = msg.file
		m.nodes = flattenGroup(m.file.Root(), 0)
		m.syncViewport()
	}

	return m, nil
}

// flattenGroup turns the group tree into the browser's line list.
func flattenGroup(g *netcdf.Group, depth int) []treeNode {
	var nodes []treeNode
	nodes = append(nodes, treeNode{
		label: g.Path(),
		depth: depth,
		style: groupStyle,
	})
	for _, d := range g.Dimensions() {
		detail := fmt.Sprintf("(%d)", d.Len())
		if d.IsUnlimited() {
			detail = fmt.Sprintf("Unlimited (%d)", d.Len())
		}
		nodes = append(nodes, treeNode{
			label:  "dim " + d.Name(),
			detail: detail,
			depth:  depth + 1,
			style:  dimStyle,
		})
	}
	for _, v := range g.Variables() {
		var dims []string
		for _, d := range v.Dimensions() {
			dims = append(dims, d.Name())
		}
		nodes = append(nodes, treeNode{
			label:  "var " + v.Name(),
			detail: fmt.Sprintf("%s [%s]", v.Kind(), strings.Join(dims, ", ")),
			depth:  depth + 1,
			style:  varStyle,
		})
		for _, a := range v.Attributes() {
			nodes = append(nodes, treeNode{
				label:  a.Name(),
				detail: formatValue(a.Value()),
				depth:  depth + 2,
				style:  attStyle,
			})
		}
	}
	for _, a := range g.Attributes() {
		nodes = append(nodes, treeNode{
			label:  "att " + a.Name(),
			detail: formatValue(a.Value()),
			depth:  depth + 1,
			style:  attStyle,
		})
	}
	for _, sub := range g.Groups() {
		nodes = append(nodes, flattenGroup(sub, depth+1)...)
	}
	return nodes
}

func (m *browseModel) syncViewport() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for i, n := range m.nodes {
		line := strings.Repeat("  ", n.depth) + n.label
		if n.detail != "" {
			line += " : " + n.detail
		}
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + n.style.Render(line))
		}
		b.WriteString("\n")
	}
	m.view.SetContent(b.String())

	// Keep the cursor inside the window.
	if m.selected < m.view.YOffset {
		m.view.SetYOffset(m.selected)
	} else if m.selected >= m.view.YOffset+m.view.Height {
		m.view.SetYOffset(m.selected - m.view.Height + 1)
	}
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.file == nil || !m.ready {
		return "Opening container..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ncdump"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n")
	b.WriteString(m.view.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • g/G top/bottom • q quit"))
	return b.String()
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newBrowseModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
