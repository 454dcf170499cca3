// Package tui is an interactive terminal browser over an AddressSpace's
// NodeStore, built with charmbracelet/bubbletea, bubbles/list and
// lipgloss — the teacher pack's terminal-UI stack for operator tooling.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/uacore/addrspace/pkg/addrspace"
	"github.com/uacore/addrspace/pkg/ids"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	refStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// nodeItem adapts a browsed node into a bubbles/list.Item.
type nodeItem struct {
	id    ids.NodeId
	title string
	desc  string
}

func (i nodeItem) Title() string       { return i.title }
func (i nodeItem) Description() string { return i.desc }
func (i nodeItem) FilterValue() string { return i.title }

// Model is the bubbletea model for the node browser.
type Model struct {
	as   *addrspace.AddressSpace
	list list.Model
}

// NewModel seeds the browser starting at root.
func NewModel(as *addrspace.AddressSpace, root ids.NodeId) Model {
	items := childItems(as, root)
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Address Space Browser"
	l.Styles.Title = titleStyle
	return Model{as: as, list: l}
}

func childItems(as *addrspace.AddressSpace, root ids.NodeId) []list.Item {
	n, err := as.Store().Get(root)
	if err != nil {
		return nil
	}
	items := make([]list.Item, 0, len(n.References))
	for _, ref := range n.References {
		if ref.IsInverse {
			continue
		}
		child, err := as.Store().Get(ref.Target.NodeId)
		if err != nil {
			continue
		}
		items = append(items, nodeItem{
			id:    ref.Target.NodeId,
			title: child.BrowseName.Name,
			desc:  refStyle.Render(fmt.Sprintf("%s  %s", child.NodeClass, ref.Target.NodeId.String())),
		})
	}
	return items
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			if sel, ok := m.list.SelectedItem().(nodeItem); ok {
				m.list.SetItems(childItems(m.as, sel.id))
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string { return m.list.View() }

// Run starts the browser program rooted at root and blocks until the
// user quits.
func Run(as *addrspace.AddressSpace, root ids.NodeId) error {
	_, err := tea.NewProgram(NewModel(as, root), tea.WithAltScreen()).Run()
	return err
}
