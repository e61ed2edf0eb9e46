// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/covctl/covctl/internal/fetch"
)

// SelectCoverageFiles runs a small TUI listing the candidate coverage files
// and returns the two the user picked, oldest selection first. Returns nil
// when the picker is dismissed.
func SelectCoverageFiles(items []fetch.FileInfo) []fetch.FileInfo {
	p := tea.NewProgram(pickModel{items: items})
	m, _ := p.Run()
	return m.(pickModel).selected
}

type pickModel struct {
	items    []fetch.FileInfo
	cursor   int
	selected []fetch.FileInfo
}

func (m pickModel) Init() tea.Cmd { return nil }

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "w":
			return m, tea.WindowSize()
		case "q", "esc":
			m.selected = nil
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ":
			if containsFile(m.selected, m.items[m.cursor]) {
				// Remove item from selected
				for i, v := range m.selected {
					if v.Path == m.items[m.cursor].Path {
						m.selected = append(m.selected[:i], m.selected[i+1:]...)
						break
					}
				}
			} else if len(m.selected) < 2 {
				m.selected = append(m.selected, m.items[m.cursor])
			}
		case "enter":
			if len(m.selected) == 2 {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickModel) View() string {
	s := "Select two coverage files (old first, then new):\n\n"
	for i, f := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if containsFile(m.selected, f) {
			mark = "x"
		}

		s += fmt.Sprintf("%s [%s] %s %8d %s\n", cursor, mark, f.ModTime.Format("2006-01-02T15:04:05Z"), f.Size, f.Path)
	}
	return s + "\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n"
}

func containsFile(files []fetch.FileInfo, file fetch.FileInfo) bool {
	for _, f := range files {
		if f.Path == file.Path {
			return true
		}
	}
	return false
}
