package main

import tea "github.com/charmbracelet/bubbletea"

func isNavigationKey(key string) bool {
	switch key {
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		return true
	}
	return false
}

func (m model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	if m.zPanMode {
		return m.handlePan(key, speed), nil
	}
	return m.handleCursorMove(key, speed), nil
}

func (m model) handlePan(key string, speed int) model {
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX -= speed
	case "l", "right", "L", "shift+right":
		m.panX += speed
	case "k", "up", "K", "shift+up":
		m.panY -= speed
	case "j", "down", "J", "shift+down":
		m.panY += speed
	}
	return m
}

func (m model) handleCursorMove(key string, speed int) model {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
	return m
}

func (m model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// ensureCursorInBounds keeps the cursor on the canvas rows above the status line.
func (m *model) ensureCursorInBounds() {
	maxX, maxY := m.width-1, m.canvasHeight()-1
	m.cursorX = max(0, min(m.cursorX, maxX))
	m.cursorY = max(0, min(m.cursorY, maxY))
}
