package dialog

import "github.com/gdamore/tcell/v2"

// MenuItem is one leaf or category in the navigable menu tree.
type MenuItem struct {
	Label    string
	Action   string // empty for a category node
	Children []MenuItem
}

// Menu is the navigable tree of categories and actions (F2 / spec.md §4.9).
type Menu struct {
	Root      []MenuItem
	path      []int // indices into nested Children, from Root down to the current level
	cursor    int
	Selected  string // set once HandleKey reports submitted with a real action
	Dismissed bool
}

// NewMenu builds a Menu dialog over the given top-level items.
func NewMenu(root []MenuItem) *Menu { return &Menu{Root: root} }

// currentItems returns the item slice at the menu's current depth.
func (m *Menu) currentItems() []MenuItem {
	items := m.Root
	for _, idx := range m.path {
		items = items[idx].Children
	}
	return items
}

func (m *Menu) Kind() Kind { return KindMenu }

func (m *Menu) HandleKey(ev *tcell.EventKey) bool {
	items := m.currentItems()
	switch ev.Key() {
	case tcell.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return false
	case tcell.KeyDown:
		if m.cursor < len(items)-1 {
			m.cursor++
		}
		return false
	case tcell.KeyEsc:
		if len(m.path) == 0 {
			m.Dismissed = true
			return true
		}
		m.path = m.path[:len(m.path)-1]
		m.cursor = 0
		return false
	case tcell.KeyEnter, tcell.KeyRight:
		if m.cursor >= len(items) {
			return false
		}
		item := items[m.cursor]
		if len(item.Children) > 0 {
			m.path = append(m.path, m.cursor)
			m.cursor = 0
			return false
		}
		m.Selected = item.Action
		return true
	case tcell.KeyLeft:
		if len(m.path) > 0 {
			m.path = m.path[:len(m.path)-1]
			m.cursor = 0
		}
		return false
	}
	return false
}

// VisibleItems returns the items at the current depth and the cursor
// position within them, for rendering.
func (m *Menu) VisibleItems() ([]MenuItem, int) { return m.currentItems(), m.cursor }
