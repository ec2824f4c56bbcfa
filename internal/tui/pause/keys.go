package pause

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeyMap() keyMap {
	confirm := key.NewBinding(
		key.WithKeys("enter", "y"),
		key.WithHelp("enter", "log it anyway"),
	)
	// Confirm only becomes available once the countdown has finished
	confirm.SetEnabled(false)

	return keyMap{
		Confirm: confirm,
		Cancel: key.NewBinding(
			key.WithKeys("esc", "q", "n", "ctrl+c"),
			key.WithHelp("esc", "walk away"),
		),
	}
}
