package preview

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/termquiz/internal/ui/components"
)

type keyMap struct {
	components.ChoiceKeys
	Next key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ChoiceKeys: components.DefaultChoiceKeys(),
		Next:       key.NewBinding(key.WithKeys("n", "enter", "right"), key.WithHelp("n", "next")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// answering and reviewing return the bindings shown in the footer for each
// phase of a question.
func (k keyMap) answering() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Choose, k.Quit}
}

func (k keyMap) reviewing() []key.Binding {
	return []key.Binding{k.Next, k.Quit}
}
