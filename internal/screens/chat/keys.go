package chat

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/parley/internal/ui/layout"
)

type keyMap struct {
	Move   key.Binding
	Pick   key.Binding
	Replay key.Binding
	Back   key.Binding
}

var keys = keyMap{
	Move: key.NewBinding(
		key.WithKeys("up", "down", "k", "j"),
		key.WithHelp("↑/↓", "Move"),
	),
	Pick: key.NewBinding(
		key.WithKeys("enter", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("Enter/1-9", "Reply"),
	),
	Replay: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "Replay"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "Back"),
	),
}

func hints(bindings ...key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return out
}
