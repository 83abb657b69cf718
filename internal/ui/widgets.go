// Package ui defines the widgets the translate form talks to and in-memory
// implementations of them for terminal and headless front-ends.
package ui

import "sync"

// Element identifiers of the translate form.
const (
	SourceID      = "orig"
	TranslationID = "paj"
	ThoughtsID    = "thoughs"
	ButtonID      = "translate-button"
)

type TextField interface {
	Value() string
	SetValue(v string)
}

type Button interface {
	SetDisabled(disabled bool)
	SetLabel(label string)
}

type ButtonState int

const (
	Idle ButtonState = iota
	Busy
)

func (s ButtonState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	default:
		return "unknown"
	}
}

// Field is a TextField backed by a string. OnChange, if set, is called
// with the new value after every SetValue.
type Field struct {
	mu       sync.RWMutex
	value    string
	OnChange func(v string)
}

func NewField(v string) *Field {
	return &Field{value: v}
}

func (f *Field) Value() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

func (f *Field) SetValue(v string) {
	f.mu.Lock()
	f.value = v
	hook := f.OnChange
	f.mu.Unlock()
	if hook != nil {
		hook(v)
	}
}

// PushButton is a Button that remembers its label and disabled flag.
type PushButton struct {
	mu       sync.RWMutex
	label    string
	disabled bool
	OnChange func(label string, disabled bool)
}

func NewPushButton(label string) *PushButton {
	return &PushButton{label: label}
}

func (b *PushButton) SetDisabled(disabled bool) {
	b.mu.Lock()
	b.disabled = disabled
	label, hook := b.label, b.OnChange
	b.mu.Unlock()
	if hook != nil {
		hook(label, disabled)
	}
}

func (b *PushButton) SetLabel(label string) {
	b.mu.Lock()
	b.label = label
	disabled, hook := b.disabled, b.OnChange
	b.mu.Unlock()
	if hook != nil {
		hook(label, disabled)
	}
}

func (b *PushButton) Label() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.label
}

func (b *PushButton) Disabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.disabled
}
