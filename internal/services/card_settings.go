package services

import (
	"errors"

	"scrum-cards/internal/models"
)

// ErrSettingsNotReady is returned when card settings are used before they were loaded or defaulted
var ErrSettingsNotReady = errors.New("card settings are not loaded yet")

type observer struct {
	id int
	fn func(models.CardSettings)
}

// CardSettingsModel holds the in-memory card appearance and tells
// subscribers about every change. It is only touched from the event loop.
type CardSettingsModel struct {
	settings  models.CardSettings
	ready     bool
	observers []observer
	nextID    int
}

// NewCardSettingsModel returns an empty model that views can subscribe to
// before the saved settings arrive
func NewCardSettingsModel() *CardSettingsModel {
	return &CardSettingsModel{}
}

// Ready reports whether every card field has a defined style
func (m *CardSettingsModel) Ready() bool {
	return m.ready
}

// Settings returns a copy of the current settings
func (m *CardSettingsModel) Settings() (models.CardSettings, error) {
	if !m.ready {
		return models.CardSettings{}, ErrSettingsNotReady
	}
	return m.settings, nil
}

// ApplyDefaults replaces the settings with the default appearance
func (m *CardSettingsModel) ApplyDefaults() {
	m.Replace(models.DefaultCardSettings())
}

// Replace swaps in settings wholesale
func (m *CardSettingsModel) Replace(settings models.CardSettings) {
	m.settings = settings
	m.ready = true
	m.notify()
}

// Update edits the settings in place through fn
func (m *CardSettingsModel) Update(fn func(*models.CardSettings)) error {
	if !m.ready {
		return ErrSettingsNotReady
	}
	fn(&m.settings)
	m.notify()
	return nil
}

// Subscribe registers fn for change notifications; call the returned func to stop
func (m *CardSettingsModel) Subscribe(fn func(models.CardSettings)) (unsubscribe func()) {
	id := m.nextID
	m.nextID++
	m.observers = append(m.observers, observer{id: id, fn: fn})

	return func() {
		for i, o := range m.observers {
			if o.id == id {
				m.observers = append(m.observers[:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

func (m *CardSettingsModel) notify() {
	for _, o := range append([]observer(nil), m.observers...) {
		o.fn(m.settings)
	}
}
