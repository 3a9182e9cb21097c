package sync

import "time"

const (
	EventWelcome      = "welcome"
	EventPlotsUpdated = "plots.updated"
)

// PlotsEvent tells viewers that the catalog was saved and should be refetched.
type PlotsEvent struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`               // "plots.updated"
	Revision string    `json:"revision,omitempty"` // catalog revision after the save
	PlotIDs  []string  `json:"plot_ids,omitempty"` // plots that changed
	At       time.Time `json:"at"`
}

type WelcomeEvent struct {
	Type      string `json:"type"`
	Transport string `json:"transport"`
	Clients   int    `json:"clients"`
}
