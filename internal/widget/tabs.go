package widget

import "strings"

// Tab is one panel of the inclusions widget.
type Tab struct {
	Key   string
	Label string
	Items []string
}

// Tabs selects one panel; an unknown key falls back to the first tab.
type Tabs struct {
	Tabs   []Tab
	Active string
}

func NewTabs(tabs []Tab, active string) Tabs {
	t := Tabs{Tabs: tabs}
	active = strings.ToLower(strings.TrimSpace(active))
	for _, tab := range tabs {
		if tab.Key == active {
			t.Active = active
			return t
		}
	}
	if len(tabs) > 0 {
		t.Active = tabs[0].Key
	}
	return t
}

// Current returns the active panel.
func (t Tabs) Current() Tab {
	for _, tab := range t.Tabs {
		if tab.Key == t.Active {
			return tab
		}
	}
	return Tab{}
}

// PackageTabs builds the inclusions/exclusions/policies widget.
func PackageTabs(inclusions, exclusions, policies []string, active string) Tabs {
	return NewTabs([]Tab{
		{Key: "inclusions", Label: "Inclusions", Items: inclusions},
		{Key: "exclusions", Label: "Exclusions", Items: exclusions},
		{Key: "policies", Label: "Policies", Items: policies},
	}, active)
}
