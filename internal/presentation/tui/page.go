package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/liftnav/pkg/domain"
)

// Title is the human heading for a destination.
func Title(d domain.Destination) string {
	switch v := d.(type) {
	case domain.Dashboard:
		return "Dashboard"
	case domain.LiftDetails:
		return "Lift " + v.LiftID
	case domain.EditLift:
		if id, ok := v.LiftID.Get(); ok {
			return "Edit lift " + id
		}
		return "New lift"
	case domain.VariationDetails:
		return "Variation " + v.VariationID
	case domain.EditVariation:
		return "Edit variation " + v.VariationID
	case domain.EditSet:
		if id, ok := v.SetID.Get(); ok {
			return "Edit set " + id
		}
		return "New set"
	case domain.Settings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Describe renders the current page of s as markdown.
func Describe(s domain.State) string {
	var b strings.Builder
	page := s.Current()

	fmt.Fprintf(&b, "# %s\n\n", Title(page))
	if e, ok := page.(domain.EditSet); ok {
		fmt.Fprintf(&b, "- set: %s\n- lift: %s\n- variation: %s\n\n", field(e.SetID), field(e.LiftID), field(e.VariationID))
	}
	fmt.Fprintf(&b, "Page %d of %d.\n", s.CurrentIndex+1, s.Len())
	return b.String()
}

// TabBar renders every open page on one line with the current one highlighted.
func TabBar(s domain.State, p termenv.Profile) string {
	parts := make([]string, len(s.Stack))
	for i, d := range s.Stack {
		label := d.String()
		if i == s.CurrentIndex {
			parts[i] = p.String("[" + label + "]").Foreground(p.Color("#34d399")).Bold().String()
			continue
		}
		parts[i] = " " + label + " "
	}
	return strings.Join(parts, "|")
}

func field(o domain.OptionalID) string {
	if id, ok := o.Get(); ok {
		return id
	}
	return "none"
}
