package domain

import "fmt"

// Kind names a destination variant. The values double as wire identifiers.
type Kind string

const (
	KindDashboard        Kind = "dashboard"
	KindLiftDetails      Kind = "lift_details"
	KindEditLift         Kind = "edit_lift"
	KindVariationDetails Kind = "variation_details"
	KindEditVariation    Kind = "edit_variation"
	KindEditSet          Kind = "edit_set"
	KindSettings         Kind = "settings"
	KindUnknown          Kind = "unknown" // Sentinel for previews and test doubles
)

// Kinds lists every destination kind in declaration order.
var Kinds = []Kind{
	KindDashboard,
	KindLiftDetails,
	KindEditLift,
	KindVariationDetails,
	KindEditVariation,
	KindEditSet,
	KindSettings,
	KindUnknown,
}

// Destination describes one reachable screen together with the identifiers it needs.
//
// The set of implementations is closed: only the variants declared in this package
// satisfy the interface. All variants are comparable value types, so two destinations
// are equal under == exactly when they share the variant and every field. Pointers to
// variants also satisfy the interface but are not destinations: they compare by
// identity. Check rejects them and the coordinator refuses them.
type Destination interface {
	Kind() Kind
	String() string
	isDestination()
}

// OptionalID is an identifier that may be absent.
// The zero value is None.
type OptionalID struct {
	ID  string
	Set bool
}

// None is the absent identifier.
var None = OptionalID{}

// Some wraps a present identifier.
func Some(id string) OptionalID {
	return OptionalID{ID: id, Set: true}
}

// Get returns the identifier and whether it is present.
func (o OptionalID) Get() (string, bool) {
	return o.ID, o.Set
}

func (o OptionalID) String() string {
	if !o.Set {
		return "<none>"
	}
	return o.ID
}

func (o OptionalID) ptr() *string {
	if !o.Set {
		return nil
	}
	id := o.ID
	return &id
}

func optional(p *string) OptionalID {
	if p == nil {
		return None
	}
	return Some(*p)
}

// Dashboard is the landing screen.
type Dashboard struct{}

// LiftDetails shows one lift.
type LiftDetails struct {
	LiftID string
}

// EditLift creates a lift (LiftID absent) or edits an existing one.
type EditLift struct {
	LiftID OptionalID
}

// VariationDetails shows one lift variation.
type VariationDetails struct {
	VariationID string
}

// EditVariation edits a lift variation.
type EditVariation struct {
	VariationID string
}

// EditSet creates or edits a logged set. Every identifier is optional.
type EditSet struct {
	SetID       OptionalID
	LiftID      OptionalID
	VariationID OptionalID
}

// Settings is the application settings screen.
type Settings struct{}

// Unknown seeds coordinators that have not been given a real root.
type Unknown struct{}

func (Dashboard) Kind() Kind        { return KindDashboard }
func (LiftDetails) Kind() Kind      { return KindLiftDetails }
func (EditLift) Kind() Kind         { return KindEditLift }
func (VariationDetails) Kind() Kind { return KindVariationDetails }
func (EditVariation) Kind() Kind    { return KindEditVariation }
func (EditSet) Kind() Kind          { return KindEditSet }
func (Settings) Kind() Kind         { return KindSettings }
func (Unknown) Kind() Kind          { return KindUnknown }

func (Dashboard) isDestination()        {}
func (LiftDetails) isDestination()      {}
func (EditLift) isDestination()         {}
func (VariationDetails) isDestination() {}
func (EditVariation) isDestination()    {}
func (EditSet) isDestination()          {}
func (Settings) isDestination()         {}
func (Unknown) isDestination()          {}

func (Dashboard) String() string { return "Dashboard" }

func (d LiftDetails) String() string { return fmt.Sprintf("LiftDetails(%s)", d.LiftID) }

func (d EditLift) String() string { return fmt.Sprintf("EditLift(%s)", d.LiftID) }

func (d VariationDetails) String() string { return fmt.Sprintf("VariationDetails(%s)", d.VariationID) }

func (d EditVariation) String() string { return fmt.Sprintf("EditVariation(%s)", d.VariationID) }

func (d EditSet) String() string {
	return fmt.Sprintf("EditSet(set=%s, lift=%s, variation=%s)", d.SetID, d.LiftID, d.VariationID)
}

func (Settings) String() string { return "Settings" }

func (Unknown) String() string { return "Unknown" }

// Equal reports whether two destinations are the same variant with the same fields.
// Two nil destinations are equal.
func Equal(a, b Destination) bool {
	return a == b
}

// Check reports whether d can be pushed onto a navigation stack: it must be a
// non-nil value of one of the variants above.
func Check(d Destination) error {
	switch d.(type) {
	case nil:
		return ErrNilDestination
	case Dashboard, LiftDetails, EditLift, VariationDetails, EditVariation, EditSet, Settings, Unknown:
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrInvalidDestination, d)
	}
}
