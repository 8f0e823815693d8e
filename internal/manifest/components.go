package manifest

import "encoding/json"

// Flag is the parsed state of a boolean manifest attribute. Values other
// than the literals "true" and "false", such as resource references, are
// FlagOther.
type Flag int

const (
	FlagUnset Flag = iota
	FlagTrue
	FlagFalse
	FlagOther
)

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	case FlagOther:
		return "other"
	default:
		return "unset"
	}
}

func flagAttr(n *Node, local string) Flag {
	v, ok := n.Attr(local)
	switch {
	case !ok:
		return FlagUnset
	case v == "true":
		return FlagTrue
	case v == "false":
		return FlagFalse
	default:
		return FlagOther
	}
}

// Exposure says whether, and why, other apps can reach a component.
type Exposure int

const (
	NotExposed Exposure = iota
	ExposedExplicit
	ExposedViaFilter
)

func (e Exposure) String() string {
	switch e {
	case ExposedExplicit:
		return "explicit"
	case ExposedViaFilter:
		return "via-intent-filter"
	default:
		return "not-exposed"
	}
}

// MarshalText encodes the exposure by name.
func (e Exposure) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// ComponentKind is the manifest tag of an application entry point.
type ComponentKind string

const (
	KindActivity ComponentKind = "activity"
	KindService  ComponentKind = "service"
	KindReceiver ComponentKind = "receiver"
	KindProvider ComponentKind = "provider"
)

// ComponentKinds lists the kinds in reporting order.
var ComponentKinds = []ComponentKind{KindActivity, KindService, KindReceiver, KindProvider}

// Title is the human name used in finding descriptions.
func (k ComponentKind) Title() string {
	switch k {
	case KindActivity:
		return "Activity"
	case KindService:
		return "Service"
	case KindReceiver:
		return "Broadcast Receiver"
	case KindProvider:
		return "Content Provider"
	}
	return string(k)
}

// IntentFilter is one <intent-filter> with the data schemes and hosts it
// declares.
type IntentFilter struct {
	HasData bool     `json:"has_data"`
	Schemes []string `json:"schemes,omitempty"`
	Hosts   []string `json:"hosts,omitempty"`
}

// Component is a declared activity, service, receiver or provider.
type Component struct {
	Kind       ComponentKind  `json:"kind"`
	Name       string         `json:"name"`
	Exported   Flag           `json:"-"`
	Permission string         `json:"permission,omitempty"`
	Filters    []IntentFilter `json:"intent_filters,omitempty"`
}

// HasIntentFilter reports whether the component declares any intent filter.
func (c Component) HasIntentFilter() bool { return len(c.Filters) > 0 }

// Protected reports whether the component requires a permission.
func (c Component) Protected() bool { return c.Permission != "" }

// Exposure derives whether the component is reachable by other apps. An
// explicit exported="true" always exposes it; an intent filter exposes it
// unless exported="false".
func (c Component) Exposure() Exposure {
	switch {
	case c.Exported == FlagTrue:
		return ExposedExplicit
	case c.HasIntentFilter() && c.Exported != FlagFalse:
		return ExposedViaFilter
	default:
		return NotExposed
	}
}

// Exposed reports whether Exposure is anything but NotExposed.
func (c Component) Exposed() bool { return c.Exposure() != NotExposed }

// MarshalJSON adds the derived exposure next to the declared attributes.
func (c Component) MarshalJSON() ([]byte, error) {
	type plain Component
	return json.Marshal(struct {
		plain
		Exported  string   `json:"exported"`
		Exposure  Exposure `json:"exposure"`
		Protected bool     `json:"protected"`
	}{plain(c), c.Exported.String(), c.Exposure(), c.Protected()})
}

// UnmarshalJSON restores the declared exported attribute; the derived
// fields are ignored.
func (c *Component) UnmarshalJSON(b []byte) error {
	type plain Component
	aux := struct {
		*plain
		Exported string `json:"exported"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	switch aux.Exported {
	case "true":
		c.Exported = FlagTrue
	case "false":
		c.Exported = FlagFalse
	case "other":
		c.Exported = FlagOther
	default:
		c.Exported = FlagUnset
	}
	return nil
}

func components(doc *Node) []Component {
	var out []Component
	doc.Walk(func(n *Node) {
		kind := ComponentKind(n.Name)
		switch kind {
		case KindActivity, KindService, KindReceiver, KindProvider:
		default:
			return
		}
		c := Component{Kind: kind, Exported: flagAttr(n, "exported")}
		c.Name, _ = n.Attr("name")
		c.Permission, _ = n.Attr("permission")
		for _, f := range n.Find("intent-filter") {
			c.Filters = append(c.Filters, intentFilter(f))
		}
		out = append(out, c)
	})
	return out
}

func intentFilter(f *Node) IntentFilter {
	var out IntentFilter
	for _, d := range f.Find("data") {
		out.HasData = true
		if s, _ := d.Attr("scheme"); s != "" {
			out.Schemes = append(out.Schemes, s)
		}
		if h, _ := d.Attr("host"); h != "" {
			out.Hosts = append(out.Hosts, h)
		}
	}
	return out
}
