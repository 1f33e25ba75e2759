package selection

// maxSyncPasses bounds how often one dispatch may rewrite the URL.
const maxSyncPasses = 4

// Machine holds the selection and the current URL and keeps the two in sync.
// A Machine is not safe for concurrent use.
type Machine struct {
	state     State
	url       string
	replace   func(url string)
	replacing bool
}

// NewMachine opens rawURL. replace is called whenever the URL must be rewritten
// to its canonical form; it may be nil.
func NewMachine(rawURL string, replace func(url string)) *Machine {
	m := &Machine{state: Initial(), replace: replace}
	m.Dispatch(Navigate{URL: rawURL})
	return m
}

func (m *Machine) State() State { return m.state }

func (m *Machine) URL() string { return m.url }

// Dispatch reduces a and then replaces the URL when its canonical form
// differs. A Navigate fired from inside the replace callback is dropped.
func (m *Machine) Dispatch(a Action) State {
	nav, isNav := a.(Navigate)
	if isNav {
		if m.replacing {
			return m.state
		}
		if loc, err := ParseLocation(nav.URL); err == nil {
			m.url = loc.Current
		}
	}

	m.state = Reduce(m.state, a)
	if m.replacing {
		return m.state
	}
	m.sync()
	return m.state
}

func (m *Machine) sync() {
	m.replacing = true
	defer func() { m.replacing = false }()

	for range maxSyncPasses {
		next, ok := CanonicalURL(m.state)
		if !ok || next == m.url {
			return
		}
		m.url = next
		if m.replace != nil {
			m.replace(next)
		}
	}
}
