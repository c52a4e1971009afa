package objmgr

import "fmt"

// Settings is the inventory of client-created Settings. It owns every
// Setting it holds and tracks which are referenced by an active
// Connection.
type Settings struct {
	basePath string
	nextSeq  int
	entries  map[string]*Setting
	order    []string
	active   []string
}

// NewSettings constructs an empty Settings inventory publishing entities
// under basePath (e.g. "/org/blackox/Loom/Setting").
func NewSettings(basePath string) *Settings {
	return &Settings{
		basePath: basePath,
		entries:  make(map[string]*Setting),
	}
}

// Paths returns every published object path, in insertion order.
func (s *Settings) Paths() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// ActivePaths returns the object paths currently referenced by an
// active Connection.
func (s *Settings) ActivePaths() []string {
	out := make([]string, len(s.active))
	copy(out, s.active)
	return out
}

// ByPath looks up a Setting by its published object path.
func (s *Settings) ByPath(path string) (*Setting, bool) {
	st, ok := s.entries[path]
	return st, ok
}

// isActive reports whether path is in the active-subset list.
func (s *Settings) isActive(path string) bool {
	for _, p := range s.active {
		if p == path {
			return true
		}
	}
	return false
}

// Create validates configuration, constructs a Setting, publishes it
// and returns its object path.
func (s *Settings) Create(configuration map[string]any) (string, error) {
	if err := validateConfiguration(configuration); err != nil {
		return "", err
	}
	setting := newSetting(configuration)
	s.nextSeq++
	setting.objectPath = fmt.Sprintf("%s_%d", s.basePath, s.nextSeq)

	s.entries[setting.objectPath] = setting
	s.order = append(s.order, setting.objectPath)

	return setting.objectPath, nil
}

// Destroy removes the Setting at path iff it is present and not
// referenced by an active Connection. Active-membership is checked
// before removal -- the original daemon removes first and checks
// second, which can leave an active Setting unpublished; this
// implementation does not replicate that ordering.
func (s *Settings) Destroy(path string) error {
	if _, ok := s.entries[path]; !ok {
		return invalidArgument("no such 'setting' object found")
	}
	if s.isActive(path) {
		return invalidArgument("'setting' object is in use")
	}

	delete(s.entries, path)
	s.order = removeString(s.order, path)
	return nil
}

// AddActive appends setting's path to the active-subset list. The
// caller (Connections) guarantees no duplicate is introduced, per
// invariant 3 (at most one active Connection per Setting).
func (s *Settings) AddActive(setting *Setting) {
	s.active = append(s.active, setting.ObjectPath())
}

// RemoveActive filters setting's path out of the active-subset list.
func (s *Settings) RemoveActive(setting *Setting) {
	s.active = removeString(s.active, setting.ObjectPath())
}

func removeString(list []string, target string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
