package option

// Interner keeps one copy of each source name for the lifetime of the
// process, so options can keep referring to sources after the reading
// context is gone.
type Interner struct {
	m map[string]string
}

func NewInterner() *Interner {
	return &Interner{m: make(map[string]string)}
}

// Intern returns the canonical copy of s.
func (in *Interner) Intern(s string) string {
	if v, ok := in.m[s]; ok {
		return v
	}
	in.m[s] = s
	return s
}

// Len returns the number of distinct strings held.
func (in *Interner) Len() int { return len(in.m) }
