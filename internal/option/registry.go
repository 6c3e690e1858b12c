package option

// Registry holds the option tables searched by name. Lookup order is
// general, auth, extras (most recently added first), channel, then the
// protocol tables.
type Registry struct {
	general   *Table
	auth      *Table
	extras    []*Table
	channel   *Table
	protocols []*Table
}

// NewRegistry returns a registry over the given pools. Nil tables are
// treated as empty.
func NewRegistry(general, auth, channel *Table, protocols ...*Table) *Registry {
	return &Registry{
		general:   general,
		auth:      auth,
		channel:   channel,
		protocols: protocols,
	}
}

// AddOptions registers a table in the extras pool, ahead of earlier ones.
func (r *Registry) AddOptions(t *Table) {
	r.extras = append([]*Table{t}, r.extras...)
}

// Pools returns the non-nil tables in lookup order.
func (r *Registry) Pools() []*Table {
	var pools []*Table
	r.each(func(_ string, t *Table) {
		pools = append(pools, t)
	})
	return pools
}

func (r *Registry) each(fn func(title string, t *Table)) {
	if r.general != nil {
		fn("General Options", r.general)
	}
	if r.auth != nil {
		fn("Authentication Options", r.auth)
	}
	for _, t := range r.extras {
		fn("Extra Options", t)
	}
	if r.channel != nil {
		fn("Channel Options", r.channel)
	}
	for _, t := range r.protocols {
		fn(t.Name+" Options", t)
	}
}

// Find returns the option for name. Exact names win over wildcard matchers
// in any pool.
func (r *Registry) Find(name string) *Option {
	pools := r.Pools()
	for _, t := range pools {
		if o := t.Lookup(name); o != nil {
			return o
		}
	}
	for _, t := range pools {
		for _, o := range t.Options {
			if o.Kind == KindWild && o.Match != nil && o.Match(name) {
				return o
			}
		}
	}
	return nil
}
