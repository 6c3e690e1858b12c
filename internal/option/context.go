package option

// Priority orders option sources. A setting is accepted when its priority
// is at least the priority already recorded on the group master.
type Priority int

const (
	PriorityDefault Priority = 0
	PriorityCfgFile Priority = 1
	PrioritySecFile Priority = 2
	PriorityCmdLine Priority = 3
	// PriorityRoot is added for PrivFix options set from privileged sources.
	PriorityRoot Priority = 100
)

func (p Priority) String() string {
	bonus := ""
	if p >= PriorityRoot {
		bonus = "root+"
		p -= PriorityRoot
	}
	switch p {
	case PriorityDefault:
		return bonus + "default"
	case PriorityCfgFile:
		return bonus + "cfgfile"
	case PrioritySecFile:
		return bonus + "secfile"
	case PriorityCmdLine:
		return bonus + "cmdline"
	}
	return bonus + "unknown"
}

// Phase is the daemon lifecycle stage visible to option processing.
type Phase int

const (
	PhaseInitialize Phase = iota
	PhaseRunning
)

// Context is the ambient state of one option setting. Sources derive child
// contexts by value, so nothing needs restoring when a source returns.
type Context struct {
	Privileged bool
	// Source names the origin of the setting: "command line", a file path,
	// or "secrets file".
	Source   string
	Priority Priority
	Phase    Phase
	// DeviceLocked is set once the command line has been read.
	DeviceLocked bool
	// Option is the name of the option being processed.
	Option string
}

// With returns a child context for a nested source.
func (c Context) With(privileged bool, source string, prio Priority) Context {
	c.Privileged = privileged
	c.Source = source
	c.Priority = prio
	return c
}
