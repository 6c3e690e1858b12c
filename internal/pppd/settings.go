package pppd

import (
	"net/netip"

	"github.com/lwmacct/251124-pppd/internal/option"
)

// Buffer sizes of the daemon's fixed-size string options. Static values
// keep at most size-1 bytes.
const (
	MaxPathLen   = 4096
	IfNameSize   = 16
	MaxNameLen   = 256
	MaxSecretLen = 256
)

// MRU bounds accepted by the mru option.
const (
	MinMRU = 128
	MaxMRU = 16384
	DefMRU = 1500
)

// CHAP digest bits used by require-chap and refuse-chap.
const (
	MDTypeMSv2 uint8 = 0x1
	MDTypeMS   uint8 = 0x2
	MDTypeMD5  uint8 = 0x4
	MDTypeAll        = MDTypeMSv2 | MDTypeMS | MDTypeMD5
)

// Directions accepted by mo-direction.
const (
	OctetsSum = "sum"
	OctetsIn  = "in"
	OctetsOut = "out"
	OctetsMax = "max"
)

// Settings holds every value the option tables write.
type Settings struct {
	Debug        int
	KDebug       int
	NoDetach     bool
	UpDetach     bool
	UpSDNotify   bool
	MasterDetach bool

	Holdoff          int
	HoldoffSpecified bool
	Idle             int
	MaxConnect       int

	// Hostname is the local host name, extended by the domain option.
	Hostname string
	Domain   string

	Persist     bool
	Demand      bool
	ShowOptions bool

	LogFile    string
	LogFD      int
	LogDefault bool

	LinkName     string
	MaxFail      int
	TuneKernel   bool
	ConnectDelay int
	Unit         int
	IfName       string
	DumpOptions  bool
	DryRun       bool
	ChildWait    int

	NetInitScript  string
	NetPreUpScript string
	NetDownScript  string
	IPUpScript     string
	IPDownScript   string
	IPPreUpScript  string
	IPv6UpScript   string
	IPv6DownScript string

	Multilink bool
	Bundle    string

	MaxOctets   int
	MoDirection string
	MoTimeout   int

	Plugins option.ValueList

	noIPX bool

	Auth AuthSettings
	TTY  TTYSettings
	LCP  LCPSettings
	IPCP IPCPSettings
}

// AuthSettings are the authentication options.
type AuthSettings struct {
	Required   bool
	AllowAnyIP bool
	RequirePAP bool
	RefusePAP  bool
	RefuseCHAP bool
	// WantMDType holds the CHAP digests we ask the peer to use.
	WantMDType uint8
	// AllowMDType holds the CHAP digests we agree to use.
	AllowMDType uint8

	OurName          string
	User             string
	ExplicitUser     bool
	Password         string
	ExplicitPassword bool
	RemoteName       string
	ExplicitRemote   bool
}

// TTYSettings are the serial channel options.
type TTYSettings struct {
	Device string
	// DefaultDevice stays true until a device is named.
	DefaultDevice bool
	Speed         int
	SpeedStr      string
	CRTSCTS       int
	Modem         bool
	Lock          bool
	Connect       string
}

// LCPSettings are the link control protocol options.
type LCPSettings struct {
	EchoInterval  int
	EchoFailure   int
	MRU           int
	NegMRU        bool
	Asyncmap      uint32
	NegAsyncmap   bool
	AllowAsyncmap bool
}

// IPCPSettings are the IP control protocol options.
type IPCPSettings struct {
	UsePeerDNS  bool
	DNS         []netip.Addr
	DNSServers  option.ValueList
	NoIPDefault bool
	LocalAddr   netip.Addr
	RemoteAddr  netip.Addr
}

// DefaultSettings returns the values in effect before any option is read.
func DefaultSettings() *Settings {
	return &Settings{
		Holdoff:      30,
		LogFD:        1,
		LogDefault:   true,
		MaxFail:      10,
		ConnectDelay: 1000,
		Unit:         -1,
		ChildWait:    5,
		MoDirection:  OctetsSum,
		MoTimeout:    1,
		Auth: AuthSettings{
			AllowMDType: MDTypeAll,
		},
		TTY: TTYSettings{
			DefaultDevice: true,
			Modem:         true,
		},
		LCP: LCPSettings{
			MRU:           DefMRU,
			AllowAsyncmap: true,
		},
	}
}
