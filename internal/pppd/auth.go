package pppd

import (
	"github.com/lwmacct/251124-pppd/internal/option"
)

func (d *Daemon) authOptions() *option.Table {
	a := &d.Settings.Auth
	return option.NewTable("",
		&option.Option{Name: "auth", Kind: option.KindBool, Bool: &a.Required, Value: 1,
			Description: "Require authentication from peer",
			Flags:       option.Flags{Prio: true}},
		&option.Option{Name: "noauth", Kind: option.KindBool, Bool: &a.Required,
			Description: "Don't require peer to authenticate",
			Flags:       option.Flags{PrioSub: true, Priv: true},
			Effect:      option.EffectCopy, Flag2: &a.AllowAnyIP},
		&option.Option{Name: "require-pap", Kind: option.KindBool, Bool: &a.RequirePAP, Value: 1,
			Description: "Require PAP authentication from peer",
			Flags:       option.Flags{PrioSub: true}, Flag2: &a.Required},
		&option.Option{Name: "require-chap", Kind: option.KindBool, Bool: &a.Required, Value: int(MDTypeMD5),
			Description: "Require CHAP authentication from peer",
			Flags:       option.Flags{PrioSub: true},
			Effect:      option.EffectOr, Bits2: &a.WantMDType},

		&option.Option{Name: "refuse-pap", Kind: option.KindBool, Bool: &a.RefusePAP, Value: 1,
			Description: "Don't agree to auth to peer with PAP"},
		&option.Option{Name: "refuse-chap", Kind: option.KindBool, Bool: &a.RefuseCHAP, Value: int(MDTypeMD5),
			Description: "Don't agree to auth to peer with CHAP",
			Effect:      option.EffectClearBits, Bits2: &a.AllowMDType},

		&option.Option{Name: "name", Kind: option.KindString, String: &a.OurName,
			Description: "Set local name for authentication",
			Flags:       option.Flags{Prio: true, Priv: true, Static: true}, Upper: MaxNameLen},
		&option.Option{Name: "user", Kind: option.KindString, String: &a.User,
			Description: "Set name for auth with peer",
			Flags:       option.Flags{Prio: true, Static: true}, Upper: MaxNameLen,
			Flag2:       &a.ExplicitUser},
		&option.Option{Name: "password", Kind: option.KindString, String: &a.Password,
			Description: "Password for authenticating us to the peer",
			Flags:       option.Flags{Prio: true, Static: true, Hide: true}, Upper: MaxSecretLen,
			Flag2:       &a.ExplicitPassword},
		&option.Option{Name: "remotename", Kind: option.KindString, String: &a.RemoteName,
			Description: "Set remote name for authentication",
			Flags:       option.Flags{Prio: true, Static: true}, Upper: MaxNameLen,
			Flag2:       &a.ExplicitRemote},
	)
}
