package session

// AltActivation selects how the loupe modifier behaves.
type AltActivation string

const (
	// AltHold shows the loupe only while the modifier is held.
	AltHold AltActivation = "hold"
	// AltToggle flips the loupe on each modifier press.
	AltToggle AltActivation = "toggle"
)

// Theme selects the HUD color scheme.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeDark   Theme = "dark"
	ThemeLight  Theme = "light"
)

// HudAnchor selects what the HUD follows.
type HudAnchor string

const HudAnchorCursor HudAnchor = "cursor"

// Options is the session configuration consumed by the controller at
// construction and on live update.
type Options struct {
	HudAnchor   HudAnchor     `json:"hud_anchor" yaml:"hud_anchor"`
	ShowAltHint bool          `json:"show_alt_hint" yaml:"show_alt_hint"`
	ShowBlur    bool          `json:"show_blur" yaml:"show_blur"`
	Opaque      bool          `json:"opaque" yaml:"opaque"`
	Opacity     float64       `json:"opacity" yaml:"opacity"`
	FogAmount   float64       `json:"fog_amount" yaml:"fog_amount"`
	MilkAmount  float64       `json:"milk_amount" yaml:"milk_amount"`
	TintHue     float64       `json:"tint_hue" yaml:"tint_hue"`
	Alt         AltActivation `json:"alt_activation" yaml:"alt_activation"`
	LoupeSidePx int           `json:"loupe_sample_side_px" yaml:"loupe_sample_side_px"`
	Theme       Theme         `json:"theme" yaml:"theme"`
}

// DefaultOptions returns the configuration a session runs with when the
// host provides nothing.
func DefaultOptions() Options {
	return Options{
		HudAnchor:   HudAnchorCursor,
		ShowAltHint: true,
		Opacity:     1.0,
		Alt:         AltHold,
		LoupeSidePx: 11,
		Theme:       ThemeSystem,
	}
}

// Normalized clamps unit-interval fields into [0,1] and forces the loupe
// sample side to an odd integer of at least 3, so the sampled patch
// always has a center pixel.
func (o Options) Normalized() Options {
	o.Opacity = clamp01(o.Opacity)
	o.FogAmount = clamp01(o.FogAmount)
	o.MilkAmount = clamp01(o.MilkAmount)
	o.TintHue = clamp01(o.TintHue)

	if o.LoupeSidePx < 3 {
		o.LoupeSidePx = 3
	} else if o.LoupeSidePx%2 == 0 {
		o.LoupeSidePx++
	}

	if o.Alt != AltHold && o.Alt != AltToggle {
		o.Alt = AltHold
	}
	switch o.Theme {
	case ThemeSystem, ThemeDark, ThemeLight:
	default:
		o.Theme = ThemeSystem
	}
	if o.HudAnchor == "" {
		o.HudAnchor = HudAnchorCursor
	}
	return o
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
