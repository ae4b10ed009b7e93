package models

// CanvasConfig is the fixed output geometry and frame rate.
type CanvasConfig struct {
	Width  int `yaml:"width" validate:"required,gt=0"`
	Height int `yaml:"height" validate:"required,gt=0"`
	FPS    int `yaml:"fps" validate:"required,gt=0"`
}

// EncoderProfile is the bit-exact encoder contract from spec §6.
type EncoderProfile struct {
	VideoCodec string `yaml:"video_codec" validate:"required"`
	CRF        int    `yaml:"crf"`
	Bitrate    string `yaml:"bitrate"`
	Preset     string `yaml:"preset" validate:"required"`
	PixFmt     string `yaml:"pix_fmt"`   // always yuv420p, not user-overridable in practice
	Profile    string `yaml:"profile"`   // always "high"
	Level      string `yaml:"level"`     // always "4.1"
	Color      string `yaml:"color"`     // always "bt709"
	Faststart  bool   `yaml:"faststart"` // always true
}

// AudioProfile describes the output audio stream.
type AudioProfile struct {
	Codec      string `yaml:"codec" validate:"required"`
	SampleRate int    `yaml:"sample_rate" validate:"required,gt=0"`
	Channels   int    `yaml:"channels" validate:"required,gt=0"`
	Bitrate    string `yaml:"bitrate"`
}

// KenBurnsMode selects between pure pan and zoom+pan motion.
type KenBurnsMode string

const (
	KenBurnsPanOnly KenBurnsMode = "pan_only"
	KenBurnsZoompan KenBurnsMode = "zoompan"
)

// KenBurnsConfig holds the Ken-Burns motion parameters from spec §3/§4.4.
type KenBurnsConfig struct {
	Mode           KenBurnsMode `yaml:"mode" validate:"required,oneof=pan_only zoompan"`
	Zoom           float64      `yaml:"zoom"`
	Offset         float64      `yaml:"offset"`
	Margin         float64      `yaml:"margin" validate:"gte=0"`
	MotionScale    float64      `yaml:"motion_scale"`
	MaxMargin      float64      `yaml:"max_margin" validate:"gte=0"`
	FullTravel     bool         `yaml:"full_travel"`
	PanExtent      float64      `yaml:"pan_extent"`
	IntroRelief    float64      `yaml:"intro_relief"`     // fractional margin boost, e.g. 0.5 = +50%
	IntroReliefSec float64      `yaml:"intro_relief_sec"` // seconds over which relief decays to 0
}

// EffectivePanExtent applies Open Question (c): full_travel overrides
// pan_extent to 1.0 outright.
func (k KenBurnsConfig) EffectivePanExtent() float64 {
	if k.FullTravel {
		return 1.0
	}
	return k.PanExtent
}

// TextConfig controls font resolution and caption colours.
type TextConfig struct {
	FontPath        string    `yaml:"font_path"`
	DefaultSize     float64   `yaml:"default_size" validate:"gt=0"`
	TextColorRGBA   [4]uint8  `yaml:"text_color_rgba"`
	BandColorRGBA   [4]uint8  `yaml:"band_color_rgba"`
}

// OverlayKind selects static pre-baked caption text vs. typing animation.
type OverlayKind string

const (
	OverlayStatic OverlayKind = "static"
	OverlayTyping OverlayKind = "typing"
)

// OverlayConfig controls caption rendering mode.
type OverlayConfig struct {
	Kind                  OverlayKind `yaml:"kind" validate:"required,oneof=static typing"`
	TypingSpeedMultiplier float64     `yaml:"typing_speed_multiplier" validate:"gte=0"`
}

// SectionPolicy drives the C8 timeline builder's scene-bundling decisions.
type SectionPolicy struct {
	DefaultDurationSeconds float64 `yaml:"default_duration_seconds"`
	MinSceneSeconds        float64 `yaml:"min_scene_seconds" validate:"gte=0"`
	MaxSceneSeconds        float64 `yaml:"max_scene_seconds" validate:"gtfield=MinSceneSeconds"`
	MaxChunksPerScene      int     `yaml:"max_chunks_per_scene" validate:"required,gt=0"`
	PaddingSeconds         float64 `yaml:"padding_seconds" validate:"gte=0"`
	WrapColumns            int     `yaml:"wrap_columns" validate:"required,gt=0"`
}

// BGMConfig is the explicit, required-or-absent BGM mix parameter set
// (Open Question (b): no hard-coded filename is ever assumed).
type BGMConfig struct {
	Path          string  `yaml:"path"`
	NarrationBoost float64 `yaml:"narration_boost"`
	BGMBoost      float64 `yaml:"bgm_boost"`
}

// RenderConfig is the full configuration surface enumerated in spec §6.
type RenderConfig struct {
	Canvas    CanvasConfig   `yaml:"canvas" validate:"required"`
	Encoder   EncoderProfile `yaml:"encoder" validate:"required"`
	Audio     AudioProfile   `yaml:"audio" validate:"required"`
	KenBurns  KenBurnsConfig `yaml:"ken_burns" validate:"required"`
	Text      TextConfig     `yaml:"text" validate:"required"`
	Overlay   OverlayConfig  `yaml:"overlay" validate:"required"`
	Sections  SectionPolicy  `yaml:"sections" validate:"required"`
	BGM       BGMConfig      `yaml:"bgm"`
	Workers   int            `yaml:"workers" validate:"gte=0"`
}

// DefaultRenderConfig returns the spec's reference parameter set.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Canvas: CanvasConfig{Width: 1920, Height: 1080, FPS: 30},
		Encoder: EncoderProfile{
			VideoCodec: "libx264",
			CRF:        20,
			Preset:     "medium",
			PixFmt:     "yuv420p",
			Profile:    "high",
			Level:      "4.1",
			Color:      "bt709",
			Faststart:  true,
		},
		Audio: AudioProfile{Codec: "aac", SampleRate: 48000, Channels: 2, Bitrate: "192k"},
		KenBurns: KenBurnsConfig{
			Mode:        KenBurnsPanOnly,
			Zoom:        0.08,
			Offset:      0.5,
			Margin:      0.08,
			MotionScale: 0.6,
			MaxMargin:   0.18,
			PanExtent:   0.1,
		},
		Text: TextConfig{
			DefaultSize:   48,
			TextColorRGBA: [4]uint8{255, 255, 255, 255},
			BandColorRGBA: [4]uint8{0, 0, 0, 150},
		},
		Overlay: OverlayConfig{Kind: OverlayStatic, TypingSpeedMultiplier: 1.0},
		Sections: SectionPolicy{
			DefaultDurationSeconds: 12,
			MinSceneSeconds:        6,
			MaxSceneSeconds:        25,
			MaxChunksPerScene:      4,
			PaddingSeconds:         0.3,
			WrapColumns:            42,
		},
	}
}
