package camera

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ratrun/common"
)

// Config describes a top-down orthographic view. Screen up is world +Z;
// height lifts points up the screen by HeightSkew pixels per unit.
type Config struct {
	ScreenWidth  int
	ScreenHeight int
	// Zoom is pixels per world unit on the ground plane.
	Zoom       float64
	HeightSkew float64
	// Smooth is the per-update follow factor (0..1). 0 snaps.
	Smooth float64
	// Bounds clamps the view centre on the ground plane when non-empty.
	BoundsMin mgl64.Vec2
	BoundsMax mgl64.Vec2
}

func DefaultConfig() Config {
	return Config{
		ScreenWidth:  960,
		ScreenHeight: 640,
		Zoom:         48,
		HeightSkew:   16,
		Smooth:       0.15,
	}
}

// Camera projects world positions to screen pixels.
type Camera struct {
	cfg Config
	// center is the ground-plane point at the middle of the screen (x, z).
	center mgl64.Vec2
}

func New(cfg Config) *Camera {
	if cfg.Zoom <= 0 {
		cfg.Zoom = DefaultConfig().Zoom
	}
	return &Camera{cfg: cfg}
}

func (c *Camera) Config() Config { return c.cfg }

func (c *Camera) SetConfig(cfg Config) {
	if cfg.Zoom <= 0 {
		cfg.Zoom = c.cfg.Zoom
	}
	c.cfg = cfg
	c.center = c.clamp(c.center)
}

// SetScreenSize updates the logical screen size.
func (c *Camera) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.cfg.ScreenWidth = w
	c.cfg.ScreenHeight = h
}

// Center returns the ground-plane point under the screen centre.
func (c *Camera) Center() mgl64.Vec3 {
	return mgl64.Vec3{c.center.X(), 0, c.center.Y()}
}

func (c *Camera) Zoom() float64 { return c.cfg.Zoom }

// WorldToScreen maps p to screen pixels; y grows downward.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (float64, float64) {
	x := (p.X()-c.center.X())*c.cfg.Zoom + float64(c.cfg.ScreenWidth)/2
	y := float64(c.cfg.ScreenHeight)/2 - (p.Z()-c.center.Y())*c.cfg.Zoom - p.Y()*c.cfg.HeightSkew
	return x, y
}

// ScreenToWorld inverts WorldToScreen for points at the given height.
func (c *Camera) ScreenToWorld(x, y, height float64) mgl64.Vec3 {
	wx := (x-float64(c.cfg.ScreenWidth)/2)/c.cfg.Zoom + c.center.X()
	wz := (float64(c.cfg.ScreenHeight)/2-y-height*c.cfg.HeightSkew)/c.cfg.Zoom + c.center.Y()
	return mgl64.Vec3{wx, height, wz}
}

// Follow moves the view toward target. Call once per update for consistent
// smoothing.
func (c *Camera) Follow(target mgl64.Vec3) {
	goal := mgl64.Vec2{target.X(), target.Z()}
	if c.cfg.Smooth <= 0 || c.cfg.Smooth >= 1 {
		c.center = c.clamp(goal)
		return
	}
	c.center = c.clamp(mgl64.Vec2{
		common.Lerp(c.center.X(), goal.X(), c.cfg.Smooth),
		common.Lerp(c.center.Y(), goal.Y(), c.cfg.Smooth),
	})
}

// SnapTo centres the view on target immediately, e.g. after a level load.
func (c *Camera) SnapTo(target mgl64.Vec3) {
	c.center = c.clamp(mgl64.Vec2{target.X(), target.Z()})
}

func (c *Camera) clamp(p mgl64.Vec2) mgl64.Vec2 {
	lo, hi := c.cfg.BoundsMin, c.cfg.BoundsMax
	if lo == hi {
		return p
	}
	halfW := float64(c.cfg.ScreenWidth) / c.cfg.Zoom / 2
	halfH := float64(c.cfg.ScreenHeight) / c.cfg.Zoom / 2
	return mgl64.Vec2{
		clampAxis(p.X(), lo.X()+halfW, hi.X()-halfW),
		clampAxis(p.Y(), lo.Y()+halfH, hi.Y()-halfH),
	}
}

// clampAxis centres on the bounds when the view is wider than them.
func clampAxis(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return common.Clamp(v, lo, hi)
}
