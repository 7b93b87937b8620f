package system

import (
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/ratrun/camera"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"github.com/milk9111/ratrun/locomotion"
	"golang.org/x/image/colornames"
)

var (
	backgroundColor = colornames.Darkslategray
	ratGrounded     = colornames.Wheat
	ratAirborne     = colornames.Lightsalmon
	ratClimbing     = colornames.Palegreen
	shadowColor     = color.RGBA{0, 0, 0, 90}
)

type RenderSystem struct {
	blocks []*component.Block
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil {
		return
	}
	screen.Fill(backgroundColor)

	camComp, ok := activeCamera(w)
	if !ok {
		return
	}
	cam := camComp.Camera

	r.blocks = r.blocks[:0]
	ecs.ForEach(w, component.BlockComponent.Kind(), func(_ ecs.Entity, b *component.Block) {
		if b.Block != nil {
			r.blocks = append(r.blocks, b)
		}
	})
	// far rows first, then low blocks under high ones
	sort.SliceStable(r.blocks, func(i, j int) bool {
		a, b := r.blocks[i].Block, r.blocks[j].Block
		if a.Min.Z() != b.Min.Z() {
			return a.Min.Z() > b.Min.Z()
		}
		return a.Max.Y() < b.Max.Y()
	})
	for _, b := range r.blocks {
		drawBlock(screen, cam, b)
	}

	ecs.ForEach2(w, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, rb *component.RigidBody, t *component.Transform) {
		if rb.Body == nil {
			return
		}
		fill := ratGrounded
		if loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok && loco.Controller != nil {
			if loco.Controller.State().Motion == locomotion.Airborne {
				fill = ratAirborne
			}
		}
		if gate, ok := ecs.Get(w, e, component.ClimbGateComponent.Kind()); ok && gate.Gate != nil && gate.Gate.Climbing() {
			fill = ratClimbing
		}
		drawBody(screen, cam, t, rb.Body.Radius(), rb.Body.Height(), fill)
	})
}

func drawBlock(screen *ebiten.Image, cam *camera.Camera, b *component.Block) {
	bl := b.Block
	top, bottom := bl.Max.Y(), bl.Min.Y()

	x0, yFar := cam.WorldToScreen(mgl64.Vec3{bl.Min.X(), top, bl.Max.Z()})
	x1, yNear := cam.WorldToScreen(mgl64.Vec3{bl.Max.X(), top, bl.Min.Z()})
	_, yBase := cam.WorldToScreen(mgl64.Vec3{bl.Min.X(), bottom, bl.Min.Z()})

	width := float32(x1 - x0)
	if yBase > yNear {
		vector.DrawFilledRect(screen, float32(x0), float32(yNear), width, float32(yBase-yNear), shade(b.Fill, 0.6), false)
	}
	vector.DrawFilledRect(screen, float32(x0), float32(yFar), width, float32(yNear-yFar), b.Fill, false)
	vector.StrokeRect(screen, float32(x0), float32(yFar), width, float32(yNear-yFar), 1, shade(b.Fill, 0.8), false)
}

func drawBody(screen *ebiten.Image, cam *camera.Camera, t *component.Transform, radius, height float64, fill color.Color) {
	r := float32(radius * cam.Zoom())

	sx, sy := cam.WorldToScreen(mgl64.Vec3{t.Position.X(), 0, t.Position.Z()})
	vector.DrawFilledCircle(screen, float32(sx), float32(sy), r, shadowColor, true)

	center := t.Position.Add(mgl64.Vec3{0, height / 2, 0})
	cx, cy := cam.WorldToScreen(center)
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), r, fill, true)
	vector.StrokeCircle(screen, float32(cx), float32(cy), r, 1.5, colornames.Black, true)

	nose := center.Add(t.Rotation.Rotate(mgl64.Vec3{0, 0, 1}).Mul(radius * 1.6))
	nx, ny := cam.WorldToScreen(nose)
	vector.StrokeLine(screen, float32(cx), float32(cy), float32(nx), float32(ny), 2, colornames.Black, true)
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}
