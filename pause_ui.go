package main

import (
	"image/color"
	"log"
	"sync"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/ratrun/ecs"
	"github.com/milk9111/ratrun/ecs/component"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	pausePanelWidth  = 320
	pausePanelHeight = 260
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// PauseUI is the pause menu: resume, live tuning toggles, exporting the
// current tuning, and quit.
type PauseUI struct {
	ui         *ebitenui.UI
	game       *Game
	freedomBtn *widget.Button
	climbBtn   *widget.Button
	status     *widget.Text
}

// NewPauseUI builds a centered pause menu. Buttons use colored nine-slices
// and the built-in basic font, so no theme assets are needed.
func NewPauseUI(g *Game) *PauseUI {
	p := &PauseUI{game: g}

	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	hoverImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x4a, G: 0x4a, B: 0x4a, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: hoverImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(centered),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) { onClick() }),
		)
	}

	title := widget.NewText(
		widget.TextOpts.Text("Paused", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	p.status = widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	resumeBtn := button("Resume", func() { g.setPaused(false) })
	p.freedomBtn = button("Freedom", func() {
		g.CycleFreedom()
		p.Refresh()
	})
	p.climbBtn = button("Climb", func() {
		g.CycleClimb()
		p.Refresh()
	})
	copyBtn := button("Copy tuning", p.copyTuning)
	quitBtn := button("Quit", func() { g.quit = true })

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(pausePanelWidth, pausePanelHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(resumeBtn)
	panel.AddChild(p.freedomBtn)
	panel.AddChild(p.climbBtn)
	panel.AddChild(copyBtn)
	panel.AddChild(quitBtn)
	panel.AddChild(p.status)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)

	p.ui = &ebitenui.UI{Container: root}
	p.Refresh()
	return p
}

func (p *PauseUI) Update() {
	p.ui.Update()
}

func (p *PauseUI) Draw(screen *ebiten.Image) {
	p.ui.Draw(screen)
}

// Refresh relabels the toggles from the rat's live tuning.
func (p *PauseUI) Refresh() {
	g := p.game
	if loco, ok := ecs.Get(g.world, g.player, component.LocomotionComponent.Kind()); ok && loco.Controller != nil {
		setLabel(p.freedomBtn, "Freedom: "+loco.Controller.Config().Jump.Freedom.String())
	}
	if gate, ok := ecs.Get(g.world, g.player, component.ClimbGateComponent.Kind()); ok && gate.Gate != nil {
		setLabel(p.climbBtn, "Climb: "+gate.Gate.Config().Active.String())
	}
}

func (p *PauseUI) copyTuning() {
	data, err := p.game.Tuning()
	if err != nil {
		p.status.Label = "export failed"
		log.Printf("copy tuning: %v", err)
		return
	}
	clipboardOnce.Do(func() { clipboardErr = clipboard.Init() })
	if clipboardErr != nil {
		p.status.Label = "clipboard unavailable"
		log.Printf("copy tuning: %v", clipboardErr)
		log.Printf("current tuning:\n%s", data)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	p.status.Label = "tuning copied"
}

func setLabel(btn *widget.Button, label string) {
	if btn == nil {
		return
	}
	if text := btn.Text(); text != nil {
		text.Label = label
	}
}
