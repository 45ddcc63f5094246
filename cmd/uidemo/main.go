// Command uidemo renders a frame of a small retained tree headlessly
// and saves it as a PNG. It registers two demo pipelines: a solid fill
// and a frosted panel that box-blurs the scene behind it, exercising
// the scene-snapshot barrier path.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/backend/software"
	"github.com/gogpu/ui/frame"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/render"
	"github.com/gogpu/ui/tree"
)

func main() {
	var (
		width  = flag.Int("width", 800, "frame width")
		height = flag.Int("height", 600, "frame height")
		output = flag.String("output", "uidemo.png", "output file")
	)
	flag.Parse()

	render.Register(&fillPipeline{})
	render.Register(&frostPipeline{})
	if err := render.Validate(fillKind, frostKind); err != nil {
		log.Fatalf("Pipeline validation failed: %v", err)
	}

	b, err := render.NewBackend(software.BackendName)
	if err != nil {
		log.Fatalf("No software backend: %v", err)
	}
	if err := b.Init(render.NullDeviceHandle{}); err != nil {
		log.Fatalf("Backend init failed: %v", err)
	}
	defer b.Close()
	if err := b.Resize(*width, *height); err != nil {
		log.Fatalf("Resize failed: %v", err)
	}

	exec := frame.New(b)
	defer exec.Close()

	c := ui.Exact(float64(*width), float64(*height))
	diags, err := exec.Frame(buildDemo, c)
	if err != nil {
		log.Fatalf("Frame failed: %v", err)
	}
	for _, d := range diags {
		log.Printf("layout diagnostic: %v", d)
	}

	if err := savePNG(b.(*software.Backend).Image(), *output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

// buildDemo declares the demo tree: a padded grid of colored tiles with
// a frosted panel laid over the grid's lower-right corner.
func buildDemo(b *tree.Builder) {
	b.Begin()

	b.Begin()
	b.Policy(layout.Padded(24))
	tileGrid(b)
	b.End()

	b.Begin()
	b.Policy(at(320, 220))
	b.Begin()
	b.Policy(layout.Sized(280, 180))
	b.Draw(frost{pad: 16})
	b.Draw(fill{c: color.RGBA{R: 255, G: 255, B: 255, A: 48}})
	b.End()
	b.End()

	b.End()
}

func tileGrid(b *tree.Builder) {
	palette := []color.RGBA{
		{R: 0xe7, G: 0x6f, B: 0x51, A: 0xff},
		{R: 0xf4, G: 0xa2, B: 0x61, A: 0xff},
		{R: 0xe9, G: 0xc4, B: 0x6a, A: 0xff},
		{R: 0x2a, G: 0x9d, B: 0x8f, A: 0xff},
		{R: 0x26, G: 0x46, B: 0x53, A: 0xff},
	}

	b.Begin()
	b.Policy(layout.Column(16))
	for row := 0; row < 3; row++ {
		b.Begin()
		b.Policy(layout.Row(16))
		for col := 0; col < 4; col++ {
			b.Begin()
			b.Policy(layout.Sized(140, 100))
			b.Draw(fill{c: palette[(row*4+col)%len(palette)]})
			b.End()
		}
		b.End()
	}
	b.End()
}

// at offsets its children by a fixed local position.
func at(x, y float64) ui.MeasurePolicy {
	return ui.PolicyFunc(func(c ui.Constraint, children ui.Measurable) (ui.PolicyResult, error) {
		sizes := children.MeasureAll(layout.Loose())
		offsets := make([]ui.Point, len(sizes))
		var content ui.Size
		for i, sz := range sizes {
			offsets[i] = ui.Point{X: x, Y: y}
			content = content.Union(ui.Size{W: x + sz.W, H: y + sz.H})
		}
		return ui.PolicyResult{Size: content, Offsets: offsets}, nil
	})
}

func savePNG(img *image.RGBA, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// === Demo pipelines ===

const (
	fillKind  ui.CommandKind = "demo.fill"
	frostKind ui.CommandKind = "demo.frost"
)

// fill paints its node's clip rectangle with a solid color.
type fill struct {
	c color.RGBA
}

func (fill) Kind() ui.CommandKind   { return fillKind }
func (fill) Phase() ui.CommandPhase { return ui.PhaseDraw }
func (fill) Barrier() ui.Barrier    { return ui.NoBarrier() }

type fillPipeline struct{}

func (*fillPipeline) Kind() ui.CommandKind    { return fillKind }
func (*fillPipeline) Access() ui.BarrierClass { return ui.BarrierNone }

func (*fillPipeline) Prepare([]render.Instruction) error { return nil }

func (*fillPipeline) Issue(p render.Pass, in render.Instruction, _ render.TextureView) error {
	sp := p.(*software.Pass)
	r := in.Scissor.Intersect(sp.Scissor())
	cmd := in.Cmd.(fill)
	dst := sp.Canvas()
	draw.Draw(dst, image.Rect(r.X, r.Y, r.MaxX(), r.MaxY()),
		image.NewUniform(cmd.c), image.Point{}, draw.Over)
	return nil
}

// frost box-blurs the scene pixels behind its node.
type frost struct {
	pad int
}

func (frost) Kind() ui.CommandKind   { return frostKind }
func (frost) Phase() ui.CommandPhase { return ui.PhaseDraw }
func (f frost) Barrier() ui.Barrier  { return ui.PaddedBarrier(f.pad) }

type frostPipeline struct{}

func (*frostPipeline) Kind() ui.CommandKind    { return frostKind }
func (*frostPipeline) Access() ui.BarrierClass { return ui.BarrierPaddedLocal }

func (*frostPipeline) Prepare([]render.Instruction) error { return nil }

func (*frostPipeline) Issue(p render.Pass, in render.Instruction, _ render.TextureView) error {
	sp := p.(*software.Pass)
	scene := sp.Scene()
	dst := sp.Canvas()
	r := in.Scissor.Intersect(sp.Scissor())
	radius := in.Cmd.(frost).pad

	bounds := scene.Bounds()
	for y := r.Y; y < r.MaxY(); y++ {
		for x := r.X; x < r.MaxX(); x++ {
			var sr, sg, sb, sa, n int
			for dy := -radius; dy <= radius; dy += 4 {
				for dx := -radius; dx <= radius; dx += 4 {
					sx, sy := x+dx, y+dy
					if sx < bounds.Min.X || sx >= bounds.Max.X ||
						sy < bounds.Min.Y || sy >= bounds.Max.Y {
						continue
					}
					c := scene.RGBAAt(sx, sy)
					sr += int(c.R)
					sg += int(c.G)
					sb += int(c.B)
					sa += int(c.A)
					n++
				}
			}
			if n == 0 {
				continue
			}
			dst.SetRGBA(x, y, color.RGBA{
				R: uint8(sr / n),
				G: uint8(sg / n),
				B: uint8(sb / n),
				A: uint8(sa / n),
			})
		}
	}
	return nil
}
