package msdf

import (
	"sync"

	"github.com/konstatoivanen/pkassetc/text"
)

// MTSDF is a multi-channel-and-true-signed-distance-field texture: an
// MSDF's three corner-preserving pseudo-distance channels plus a fourth
// channel carrying the true (unselected, all-edges) signed distance,
// which a renderer can fall back to when the median of RGB would bridge
// a thin feature at small glyph sizes.
type MTSDF struct {
	// Data is RGBA pixel data, 4 bytes per pixel, row-major. RGB mirrors
	// MSDF.Data; A holds the true-distance channel.
	Data []byte

	Width, Height int

	Bounds Rect
	Scale  float64

	TranslateX, TranslateY float64
}

// PixelOffset returns the byte offset for pixel (x, y).
func (m *MTSDF) PixelOffset(x, y int) int {
	return (y*m.Width + x) * 4
}

// SetPixel sets the RGBA values at (x, y).
func (m *MTSDF) SetPixel(x, y int, r, g, b, a byte) {
	o := m.PixelOffset(x, y)
	m.Data[o] = r
	m.Data[o+1] = g
	m.Data[o+2] = b
	m.Data[o+3] = a
}

// GetPixel returns the RGBA values at (x, y).
func (m *MTSDF) GetPixel(x, y int) (r, g, b, a byte) {
	o := m.PixelOffset(x, y)
	return m.Data[o], m.Data[o+1], m.Data[o+2], m.Data[o+3]
}

// GenerateMTSDF runs the ordinary MSDF generation pass over outline,
// then computes a fourth true-distance channel by taking the minimum
// signed distance across every edge regardless of color selector, and
// returns the combined 4-channel texture. Config.Coloring is honored
// for the RGB pass.
func (g *Generator) GenerateMTSDF(outline *text.GlyphOutline) (*MTSDF, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	if outline == nil || outline.IsEmpty() {
		return g.generateEmptyMTSDF(), nil
	}

	shape := FromOutline(outline)
	if shape.EdgeCount() == 0 {
		return g.generateEmptyMTSDF(), nil
	}

	AssignColorsFor(shape, g.config.AngleThreshold, g.config.Coloring)

	shapeBounds := shape.Bounds
	if shapeBounds.IsEmpty() {
		return g.generateEmptyMTSDF(), nil
	}

	padding := g.config.Range
	bounds := shapeBounds.Expand(padding)
	scale := calculateScale(bounds, g.config.Size, padding)
	occupiedW := bounds.Width() * scale
	occupiedH := bounds.Height() * scale
	translateX := (float64(g.config.Size) - occupiedW) / 2
	translateY := (float64(g.config.Size) - occupiedH) / 2

	mt := &MTSDF{
		Data:       make([]byte, g.config.Size*g.config.Size*4),
		Width:      g.config.Size,
		Height:     g.config.Size,
		Bounds:     bounds,
		Scale:      scale,
		TranslateX: translateX,
		TranslateY: translateY,
	}

	g.generateMTSDFField(mt, shape)
	return mt, nil
}

func (g *Generator) generateEmptyMTSDF() *MTSDF {
	size := g.config.Size
	return &MTSDF{
		Data:   make([]byte, size*size*4),
		Width:  size,
		Height: size,
		Bounds: Rect{},
		Scale:  1.0,
	}
}

// generateMTSDFField mirrors generateDistanceField's row-parallel layout,
// additionally resolving the unselected true distance per pixel.
func (g *Generator) generateMTSDFField(mt *MTSDF, shape *Shape) {
	size := g.config.Size
	pixelRange := g.config.Range

	var wg sync.WaitGroup
	numWorkers := 4
	rowsPerWorker := (size + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > size {
			endRow = size
		}
		if startRow >= endRow {
			continue
		}

		wg.Add(1)
		go func(startRow, endRow int) {
			defer wg.Done()
			for y := startRow; y < endRow; y++ {
				for x := 0; x < size; x++ {
					px, py := float64(x)+0.5, float64(y)+0.5
					ox := (px-mt.TranslateX)/mt.Scale + mt.Bounds.MinX
					oy := (py-mt.TranslateY)/mt.Scale + mt.Bounds.MinY
					point := Point{X: ox, Y: oy}

					r := g.channelDistance(shape, point, SelectRed)
					gr := g.channelDistance(shape, point, SelectGreen)
					b := g.channelDistance(shape, point, SelectBlue)
					trueDist := trueSignedDistance(shape, point)

					rVal := distanceToPixel(r.Distance, pixelRange, mt.Scale)
					gVal := distanceToPixel(gr.Distance, pixelRange, mt.Scale)
					bVal := distanceToPixel(b.Distance, pixelRange, mt.Scale)
					aVal := distanceToPixel(trueDist, pixelRange, mt.Scale)

					mt.SetPixel(x, y, rVal, gVal, bVal, aVal)
				}
			}
		}(startRow, endRow)
	}
	wg.Wait()
}

// trueSignedDistance is the minimum signed distance to any edge in
// shape, ignoring color selection entirely.
func trueSignedDistance(shape *Shape, p Point) float64 {
	minDist := Infinite()
	for _, contour := range shape.Contours {
		for _, edge := range contour.Edges {
			minDist = minDist.Combine(edge.SignedDistance(p))
		}
	}
	return minDist.Distance
}
