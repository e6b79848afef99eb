package msdf

// Coloring selects the edge-coloring strategy AssignColorsFor applies
// before distance-field generation.
type Coloring int

const (
	// ColoringSimple cycles cyan/magenta/yellow across corner-delimited
	// segments in order, the classic MSDF coloring.
	ColoringSimple Coloring = iota
	// ColoringInkTrap additionally forces a color change across short
	// segments between two nearby corners ("ink traps" — narrow notches
	// a period-3 cycle can accidentally leave on the same channel pair,
	// which the median operation then bridges shut at small sizes).
	ColoringInkTrap
)

// AssignColorsFor dispatches to the simple or ink-trap coloring pass
// selected by coloring.
func AssignColorsFor(shape *Shape, angleThreshold float64, coloring Coloring) {
	switch coloring {
	case ColoringInkTrap:
		assignColorsInkTrap(shape, angleThreshold)
	default:
		AssignColors(shape, angleThreshold)
	}
}

// inkTrapShortSegmentEdges is the edge count at or below which a
// corner-to-corner segment is considered a potential ink trap.
const inkTrapShortSegmentEdges = 2

func assignColorsInkTrap(shape *Shape, angleThreshold float64) {
	for _, contour := range shape.Contours {
		if len(contour.Edges) == 0 {
			continue
		}
		assignContourColorsInkTrap(contour, angleThreshold)
	}
}

// assignContourColorsInkTrap mirrors assignContourColors' corner
// detection and cyclic coloring, but refuses to repeat the previous
// segment's color when the new segment is short, breaking the 3-cycle
// instead of letting it alias two adjacent notches onto one channel pair.
func assignContourColorsInkTrap(contour *Contour, angleThreshold float64) {
	n := len(contour.Edges)
	if n == 0 {
		return
	}
	if n == 1 {
		contour.Edges[0].Color = ColorWhite
		return
	}

	corners := detectCorners(contour, angleThreshold)
	if len(corners) == 0 {
		for i := range contour.Edges {
			contour.Edges[i].Color = ColorWhite
		}
		return
	}

	colors := []EdgeColor{ColorCyan, ColorMagenta, ColorYellow}
	colorIdx := 0
	prevColor := EdgeColor(0)

	for i := 0; i < len(corners); i++ {
		start := corners[i]
		end := corners[(i+1)%len(corners)]
		if end <= start {
			end += n
		}
		segmentLen := end - start

		color := colors[colorIdx%len(colors)]
		colorIdx++
		if segmentLen <= inkTrapShortSegmentEdges && color == prevColor {
			colorIdx++
			color = colors[colorIdx%len(colors)]
		}
		prevColor = color

		for j := start + 1; j <= end; j++ {
			contour.Edges[j%n].Color = color
		}
	}

	for _, cornerIdx := range corners {
		prevC := contour.Edges[cornerIdx].Color
		nextC := contour.Edges[(cornerIdx+1)%n].Color
		if prevC == nextC {
			contour.Edges[cornerIdx].Color = ColorWhite
		} else {
			contour.Edges[cornerIdx].Color = prevC | nextC
		}
	}
}

// detectCorners returns edge indices whose outgoing-to-incoming angle
// exceeds angleThreshold, same rule assignContourColors uses.
func detectCorners(contour *Contour, angleThreshold float64) []int {
	n := len(contour.Edges)
	corners := make([]int, 0)
	for i := 0; i < n; i++ {
		prevEdge := &contour.Edges[i]
		nextEdge := &contour.Edges[(i+1)%n]
		dirOut := prevEdge.DirectionAt(1).Normalized()
		dirIn := nextEdge.DirectionAt(0).Normalized()
		if AngleBetween(dirOut, dirIn) > angleThreshold {
			corners = append(corners, i)
		}
	}
	return corners
}
