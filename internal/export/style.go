package export

// Style holds figure geometry and the color assignments shared by every
// SVG renderer. The palette keys environments and series the same way on
// every figure: sea level blue, vacuum red.
type Style struct {
	Width, Height   int
	FontSize        int
	ColorEarth      string
	ColorVacuum     string
	ColorCoherent   string
	ColorIncoherent string
	ColorMargin     string
	Grid            bool
}

func DefaultStyle() Style {
	return Style{
		Width:           900,
		Height:          540,
		FontSize:        12,
		ColorEarth:      "#2196F3",
		ColorVacuum:     "#F44336",
		ColorCoherent:   "#1565C0",
		ColorIncoherent: "#E65100",
		ColorMargin:     "#2E7D32",
		Grid:            true,
	}
}

// seriesColor cycles the palette for figures with more than two series.
func (s Style) seriesColor(i int) string {
	colors := []string{s.ColorEarth, s.ColorVacuum, s.ColorMargin, s.ColorIncoherent, s.ColorCoherent}
	return colors[i%len(colors)]
}
