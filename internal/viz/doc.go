// Package viz renders analysis results on a Braille pixel canvas.
//
// The canvas maps 2x4 dot cells onto Unicode Braille characters, giving a
// terminal resolution of (2*Width) x (4*Height) addressable pixels. Plot
// helpers scale domain data into that space:
//
//   - [SpectrumBars]: per-mode damping ratio bars, one group per environment
//   - [SeriesPlot]: line plots for boundary maps and amplification curves
//   - [RingLayout]: cluster cross-section with engines on their rings
//
// The same canvas backs both terminal output and SVG export.
package viz
