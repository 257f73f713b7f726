package engine

import "sort"

// SortPanels orders panels for nesting, largest first. The mixed
// strategy biases area by aspect ratio so long thin panels go early,
// while they still have full-width space available. Sorting is stable
// so equal panels keep their input order.
func SortPanels(panels []*Panel, strategy string) {
	switch strategy {
	case "none":
		return
	case "perimeter":
		sort.SliceStable(panels, func(i, j int) bool {
			return panels[i].Perimeter() > panels[j].Perimeter()
		})
	case "mixed":
		key := func(p *Panel) float64 {
			return p.W * p.H * (1 + 0.2*p.AspectRatio())
		}
		sort.SliceStable(panels, func(i, j int) bool {
			return key(panels[i]) > key(panels[j])
		})
	case "height":
		sort.SliceStable(panels, func(i, j int) bool {
			if panels[i].H != panels[j].H {
				return panels[i].H > panels[j].H
			}
			return panels[i].W > panels[j].W
		})
	default: // "area"
		sort.SliceStable(panels, func(i, j int) bool {
			return panels[i].W*panels[i].H > panels[j].W*panels[j].H
		})
	}
}
