package canvas

// zoomSteps are the discrete zoom levels reachable with ZoomIn/ZoomOut.
// ZoomToFit and ZoomToFull set absolute scales outside this ladder.
var zoomSteps = []float64{0.05, 0.1, 0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 4.0}

// Viewport tracks zoom and pan over the background image. The overlay stage
// and the exposure mask stage each own one; they are never shared.
type Viewport struct {
	imageW, imageH int
	viewW, viewH   int
	scale          float64
	offsetX        float64
	offsetY        float64
}

// NewViewport creates a viewport for an image of the given size shown in a
// view of the given size. The initial zoom fits the image to the view.
func NewViewport(imageW, imageH, viewW, viewH int) *Viewport {
	vp := &Viewport{imageW: imageW, imageH: imageH, viewW: viewW, viewH: viewH}
	vp.ZoomToFit()
	return vp
}

// Scale returns the current zoom scale.
func (v *Viewport) Scale() float64 {
	return v.scale
}

// Offset returns the current pan offset.
func (v *Viewport) Offset() (x, y float64) {
	return v.offsetX, v.offsetY
}

// ZoomIn moves to the next discrete zoom step, bounded at the top.
func (v *Viewport) ZoomIn() {
	for _, s := range zoomSteps {
		if s > v.scale {
			v.scale = s
			return
		}
	}
}

// ZoomOut moves to the previous discrete zoom step, bounded at the bottom.
func (v *Viewport) ZoomOut() {
	for i := len(zoomSteps) - 1; i >= 0; i-- {
		if zoomSteps[i] < v.scale {
			v.scale = zoomSteps[i]
			return
		}
	}
}

// ZoomToFit scales the image so it is fully visible in the view and resets
// the pan.
func (v *Viewport) ZoomToFit() {
	if v.imageW == 0 || v.imageH == 0 {
		v.scale = 1
		return
	}
	sx := float64(v.viewW) / float64(v.imageW)
	sy := float64(v.viewH) / float64(v.imageH)
	if sx < sy {
		v.scale = sx
	} else {
		v.scale = sy
	}
	v.offsetX, v.offsetY = 0, 0
}

// ZoomToFull shows the image at its native resolution.
func (v *Viewport) ZoomToFull() {
	v.scale = 1
}

// Pan shifts the view by the given deltas in view coordinates.
func (v *Viewport) Pan(dx, dy float64) {
	v.offsetX += dx
	v.offsetY += dy
}
