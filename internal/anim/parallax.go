package anim

// DefaultParallaxSpeed applies to backdrop layers that do not set their own
// speed factor.
const DefaultParallaxSpeed = 0.5

// ParallaxShift returns how many rows a backdrop layer has scrolled when the
// page content has scrolled by scroll rows. A speed below 1 makes the layer
// trail the content, which reads as depth; zero speed uses the default.
func ParallaxShift(scroll int, speed float64) int {
	if speed == 0 {
		speed = DefaultParallaxSpeed
	}
	if scroll < 0 {
		scroll = 0
	}
	return int(float64(scroll) * speed)
}
