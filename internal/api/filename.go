package api

import "fmt"

// frameFilename names a served frame after its depth window, following the
// depth_{min}_{max}.png convention.
func frameFilename(depthMin, depthMax float64) string {
	return fmt.Sprintf("depth_%g_%g.png", depthMin, depthMax)
}
