// Package docscan locates an identity document inside a camera frame and
// produces a rectified, top-down view of it.
//
// The pipeline: intensity conversion, Gaussian smoothing, adaptive
// binarization, external contour tracing, largest-contour selection with an
// area gate, polygon approximation to a quadrilateral, canonical corner
// ordering, and a four-point perspective warp. A frame with no acceptable
// quadrilateral is a normal miss, not an error; most frames of a live video
// session contain no document.
package docscan
