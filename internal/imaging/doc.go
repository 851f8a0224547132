// Package imaging provides the raster primitives shared by the document and
// identity pipelines: grayscale conversion, smoothing filters, global and
// local binarization, and frame decoding helpers. Everything operates on the
// standard library image types; binary images are *image.Gray with pixel
// values of 0 or 255.
package imaging
