// Package skyraster turns lists of nested HEALPix pixel addresses into fixed
// display grids under a chosen sky projection. A Rasterizer precomputes which
// address lies under every display cell, so any number of value arrays over the
// same addresses can then be rasterized by a plain copy. Graticule lines, label
// anchors and cursor picking share the rasterizer's plane and sky scaling.
package skyraster
