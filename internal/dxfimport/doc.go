// Package dxfimport turns an annotated DXF drawing into structural model
// operations.
//
// LINE entities become members. TEXT entities carry commands such as
//
//	add_element(EA=5000, EI=1e4)
//	add_support_fixed()
//	point_load(Fy=-10)
//
// Each line is paired with the nearest element command by perpendicular
// distance, and each node with the nearest point command by Euclidean
// distance. A command only applies when the distance is below twice its text
// height. Commands are parsed into a name and keyword arguments and applied
// through a fixed table of model operations; annotation text is never
// evaluated.
//
// Elements are always added before supports and loads, so every node exists
// by the time a point command refers to it.
package dxfimport
