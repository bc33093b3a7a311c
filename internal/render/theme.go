package render

import "hotpath/internal/calltree"

// Theme holds colors for tree rendering.
type Theme struct {
	Background string
	NodeFill   string
	NodeBorder string
	TextColor  string

	// Node accents by classification.
	Retpoline      string // guarded dispatch thunks
	Indirect       string // decoded indirect calls
	ImportTable    string // import address table cells
	Stopped        string // stop-symbol matches
	Missing        string // no body in the capture
	AtEnd          string // depth bound reached
	RootFill       string
	EdgeColor      string
	LeafEdgeColor  string
	UnreliableText string
}

// NASA is the NASA/Bauhaus theme: geometric, monochrome, sparse color.
var NASA = Theme{
	Background: "#F5F5F5",
	NodeFill:   "white",
	NodeBorder: "#1A1A1A",
	TextColor:  "#1A1A1A",

	Retpoline:   "#E65100", // deep orange
	Indirect:    "#00695C", // teal
	ImportTable: "#0B3D91", // NASA blue
	Stopped:     "#757575",
	Missing:     "#FC3D21", // NASA red
	AtEnd:       "#9E9E9E",
	RootFill:    "#ECEFF1", // blue-gray 50

	EdgeColor:      "#424242",
	LeafEdgeColor:  "#9E9E9E",
	UnreliableText: "#FC3D21",
}

// classColor returns the accent for a classification, or "" for plain
// expanded dependencies.
func classColor(c calltree.Class, t Theme) string {
	switch c {
	case calltree.Retpoline:
		return t.Retpoline
	case calltree.Indirect:
		return t.Indirect
	case calltree.ImportAddressTable:
		return t.ImportTable
	case calltree.StopDisassembly:
		return t.Stopped
	case calltree.BodyNotFound:
		return t.Missing
	case calltree.AtEnd:
		return t.AtEnd
	default:
		return ""
	}
}
