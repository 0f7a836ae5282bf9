// Package symbology describes barcode symbol structures — the edges,
// bars, and symbols that make up a symbology's layout — and the
// concrete UPC-A symbology built from them.
package symbology

// EdgeID, BarID, and SymbolID index the three parallel arenas a Catalog
// holds, replacing the pointer-chained Symbol->Bar->Edge graph of the
// original design with small integer cross-references that stay valid
// as the arenas grow.
type EdgeID int
type BarID int
type SymbolID int

// Edge is a boundary between a light and a dark run. Location is
// expressed in module units; -1 means "data-dependent", i.e. its pixel
// location is only known after decoding, not from the symbology layout
// alone. Polarity alternates with Index by construction: a symbology is
// built by always appending edges in left-to-right order.
type Edge struct {
	Index    int
	Location int
}

// Fixed reports whether this edge's module-space location is known a
// priori from the symbology layout.
func (e Edge) Fixed() bool { return e.Location >= 0 }

// Polarity is -1 for an even-indexed edge (light to dark, falling
// intensity) and +1 for odd (dark to light, rising intensity) — the same
// signs the decoder's edge detector gives such transitions.
func (e Edge) Polarity() int {
	if e.Index%2 == 0 {
		return -1
	}
	return 1
}

// Bar is the span between two edges. It is dark iff its left edge is a
// falling (-1 polarity) transition — the barcode's very first bar starts
// at the Index-0 anchor edge, so it is always dark.
type Bar struct {
	LeftEdge, RightEdge EdgeID
	Index               int
}

// Symbol is a width-`Width` span made of one or more bars. DataIndex is
// -1 for a structural (guard) symbol, and the payload position
// otherwise.
type Symbol struct {
	Width     int
	DataIndex int
	Bars      []BarID
}

// Catalog is the read-only-after-construction edge/bar/symbol arena a
// concrete symbology is built from via AddSymbol, plus the derived
// indices (fixed edges, data symbols) the decoder needs.
type Catalog struct {
	edges   []Edge
	bars    []Bar
	symbols []Symbol

	lastEdge     EdgeID
	lastLocation int
	nextData     int
}

// NewCatalog starts a catalog with a single fixed edge at module
// location 0 — the left boundary every symbology's first bar attaches
// to.
func NewCatalog() *Catalog {
	c := &Catalog{}
	c.edges = append(c.edges, Edge{Index: 0, Location: 0})
	c.lastEdge = 0
	return c
}

func (c *Catalog) addEdge(location int) EdgeID {
	id := EdgeID(len(c.edges))
	c.edges = append(c.edges, Edge{Index: len(c.edges), Location: location})
	return id
}

// AddSymbol appends a width-module symbol made of nBars bars to the
// catalog. If pattern is nil, the symbol is a data symbol: the first
// nBars-1 bars get an unknown (-1) right-edge location, and the last
// bar's right edge is fixed at the previous fixed location plus width —
// the symbol's end is always a fixed edge, even for payload symbols.
// If pattern is supplied (length nBars, module counts per bar), every
// bar's right edge is fixed at a cumulative offset from the last known
// edge, as for a guard pattern.
func (c *Catalog) AddSymbol(width, nBars int, pattern []int) SymbolID {
	sym := Symbol{Width: width, DataIndex: -1, Bars: make([]BarID, nBars)}
	if pattern == nil {
		sym.DataIndex = c.nextData
		c.nextData++
	}

	for i := 0; i < nBars; i++ {
		left := c.lastEdge
		var right EdgeID
		switch {
		case pattern != nil:
			c.lastLocation += pattern[i]
			right = c.addEdge(c.lastLocation)
		case i == nBars-1:
			c.lastLocation += width
			right = c.addEdge(c.lastLocation)
		default:
			right = c.addEdge(-1)
		}
		bar := Bar{LeftEdge: left, RightEdge: right, Index: len(c.bars)}
		c.bars = append(c.bars, bar)
		sym.Bars[i] = BarID(len(c.bars) - 1)
		c.lastEdge = right
	}

	c.symbols = append(c.symbols, sym)
	return SymbolID(len(c.symbols) - 1)
}

// NEdges returns the total number of edges, including the initial
// location-0 anchor.
func (c *Catalog) NEdges() int { return len(c.edges) }

// NSymbols returns the total number of symbols (guards plus data).
func (c *Catalog) NSymbols() int { return len(c.symbols) }

// TotalWidth is the module width of the whole symbology: the location
// of the last edge.
func (c *Catalog) TotalWidth() int {
	return c.edges[len(c.edges)-1].Location
}

// FixedEdges returns every edge with a known module location, in
// ascending index order.
func (c *Catalog) FixedEdges() []Edge {
	out := make([]Edge, 0, len(c.edges))
	for _, e := range c.edges {
		if e.Fixed() {
			out = append(out, e)
		}
	}
	return out
}

// DataSymbols returns every payload-carrying symbol, in ascending
// DataIndex order (construction order already guarantees this).
func (c *Catalog) DataSymbols() []Symbol {
	out := make([]Symbol, 0, c.nextData)
	for _, s := range c.symbols {
		if s.DataIndex >= 0 {
			out = append(out, s)
		}
	}
	return out
}

// Edge returns the edge at the given EdgeID.
func (c *Catalog) Edge(id EdgeID) Edge { return c.edges[id] }

// Bar returns the bar at the given BarID.
func (c *Catalog) Bar(id BarID) Bar { return c.bars[id] }

// FirstBarDark reports whether data symbol dataIdx's first bar (in
// catalog left-to-right construction order) is dark. The barcode's
// very first bar (the left guard's leading bar, at the Index-0 anchor
// edge) is always dark, and polarity alternates by construction with
// every subsequent edge, so dark corresponds to a negative-polarity
// left edge throughout. This is the sign the matched filter's
// dotProduct starts from for that symbol, independent of sweep
// direction.
func (c *Catalog) FirstBarDark(dataIdx int) bool {
	sym := c.DataSymbols()[dataIdx]
	firstBar := c.bars[sym.Bars[0]]
	return c.edges[firstBar.LeftEdge].Polarity() < 0
}

// BracketingFixedEdges returns the indices, into FixedEdges(), of the
// fixed edges immediately to the left and right of data symbol index
// dataIdx (0-based over DataSymbols()). For UPC-A's layout every data
// symbol is bracketed by exactly the two fixed edges adjoining it: its
// own trailing edge and the nearest fixed edge to its left.
func (c *Catalog) BracketingFixedEdges(dataIdx int) (left, right int) {
	fixed := c.FixedEdges()
	sym := c.DataSymbols()[dataIdx]
	lastBar := c.bars[sym.Bars[len(sym.Bars)-1]]
	rightEdge := c.edges[lastBar.RightEdge]
	for i, fe := range fixed {
		if fe.Index == rightEdge.Index {
			return i - 1, i
		}
	}
	panic("symbology: data symbol's trailing edge is not fixed")
}
