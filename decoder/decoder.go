package decoder

import (
	"github.com/etekin/blade/internal/matrix"
)

// Decoder reads one candidate segment against one bound symbology.
type Decoder struct {
	opts Options
	sym  Symbology
}

// New constructs a Decoder bound to sym, validating opts.
func New(sym Symbology, opts Options) (*Decoder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{opts: opts, sym: sym}, nil
}

// Symbology returns the decoder's bound symbology, used by the engine
// façade to report the name on success and to key registration.
func (d *Decoder) Symbology() Symbology { return d.sym }

// Read runs the full pipeline: resolution gate, slice extraction, edge
// extraction, fixed-edge localization, per-symbol digit energies in
// both sweep directions, and the symbology's joint decode. On Success
// it returns the populated Result.
func (d *Decoder) Read(img *matrix.Matrix[uint8], c Candidate) (Outcome, Result) {
	if !resolutionGate(c.First, c.Last, img.Width(), img.Height()) {
		return CannotDecode, Result{}
	}

	symbologyWidth := d.sym.TotalWidth()
	slice := extractSlice(img, c.First, c.Last, symbologyWidth, d.opts)
	if slice == nil {
		return CannotDecode, Result{}
	}

	edges := extractEdges(slice, d.opts)
	fixed := d.sym.FixedEdges()
	chosen, ok := localizeFixedEdges(edges, fixed, d.opts)
	if !ok {
		return Failed, Result{}
	}

	boundaries := boundariesFromFixedEdges(d.sym, chosen)
	nDigits := d.sym.NDigits()

	for _, dir := range [2]Direction{Forward, Backward} {
		energy := digitEnergies(slice, boundaries, d.sym, nDigits, dir)
		estimate := d.sym.Estimate(energy)
		if estimate != "" {
			return Success, Result{Estimate: estimate, Symbology: d.sym.Name()}
		}
	}
	return Failed, Result{}
}
