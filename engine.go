package blade

import (
	"fmt"
	"log/slog"

	"github.com/etekin/blade/decoder"
	"github.com/etekin/blade/locator"
	"github.com/etekin/blade/symbology"
)

// Predefined names a symbology the engine knows how to construct
// without the caller building it by hand.
type Predefined int

const UpcA Predefined = iota

// Engine composes a Locator with a registry of Decoders, one per
// registered symbology, and drives both against a caller-owned image.
// It is not safe for concurrent use on the same instance; separate
// Engines are independent.
type Engine struct {
	image      *Image
	loc        *locator.Locator
	decoderOpt decoder.Options
	decoders   []*decoder.Decoder
	byName     map[string]struct{}
	log        *slog.Logger
}

// Options configures an Engine's Locator.
type Options struct {
	Scale         int
	NOrientations int
}

// DefaultOptions returns nOrientations=18, scale=0, matching the
// reference tuning.
func DefaultOptions() Options {
	return Options{Scale: 0, NOrientations: 18}
}

// New constructs an Engine bound to image, with the given locator
// tuning. The logger defaults to slog.Default() if l is nil.
func New(image *Image, opts Options, l *slog.Logger) (*Engine, error) {
	if image.Width() == 0 || image.Height() == 0 {
		return nil, ErrEmptyImage
	}
	if l == nil {
		l = slog.Default()
	}

	locOpts := locator.DefaultOptions()
	locOpts.Scale = opts.Scale
	locOpts.NOrientations = opts.NOrientations
	loc, err := locator.New(locOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}

	return &Engine{
		image:      image,
		loc:        loc,
		decoderOpt: decoder.DefaultOptions(),
		byName:     make(map[string]struct{}),
		log:        l,
	}, nil
}

// AddSymbology registers sym's decoder, keyed by sym.Name(). It fails
// with ErrAlreadyRegistered if a symbology of that name already exists.
func (e *Engine) AddSymbology(sym decoder.Symbology) error {
	if _, exists := e.byName[sym.Name()]; exists {
		return ErrAlreadyRegistered
	}
	d, err := decoder.New(sym, e.decoderOpt)
	if err != nil {
		return err
	}
	e.decoders = append(e.decoders, d)
	e.byName[sym.Name()] = struct{}{}
	return nil
}

// AddPredefined registers one of the engine's built-in symbologies.
func (e *Engine) AddPredefined(p Predefined) error {
	switch p {
	case UpcA:
		return e.AddSymbology(symbology.NewUPCA(symbology.DefaultOptions()))
	default:
		return ErrInvalidOption
	}
}

// Locate runs the locator over the engine's bound image and returns the
// current candidate list, in decreasing edge-count order; candidates
// with equal counts are ordered top to bottom, then left to right.
// Estimate and Symbology are unset on every returned Barcode.
func (e *Engine) Locate() []Barcode {
	candidates := e.loc.Locate(e.image)
	out := make([]Barcode, len(candidates))
	for i, c := range candidates {
		out[i] = Barcode{
			FirstEdge:   c.FirstEdge,
			LastEdge:    c.LastEdge,
			Orientation: c.Angle,
			Scale:       c.Scale,
		}
	}
	return out
}

// Decode iterates registered decoders in registration order, returning
// on the first success. CannotDecode and Failed outcomes are logged and
// the loop continues to the next decoder; a candidate rejected by every
// decoder is left unmodified and Decode returns false.
func (e *Engine) Decode(bc *Barcode) bool {
	cand := decoder.Candidate{First: bc.FirstEdge, Last: bc.LastEdge}
	for _, d := range e.decoders {
		outcome, result := d.Read(e.image, cand)
		switch outcome {
		case decoder.Success:
			bc.Estimate = result.Estimate
			bc.Symbology = result.Symbology
			return true
		case decoder.CannotDecode:
			e.log.Debug("candidate rejected by resolution gate", "symbology", d.Symbology().Name())
		case decoder.Failed:
			e.log.Debug("candidate decode failed", "symbology", d.Symbology().Name())
		}
	}
	return false
}
