package blade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyImage(t *testing.T) {
	_, err := New(NewImage(0, 0), DefaultOptions(), nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestNewAcceptsDefaultOptions(t *testing.T) {
	e, err := New(NewImage(100, 100), DefaultOptions(), nil)
	require.NoError(t, err)
	require.NotNil(t, e)
}

func TestAddPredefinedRegistersUpcA(t *testing.T) {
	e, err := New(NewImage(100, 100), DefaultOptions(), nil)
	require.NoError(t, err)
	require.NoError(t, e.AddPredefined(UpcA))
	assert.Len(t, e.decoders, 1)
	assert.Equal(t, "UPC-A", e.decoders[0].Symbology().Name())
}

func TestAddPredefinedTwiceFailsWithAlreadyRegistered(t *testing.T) {
	e, err := New(NewImage(100, 100), DefaultOptions(), nil)
	require.NoError(t, err)
	require.NoError(t, e.AddPredefined(UpcA))
	assert.ErrorIs(t, e.AddPredefined(UpcA), ErrAlreadyRegistered)
}

func TestAddPredefinedRejectsUnknownValue(t *testing.T) {
	e, err := New(NewImage(100, 100), DefaultOptions(), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, e.AddPredefined(Predefined(99)), ErrInvalidOption)
}

func TestLocateOnBlankImageFindsNothing(t *testing.T) {
	e, err := New(NewImage(200, 200), DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Empty(t, e.Locate())
}

func TestDecodeReturnsFalseWhenNoSymbologyRegistered(t *testing.T) {
	e, err := New(NewImage(400, 400), DefaultOptions(), nil)
	require.NoError(t, err)
	bc := Barcode{FirstEdge: Point{X: 50, Y: 200}, LastEdge: Point{X: 350, Y: 200}}
	assert.False(t, e.Decode(&bc))
	assert.Empty(t, bc.Estimate)
}

func TestDecodeRejectsCandidateTooSmallForImage(t *testing.T) {
	e, err := New(NewImage(400, 400), DefaultOptions(), nil)
	require.NoError(t, err)
	require.NoError(t, e.AddPredefined(UpcA))
	bc := Barcode{FirstEdge: Point{X: 200, Y: 200}, LastEdge: Point{X: 205, Y: 200}}
	assert.False(t, e.Decode(&bc))
}
