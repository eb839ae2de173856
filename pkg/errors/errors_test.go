package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesChain(t *testing.T) {
	cause := fmt.Errorf("row not found")
	err := Wrap(CodeNotFound, cause, "product lookup")

	require.NotNil(t, err)
	assert.Equal(t, CodeNotFound, err.Code())
	assert.Equal(t, "product lookup", err.Message())
	assert.ErrorIs(t, err, cause)
}

func TestAsUnwrapsNestedTypedError(t *testing.T) {
	inner := New(CodeValidation, "quantity must be positive")
	outer := fmt.Errorf("decode cart payload: %w", inner)

	typed := As(outer)
	require.NotNil(t, typed)
	assert.Equal(t, CodeValidation, typed.Code())
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	assert.Equal(t, MetadataFor(CodeInternal), meta)
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeDependency, fmt.Errorf("dial tcp: refused"), "fetch remote cart")
	dump := Dump(err)

	assert.Equal(t, CodeDependency, dump.Code)
	assert.Len(t, dump.Chain, 2)
	assert.Contains(t, dump.TopMessage, "fetch remote cart")
}
