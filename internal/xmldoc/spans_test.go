package xmldoc

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberSpans(t *testing.T) {
	f, err := os.Open("testdata/Sample.Library.xml")
	require.NoError(t, err)
	defer f.Close()

	spans, err := MemberSpans(f)
	require.NoError(t, err)
	require.Len(t, spans, 7)

	assert.Equal(t, Span{CodeRef: "T:Sample.Shape", Start: 7, End: 9}, spans[0])
	assert.Equal(t, Span{CodeRef: "M:Sample.Shape.Area", Start: 10, End: 13}, spans[1])
	assert.True(t, spans[1].Contains(11))
	assert.False(t, spans[1].Contains(14))
	assert.Equal(t, "M:Sample.SampleExtensions.Describe(Sample.SampleType)", spans[6].CodeRef)
}
