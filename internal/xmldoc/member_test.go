package xmldoc

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseElement(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	return doc.Root()
}

func TestParseMember(t *testing.T) {
	elem := parseElement(t, `
<member name="M:Sample.SampleExtensions.Describe(Sample.SampleType)">
  <summary>
    Describes <paramref name="obj"/> using
    <see cref="T:Sample.SampleType"/>.
  </summary>
  <param name="obj">The value to describe.</param>
  <typeparam name="T">Unused.</typeparam>
  <returns>A <see langword="null"/>-free string.</returns>
  <exception cref="T:System.ArgumentNullException"><paramref name="obj"/> is null.</exception>
  <seealso cref="M:Sample.Shape.Area"/>
  <seealso cref="T:Sample.SampleType"/>
  <threadSafety static="true" instance="true"/>
</member>`)

	doc := ParseMember(elem)
	assert.Equal(t, "M:Sample.SampleExtensions.Describe(Sample.SampleType)", doc.CodeRef)
	assert.Equal(t, "Describes obj using Sample.SampleType.", doc.Summary)
	assert.Equal(t, "A null-free string.", doc.Returns)
	assert.Equal(t, []NamedText{{Name: "obj", Text: "The value to describe."}}, doc.Params)
	assert.Equal(t, []NamedText{{Name: "T", Text: "Unused."}}, doc.TypeParams)
	assert.Equal(t, []RefText{{Cref: "T:System.ArgumentNullException", Text: "obj is null."}}, doc.Exceptions)
	assert.Len(t, doc.SeeAlso, 2)
	assert.Empty(t, doc.Remarks)
	require.NotNil(t, doc.ThreadSafety)
	assert.Equal(t, ThreadSafety{Static: true, Instance: true}, *doc.ThreadSafety)

	assert.Equal(t, []string{
		"T:Sample.SampleType",
		"T:System.ArgumentNullException",
		"M:Sample.Shape.Area",
	}, doc.References())
}

func TestParseMember_Empty(t *testing.T) {
	doc := ParseMember(parseElement(t, `<member name="T:A"/>`))
	assert.Equal(t, "T:A", doc.CodeRef)
	assert.Nil(t, doc.ThreadSafety)
	assert.Empty(t, doc.References())
}

func TestCrefLabel(t *testing.T) {
	assert.Equal(t, "Sample.Shape.Area", crefLabel("M:Sample.Shape.Area(System.Int32)"))
	assert.Equal(t, "Sample.Shape", crefLabel("T:Sample.Shape"))
	assert.Equal(t, "null", crefLabel("null"))
}

func TestXMLString(t *testing.T) {
	elem := parseElement(t, `<member name="T:A"><summary>Doc</summary></member>`)
	s, err := XMLString(elem)
	require.NoError(t, err)
	assert.Contains(t, s, `<member name="T:A">`)
	assert.Contains(t, s, `<summary>Doc</summary>`)
	assert.NotNil(t, elem.Parent(), "source element keeps its document")
}
