package xmldoc

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// NamedText is a <param> or <typeparam> entry.
type NamedText struct {
	Name string
	Text string
}

// RefText is an <exception>, <permission> or <seealso> entry.
type RefText struct {
	Cref string
	Text string
}

// ThreadSafety mirrors <threadSafety static="..." instance="..."/>.
type ThreadSafety struct {
	Static   bool
	Instance bool
}

// MemberDoc is the typed content of one member entry. Inline markup is
// flattened to text; <see cref> and <paramref name> render as their target.
type MemberDoc struct {
	CodeRef      string
	Summary      string
	Remarks      string
	Returns      string
	Value        string
	Example      string
	Params       []NamedText
	TypeParams   []NamedText
	Exceptions   []RefText
	Permissions  []RefText
	SeeAlso      []RefText
	ThreadSafety *ThreadSafety

	refs []string
}

func ParseMember(elem *etree.Element) *MemberDoc {
	d := &MemberDoc{CodeRef: elem.SelectAttrValue("name", "")}
	for _, c := range elem.ChildElements() {
		text := innerText(c)
		switch c.Tag {
		case "summary":
			d.Summary = text
		case "remarks":
			d.Remarks = text
		case "returns":
			d.Returns = text
		case "value":
			d.Value = text
		case "example":
			d.Example = text
		case "param":
			d.Params = append(d.Params, NamedText{Name: c.SelectAttrValue("name", ""), Text: text})
		case "typeparam":
			d.TypeParams = append(d.TypeParams, NamedText{Name: c.SelectAttrValue("name", ""), Text: text})
		case "exception":
			d.Exceptions = append(d.Exceptions, RefText{Cref: c.SelectAttrValue("cref", ""), Text: text})
		case "permission":
			d.Permissions = append(d.Permissions, RefText{Cref: c.SelectAttrValue("cref", ""), Text: text})
		case "seealso":
			d.SeeAlso = append(d.SeeAlso, RefText{Cref: c.SelectAttrValue("cref", ""), Text: text})
		case "threadSafety", "threadsafety":
			d.ThreadSafety = &ThreadSafety{
				Static:   boolAttr(c, "static"),
				Instance: boolAttr(c, "instance"),
			}
		}
	}
	collectCrefs(elem, &d.refs)
	return d
}

// References lists every cref in the entry, in document order, without
// duplicates.
func (d *MemberDoc) References() []string {
	return d.refs
}

// XMLString serialises elem without modifying it.
func XMLString(elem *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(elem.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to write xml: %w", err)
	}
	return s, nil
}

func innerText(e *etree.Element) string {
	var sb strings.Builder
	writeText(&sb, e)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func writeText(sb *strings.Builder, e *etree.Element) {
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			switch {
			case t.Tag == "see" && len(t.ChildElements()) == 0 && strings.TrimSpace(t.Text()) == "":
				sb.WriteString(crefLabel(t.SelectAttrValue("cref", t.SelectAttrValue("langword", ""))))
			case t.Tag == "paramref" || t.Tag == "typeparamref":
				sb.WriteString(t.SelectAttrValue("name", ""))
			default:
				writeText(sb, t)
			}
		}
	}
}

// crefLabel drops the kind prefix and parameter list of a code reference.
func crefLabel(cref string) string {
	if i := strings.IndexByte(cref, ':'); i == 1 {
		cref = cref[2:]
	}
	if i := strings.IndexByte(cref, '('); i >= 0 {
		cref = cref[:i]
	}
	return cref
}

func collectCrefs(e *etree.Element, into *[]string) {
	for _, c := range e.ChildElements() {
		if cref := c.SelectAttrValue("cref", ""); cref != "" && !slices.Contains(*into, cref) {
			*into = append(*into, cref)
		}
		collectCrefs(c, into)
	}
}

func boolAttr(e *etree.Element, key string) bool {
	v, err := strconv.ParseBool(e.SelectAttrValue(key, "false"))
	return err == nil && v
}
