package pptx

import (
	"fmt"
	"path"
	"strings"

	"github.com/joseph-ayodele/office-extract/internal/textnorm"
)

// ShapeKind tells which payload of a Shape is set.
type ShapeKind int

const (
	ShapeText ShapeKind = iota
	ShapeTable
	ShapePicture
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeText:
		return "text"
	case ShapeTable:
		return "table"
	case ShapePicture:
		return "picture"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Shape is one content-bearing element of a slide. Groups are flattened, so a
// slide's shapes are the leaves of its shape tree in document order.
type Shape struct {
	Kind ShapeKind
	Name string

	// ShapeText: non-empty paragraphs joined by "\n".
	Text        string
	Placeholder string

	// ShapeTable: cell text, row-major. Rows may differ in length when the source is malformed.
	Rows [][]string

	// ShapePicture: raw media bytes and the part they came from. Err is set
	// when the picture's media could not be resolved.
	Image     []byte
	ImageName string
	Err       error
}

// Slide is the parsed content of one slide.
type Slide struct {
	Number int
	Shapes []Shape
	Notes  string
	// NotesErr is set when the notes part exists but could not be read;
	// the rest of the slide is still returned.
	NotesErr error
}

// Text joins the text shapes with a blank line between them.
func (s *Slide) Text() string {
	var parts []string
	for _, sh := range s.Shapes {
		if sh.Kind == ShapeText && sh.Text != "" {
			parts = append(parts, sh.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Tables returns the table shapes in order.
func (s *Slide) Tables() []Shape { return s.filter(ShapeTable) }

// Pictures returns the picture shapes in order.
func (s *Slide) Pictures() []Shape { return s.filter(ShapePicture) }

func (s *Slide) filter(kind ShapeKind) []Shape {
	var out []Shape
	for _, sh := range s.Shapes {
		if sh.Kind == kind {
			out = append(out, sh)
		}
	}
	return out
}

// walkTree visits shape elements depth-first in document order, descending
// into groups and the first populated branch of mc:AlternateContent.
func walkTree(nodes []nodeXML, visit func(*nodeXML)) {
	for i := range nodes {
		n := &nodes[i]
		switch n.XMLName.Local {
		case "sp", "pic", "graphicFrame":
			visit(n)
		case "grpSp":
			walkTree(n.Children, visit)
		case "AlternateContent":
			for j := range n.Children {
				found := false
				walkTree(n.Children[j].Children, func(x *nodeXML) {
					found = true
					visit(x)
				})
				if found {
					break
				}
			}
		}
	}
}

// shape converts a leaf node; ok is false when it carries nothing to extract.
func (d *Deck) shape(n *nodeXML, part string, rels []relationshipXML) (Shape, bool) {
	var sh Shape
	if p := n.props(); p != nil {
		sh.Name = p.CNvPr.Name
		if p.NvPr.Ph != nil {
			sh.Placeholder = p.NvPr.Ph.Type
		}
	}

	switch n.XMLName.Local {
	case "sp":
		sh.Kind = ShapeText
		sh.Text = bodyText(n.TxBody)
		return sh, sh.Text != ""

	case "graphicFrame":
		if n.Graphic == nil || n.Graphic.GraphicData.Tbl == nil {
			return sh, false
		}
		sh.Kind = ShapeTable
		for _, tr := range n.Graphic.GraphicData.Tbl.Tr {
			row := make([]string, 0, len(tr.Tc))
			for _, tc := range tr.Tc {
				row = append(row, bodyText(tc.TxBody))
			}
			sh.Rows = append(sh.Rows, row)
		}
		return sh, len(sh.Rows) > 0

	case "pic":
		if n.BlipFill == nil || n.BlipFill.Blip == nil {
			return sh, false
		}
		sh.Kind = ShapePicture
		blip := n.BlipFill.Blip
		if blip.Embed == "" {
			if blip.Link != "" {
				sh.Err = fmt.Errorf("picture %q is linked, not embedded", sh.Name)
				return sh, true
			}
			return sh, false
		}
		target := ""
		for _, r := range rels {
			if r.ID == blip.Embed && r.TargetMode != "External" {
				target = resolve(part, r.Target)
				break
			}
		}
		if target == "" {
			sh.Err = fmt.Errorf("picture %q: relationship %s not found", sh.Name, blip.Embed)
			return sh, true
		}
		data, err := d.read(target)
		if err != nil {
			sh.Err = fmt.Errorf("picture %q: %w", sh.Name, err)
			return sh, true
		}
		sh.Image = data
		sh.ImageName = path.Base(target)
		return sh, true
	}
	return sh, false
}

// notes returns the text of the notes slide's body placeholder.
func (d *Deck) notes(part string) (string, error) {
	var nx slideXML
	if err := d.decode(part, &nx); err != nil {
		return "", err
	}
	var parts []string
	walkTree(nx.CSld.SpTree.Children, func(n *nodeXML) {
		if n.XMLName.Local != "sp" || n.NvSpPr == nil || n.NvSpPr.NvPr.Ph == nil {
			return
		}
		if n.NvSpPr.NvPr.Ph.Type != "body" {
			return
		}
		if t := bodyText(n.TxBody); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n"), nil
}

// bodyText joins the non-empty trimmed paragraphs of a text body.
func bodyText(tb *txBodyXML) string {
	if tb == nil {
		return ""
	}
	var lines []string
	for _, p := range tb.P {
		var b strings.Builder
		for _, it := range p.Items {
			switch it.XMLName.Local {
			case "r", "fld":
				b.WriteString(it.T)
			case "br":
				b.WriteString("\n")
			}
		}
		if t := strings.TrimSpace(textnorm.Normalize(b.String())); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}
