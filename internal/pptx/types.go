package pptx

import "encoding/xml"

// Relationship types we follow.
const (
	relTypeSlide      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeNotesSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	relTypeImage      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// presentationXML is ppt/presentation.xml; only the slide list matters here.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIDList *slideIDListXML `xml:"sldIdLst"`
}

type slideIDListXML struct {
	SlideID []slideIDXML `xml:"sldId"`
}

type slideIDXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// relationshipsXML is any *.rels part.
type relationshipsXML struct {
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// slideXML covers both slides (p:sld) and notes slides (p:notes).
type slideXML struct {
	CSld cSldXML `xml:"cSld"`
}

type cSldXML struct {
	SpTree nodeXML `xml:"spTree"`
}

// nodeXML is one element of the shape tree. Unknown children are kept in
// document order through the ",any" field, which is what lets groups and
// mc:AlternateContent be walked in the order PowerPoint stores them.
type nodeXML struct {
	XMLName  xml.Name
	NvSpPr   *nvSpPrXML   `xml:"nvSpPr"`
	NvPicPr  *nvSpPrXML   `xml:"nvPicPr"`
	NvGfPr   *nvSpPrXML   `xml:"nvGraphicFramePr"`
	TxBody   *txBodyXML   `xml:"txBody"`
	BlipFill *blipFillXML `xml:"blipFill"`
	Graphic  *graphicXML  `xml:"graphic"`
	Children []nodeXML    `xml:",any"`
}

func (n *nodeXML) props() *nvSpPrXML {
	switch {
	case n.NvSpPr != nil:
		return n.NvSpPr
	case n.NvPicPr != nil:
		return n.NvPicPr
	default:
		return n.NvGfPr
	}
}

type nvSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
	NvPr  nvPrXML  `xml:"nvPr"`
}

type cNvPrXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type nvPrXML struct {
	Ph *phXML `xml:"ph"`
}

type phXML struct {
	Type string `xml:"type,attr"` // title, body, subTitle, ctrTitle, sldNum...
	Idx  int    `xml:"idx,attr"`
}

type txBodyXML struct {
	P []pXML `xml:"p"`
}

// pXML keeps runs, fields and breaks in order.
type pXML struct {
	Items []textItemXML `xml:",any"`
}

type textItemXML struct {
	XMLName xml.Name
	T       string `xml:"t"`
}

type blipFillXML struct {
	Blip *blipXML `xml:"blip"`
}

type blipXML struct {
	Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
	Link  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships link,attr"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	URI string  `xml:"uri,attr"`
	Tbl *tblXML `xml:"tbl"`
}

type tblXML struct {
	Tr []trXML `xml:"tr"`
}

type trXML struct {
	Tc []tcXML `xml:"tc"`
}

type tcXML struct {
	TxBody *txBodyXML `xml:"txBody"`
}
