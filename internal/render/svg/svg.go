// Package svg is a small SVG document model marshalled with encoding/xml.
// Elements carry the ids and data attributes the host page needs to wire
// hover handlers and to apply route line diffs.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
)

const namespace = "http://www.w3.org/2000/svg"

// Num is a coordinate written with at most two decimals.
type Num float64

// MarshalXMLAttr implements xml.MarshalerAttr.
func (n Num) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	return xml.Attr{Name: name, Value: FormatNum(float64(n))}, nil
}

// FormatNum renders v the way it is written into path data and attributes.
func FormatNum(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Translate builds a transform attribute value.
func Translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", FormatNum(x), FormatNum(y))
}

// Document is the root <svg> element. It carries no id: the host page owns
// the mount element it is inserted into.
type Document struct {
	XMLName  xml.Name `xml:"svg"`
	Xmlns    string   `xml:"xmlns,attr"`
	Width    Num      `xml:"width,attr"`
	Height   Num      `xml:"height,attr"`
	Children []any
}

// NewDocument creates an empty document of the given pixel size.
func NewDocument(width, height float64) *Document {
	return &Document{Xmlns: namespace, Width: Num(width), Height: Num(height)}
}

// Add appends child elements.
func (d *Document) Add(children ...any) {
	d.Children = append(d.Children, children...)
}

// Bytes marshals the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode svg: %w", err)
	}
	return buf.Bytes(), nil
}

// Group is a <g> element.
type Group struct {
	XMLName    xml.Name `xml:"g"`
	ID         string   `xml:"id,attr,omitempty"`
	Class      string   `xml:"class,attr,omitempty"`
	Transform  string   `xml:"transform,attr,omitempty"`
	Fill       string   `xml:"fill,attr,omitempty"`
	FontSize   string   `xml:"font-size,attr,omitempty"`
	FontFamily string   `xml:"font-family,attr,omitempty"`
	TextAnchor string   `xml:"text-anchor,attr,omitempty"`
	Children   []any
}

// Add appends child elements.
func (g *Group) Add(children ...any) {
	g.Children = append(g.Children, children...)
}

// Rect is a <rect> element. Bars carry the airline they represent.
type Rect struct {
	XMLName     xml.Name `xml:"rect"`
	ID          string   `xml:"id,attr,omitempty"`
	Class       string   `xml:"class,attr,omitempty"`
	X           Num      `xml:"x,attr"`
	Y           Num      `xml:"y,attr"`
	Width       Num      `xml:"width,attr"`
	Height      Num      `xml:"height,attr"`
	Fill        string   `xml:"fill,attr,omitempty"`
	AirlineID   string   `xml:"data-airline-id,attr,omitempty"`
	AirlineName string   `xml:"data-airline-name,attr,omitempty"`
	Title       *Title
}

// Circle is a <circle> element.
type Circle struct {
	XMLName   xml.Name `xml:"circle"`
	Class     string   `xml:"class,attr,omitempty"`
	CX        Num      `xml:"cx,attr"`
	CY        Num      `xml:"cy,attr"`
	R         Num      `xml:"r,attr"`
	Fill      string   `xml:"fill,attr,omitempty"`
	AirportID string   `xml:"data-airport-id,attr,omitempty"`
	Title     *Title
}

// Line is a <line> element. Route lines carry their route id.
type Line struct {
	XMLName xml.Name `xml:"line"`
	ID      string   `xml:"id,attr,omitempty"`
	X1      Num      `xml:"x1,attr"`
	Y1      Num      `xml:"y1,attr"`
	X2      Num      `xml:"x2,attr"`
	Y2      Num      `xml:"y2,attr"`
	Stroke  string   `xml:"stroke,attr,omitempty"`
	Opacity string   `xml:"opacity,attr,omitempty"`
	RouteID string   `xml:"data-route-id,attr,omitempty"`
}

// Path is a <path> element.
type Path struct {
	XMLName xml.Name `xml:"path"`
	ID      string   `xml:"id,attr,omitempty"`
	Class   string   `xml:"class,attr,omitempty"`
	D       string   `xml:"d,attr"`
	Fill    string   `xml:"fill,attr,omitempty"`
	Stroke  string   `xml:"stroke,attr,omitempty"`
	Title   *Title
}

// Text is a <text> element.
type Text struct {
	XMLName xml.Name `xml:"text"`
	X       *Num     `xml:"x,attr,omitempty"`
	Y       *Num     `xml:"y,attr,omitempty"`
	DY      string   `xml:"dy,attr,omitempty"`
	Fill    string   `xml:"fill,attr,omitempty"`
	Content string   `xml:",chardata"`
}

// Title is a tooltip child element.
type Title struct {
	XMLName xml.Name `xml:"title"`
	Content string   `xml:",chardata"`
}

// NumPtr is a helper for optional numeric attributes.
func NumPtr(v float64) *Num {
	n := Num(v)
	return &n
}
