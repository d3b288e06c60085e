package philips

import (
	"encoding/xml"
	"os"
	"strings"

	"parbids/internal/logging"
	"parbids/internal/parrec"
)

// xmlNode is a generic element used to walk arbitrary Philips export trees.
type xmlNode struct {
	XMLName xml.Name
	Name    string    `xml:"Name,attr"`
	Content string    `xml:",chardata"`
	Nodes   []xmlNode `xml:",any"`
}

// readXML flattens the extended-metadata tree into dotted-path keys. Each
// <Attribute Name="X"> element becomes <ancestors>.X with its text content;
// when an element repeats (one Image_Info per image), the first occurrence
// is kept as the representative value.
func (r *Reader) readXML(path string) parrec.Attributes {
	attrs := make(parrec.Attributes)
	if !r.sourceExists(path) {
		return attrs
	}

	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("extended metadata unreadable", logging.String("path", path), logging.Error(err))
		return attrs
	}

	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		r.logger.Warn("extended metadata not valid XML", logging.String("path", path), logging.Error(err))
		return attrs
	}

	for _, child := range root.Nodes {
		flattenNode(child, nil, attrs)
	}
	return attrs
}

func flattenNode(node xmlNode, path []string, attrs parrec.Attributes) {
	if node.XMLName.Local == "Attribute" {
		name := strings.TrimSpace(node.Name)
		value := strings.TrimSpace(node.Content)
		if name == "" || value == "" {
			return
		}
		key := strings.Join(append(path, name), ".")
		if !attrs.Has(key) {
			attrs[key] = value
		}
		return
	}

	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = node.XMLName.Local
	for _, child := range node.Nodes {
		flattenNode(child, next, attrs)
	}
}
