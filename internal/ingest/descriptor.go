package ingest

import (
	"encoding/xml"
	"errors"
)

// ErrMalformedDescriptor is returned when the descriptor XML cannot be
// parsed or is missing a required field. It always fires before any
// artifact write.
var ErrMalformedDescriptor = errors.New("malformed song descriptor")

// Descriptor is the parsed form of the XML document accompanying an
// upload. Title, artist and the jacket credit are required; the three
// difficulty elements are each optional.
type Descriptor struct {
	XMLName xml.Name        `xml:"song"`
	Title   string          `xml:"title"`
	Artist  string          `xml:"artist"`
	Easy    *DifficultyElem `xml:"easy"`
	Normal  *DifficultyElem `xml:"normal"`
	Hard    *DifficultyElem `xml:"hard"`
	Jacket  *JacketElem     `xml:"jacket"`
}

type DifficultyElem struct {
	Difficulty string `xml:"difficulty,attr"`
	Charter    string `xml:"charter,attr"`
}

type JacketElem struct {
	Artist string `xml:"artist,attr"`
}

// ParseDescriptor decodes and validates descriptor bytes.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := xml.Unmarshal(data, &d); err != nil {
		return nil, ErrMalformedDescriptor
	}
	if d.Title == "" || d.Artist == "" || d.Jacket == nil {
		return nil, ErrMalformedDescriptor
	}
	return &d, nil
}
