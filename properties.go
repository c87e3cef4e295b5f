package lazyjumper

import (
	"fmt"
	"sort"
	"strconv"
)

const (
	// Property types
	// see doc.mapeditor.org/en/stable/reference/tmx-map-format/#properties
	PropString = "string"
	PropInt    = "int"
	PropFloat  = "float"
	PropBool   = "bool"
	PropColor  = "color"
	PropFile   = "file"
)

// Properties is a more straight forward []*Property (used by the raw XML
// and JSON) that handles types a bit more gracefully.
type Properties struct {
	ints    map[string]int
	floats  map[string]float64
	strings map[string]string
	bools   map[string]bool
}

// NewProperties returns an empty properties
func NewProperties() *Properties {
	return &Properties{
		ints:    map[string]int{},
		floats:  map[string]float64{},
		strings: map[string]string{},
		bools:   map[string]bool{},
	}
}

// newPropertiesFromList turns the raw []Property into our nicer properties
// wrapper struct.
// Colors, files & object refs are kept as strings.
func newPropertiesFromList(in []*Property) *Properties {
	ps := NewProperties()

	for _, i := range in {
		switch i.Type {
		case PropInt:
			v, _ := strconv.ParseInt(i.Value, 10, 64)
			ps.SetInt(i.Name, int(v))
		case PropFloat:
			v, _ := strconv.ParseFloat(i.Value, 64)
			ps.SetFloat(i.Name, v)
		case PropBool:
			ps.SetBool(i.Name, i.Value == "true")
		default:
			ps.SetString(i.Name, i.Value)
		}
	}

	return ps
}

// Keys returns every set key, sorted
func (p *Properties) Keys() []string {
	keys := []string{}
	for k := range p.ints {
		keys = append(keys, k)
	}
	for k := range p.floats {
		keys = append(keys, k)
	}
	for k := range p.strings {
		keys = append(keys, k)
	}
	for k := range p.bools {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of set keys
func (p *Properties) Len() int {
	return len(p.ints) + len(p.floats) + len(p.strings) + len(p.bools)
}

func (p *Properties) String(key string) (string, bool) {
	v, ok := p.strings[key]
	return v, ok
}

func (p *Properties) SetString(key, value string) {
	p.clear(key)
	p.strings[key] = value
}

func (p *Properties) Int(key string) (int, bool) {
	v, ok := p.ints[key]
	return v, ok
}

func (p *Properties) SetInt(key string, value int) {
	p.clear(key)
	p.ints[key] = value
}

func (p *Properties) Float(key string) (float64, bool) {
	v, ok := p.floats[key]
	return v, ok
}

func (p *Properties) SetFloat(key string, value float64) {
	p.clear(key)
	p.floats[key] = value
}

func (p *Properties) Bool(key string) (bool, bool) {
	v, ok := p.bools[key]
	return v, ok
}

func (p *Properties) SetBool(key string, value bool) {
	p.clear(key)
	p.bools[key] = value
}

// clear removes key from every type so a key only ever has one type
func (p *Properties) clear(key string) {
	delete(p.ints, key)
	delete(p.floats, key)
	delete(p.strings, key)
	delete(p.bools, key)
}

// Format renders the value of key whatever its type ("" if unset)
func (p *Properties) Format(key string) string {
	if v, ok := p.ints[key]; ok {
		return strconv.Itoa(v)
	}
	if v, ok := p.floats[key]; ok {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if v, ok := p.bools[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return p.strings[key]
}
