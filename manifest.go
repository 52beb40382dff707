package marionette

import (
	"errors"
	"fmt"
	"path"

	"github.com/tidwall/gjson"
)

// ManifestSuffix is the file suffix of model manifests.
const ManifestSuffix = ".model3.json"

// ErrInvalidManifest is returned for manifests that are not valid JSON or
// lack required fields.
var ErrInvalidManifest = errors.New("invalid model manifest")

// MotionRef is one clip entry of a motion group.
type MotionRef struct {
	File    string
	FadeIn  float64
	FadeOut float64
	// Duration is in seconds, filled from the motion file; negative means
	// unknown.
	Duration float64
	Loop     bool
}

// ExpressionRef names an expression file.
type ExpressionRef struct {
	Name string
	File string
}

// HitAreaRef maps a hit area name to the drawable ID it tests against.
type HitAreaRef struct {
	ID   string
	Name string
}

// ParameterGroup lists parameter IDs for a named behavior (EyeBlink,
// LipSync).
type ParameterGroup struct {
	Target string
	Name   string
	IDs    []string
}

// Manifest is the parsed content of a *.model3.json file.
type Manifest struct {
	// Dir is the resource directory the manifest was read from; file
	// references are relative to it.
	Dir string

	Version     int
	Moc         string
	Textures    []string
	Physics     string
	Pose        string
	UserData    string
	DisplayInfo string

	Expressions []ExpressionRef
	// MotionGroups keeps the group names in document order.
	MotionGroups []string
	Motions      map[string][]MotionRef
	HitAreas     []HitAreaRef
	Groups       []ParameterGroup
	Layout       map[string]float64
}

// ParseManifest parses model manifest JSON. dir is recorded for resolving
// file references.
func ParseManifest(dir string, data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidManifest)
	}
	root := gjson.ParseBytes(data)
	refs := root.Get("FileReferences")
	if !refs.IsObject() {
		return nil, fmt.Errorf("%w: missing FileReferences", ErrInvalidManifest)
	}

	m := &Manifest{
		Dir:         dir,
		Version:     int(root.Get("Version").Int()),
		Moc:         refs.Get("Moc").String(),
		Physics:     refs.Get("Physics").String(),
		Pose:        refs.Get("Pose").String(),
		UserData:    refs.Get("UserData").String(),
		DisplayInfo: refs.Get("DisplayInfo").String(),
		Motions:     make(map[string][]MotionRef),
		Layout:      make(map[string]float64),
	}
	if m.Moc == "" {
		return nil, fmt.Errorf("%w: missing FileReferences.Moc", ErrInvalidManifest)
	}

	for _, t := range refs.Get("Textures").Array() {
		m.Textures = append(m.Textures, t.String())
	}

	for _, e := range refs.Get("Expressions").Array() {
		m.Expressions = append(m.Expressions, ExpressionRef{
			Name: e.Get("Name").String(),
			File: e.Get("File").String(),
		})
	}

	refs.Get("Motions").ForEach(func(group, clips gjson.Result) bool {
		name := group.String()
		m.MotionGroups = append(m.MotionGroups, name)
		var list []MotionRef
		for _, c := range clips.Array() {
			ref := MotionRef{
				File:     c.Get("File").String(),
				FadeIn:   -1,
				FadeOut:  -1,
				Duration: -1,
			}
			if v := c.Get("FadeInTime"); v.Exists() {
				ref.FadeIn = v.Float()
			}
			if v := c.Get("FadeOutTime"); v.Exists() {
				ref.FadeOut = v.Float()
			}
			list = append(list, ref)
		}
		m.Motions[name] = list
		return true
	})

	for _, h := range root.Get("HitAreas").Array() {
		m.HitAreas = append(m.HitAreas, HitAreaRef{
			ID:   h.Get("Id").String(),
			Name: h.Get("Name").String(),
		})
	}

	for _, g := range root.Get("Groups").Array() {
		pg := ParameterGroup{
			Target: g.Get("Target").String(),
			Name:   g.Get("Name").String(),
		}
		for _, id := range g.Get("Ids").Array() {
			pg.IDs = append(pg.IDs, id.String())
		}
		m.Groups = append(m.Groups, pg)
	}

	root.Get("Layout").ForEach(func(k, v gjson.Result) bool {
		m.Layout[k.String()] = v.Float()
		return true
	})

	return m, nil
}

// Resolve joins a manifest-relative file reference with the manifest dir.
func (m *Manifest) Resolve(ref string) string {
	return path.Join(m.Dir, ref)
}

// MotionCount returns the number of clips in group.
func (m *Manifest) MotionCount(group string) int {
	return len(m.Motions[group])
}

// HitArea returns the hit area with the given name.
func (m *Manifest) HitArea(name string) (HitAreaRef, bool) {
	for _, h := range m.HitAreas {
		if h.Name == name {
			return h, true
		}
	}
	return HitAreaRef{}, false
}

// ParameterGroup returns the group with the given name (EyeBlink, LipSync).
func (m *Manifest) ParameterGroup(name string) (ParameterGroup, bool) {
	for _, g := range m.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return ParameterGroup{}, false
}

// motionMeta reads the timing header of a *.motion3.json file.
func motionMeta(data []byte) (duration float64, loop bool, err error) {
	if !gjson.ValidBytes(data) {
		return 0, false, errors.New("malformed motion JSON")
	}
	meta := gjson.GetBytes(data, "Meta")
	if !meta.Exists() {
		return 0, false, errors.New("motion has no Meta block")
	}
	return meta.Get("Duration").Float(), meta.Get("Loop").Bool(), nil
}

// validateExpression checks that an *.exp3.json file is well formed.
func validateExpression(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("malformed expression JSON")
	}
	if !gjson.GetBytes(data, "Type").Exists() && !gjson.GetBytes(data, "Parameters").Exists() {
		return errors.New("expression has neither Type nor Parameters")
	}
	return nil
}
