package declarations

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a model has no declaration with the requested name.
var ErrNotFound = errors.New("declaration not found")

// ModelExtensions are the suffixes of declaration model files.
var ModelExtensions = []string{".vbm.yaml", ".vbm.yml", ".vbm.json"}

// IsModelFile reports whether path names a declaration model file.
func IsModelFile(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range ModelExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Model holds the resolved declarations of a single module. Lookups are
// case-insensitive, as identifiers are in the language.
type Model struct {
	Module  string
	Types   []*Declaration
	Members []*ModuleBodyElementDeclaration
	Fields  []*Declaration

	types   map[string]*Declaration
	members map[string][]*ModuleBodyElementDeclaration
	fields  map[string]*Declaration // keyed by lowercased QualifiedName

	// typeMembers indexes UDT members by their unqualified name.
	typeMembers map[string][]*Declaration
}

// Type returns the enumeration or UDT declared under name.
func (m *Model) Type(name string) (*Declaration, error) {
	if d, ok := m.types[strings.ToLower(name)]; ok {
		return d, nil
	}
	return nil, errors.Wrapf(ErrNotFound, "type %q in %s", name, m.Module)
}

// Field returns the module variable or UDT member declared under name. UDT
// members are named Type.Member; a bare member name is accepted when no
// module variable and no other type's member share it.
func (m *Model) Field(name string) (*Declaration, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if d, ok := m.fields[key]; ok {
		return d, nil
	}
	switch candidates := m.typeMembers[key]; len(candidates) {
	case 0:
	case 1:
		return candidates[0], nil
	default:
		qualified := make([]string, len(candidates))
		for i, c := range candidates {
			qualified[i] = c.QualifiedName()
		}
		return nil, errors.WithHint(
			errors.Newf("field %q is ambiguous in %s", name, m.Module),
			"qualify it as one of: "+strings.Join(qualified, ", "))
	}
	return nil, errors.Wrapf(ErrNotFound, "field %q in %s", name, m.Module)
}

// MembersNamed returns every member declared under name, in file order. A
// property may have a Get, a Let and a Set sharing one name.
func (m *Model) MembersNamed(name string) []*ModuleBodyElementDeclaration {
	return m.members[strings.ToLower(name)]
}

// Member returns the member declared under name. When several accessors
// share the name, kind selects one; AnyKind takes the first.
func (m *Model) Member(name string, kind DeclarationType) (*ModuleBodyElementDeclaration, error) {
	for _, member := range m.MembersNamed(name) {
		if kind == AnyKind || member.Type == kind {
			return member, nil
		}
	}
	if kind == AnyKind {
		return nil, errors.Wrapf(ErrNotFound, "member %q in %s", name, m.Module)
	}
	return nil, errors.Wrapf(ErrNotFound, "%s %q in %s", kind, name, m.Module)
}

type modelFile struct {
	Module  string       `yaml:"module"`
	Types   []typeSpec   `yaml:"types"`
	Members []memberSpec `yaml:"members"`
	Fields  []fieldSpec  `yaml:"fields"`
}

type typeSpec struct {
	Name          string      `yaml:"name"`
	Kind          string      `yaml:"kind"`
	Accessibility string      `yaml:"accessibility"`
	Line          int         `yaml:"line"`
	Members       []fieldSpec `yaml:"members"`
}

type memberSpec struct {
	Name          string          `yaml:"name"`
	Kind          string          `yaml:"kind"`
	Accessibility string          `yaml:"accessibility"`
	Type          string          `yaml:"type"`
	Array         bool            `yaml:"array"`
	Line          int             `yaml:"line"`
	Column        int             `yaml:"column"`
	Parameters    []parameterSpec `yaml:"parameters"`
}

type parameterSpec struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Mechanism  string `yaml:"mechanism"`
	Optional   bool   `yaml:"optional"`
	ParamArray bool   `yaml:"paramarray"`
	Default    string `yaml:"default"`
	Array      bool   `yaml:"array"`
	Line       int    `yaml:"line"`
	Column     int    `yaml:"column"`
}

type fieldSpec struct {
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	Accessibility string `yaml:"accessibility"`
	Array         bool   `yaml:"array"`
	Subscripts    string `yaml:"subscripts"`
	Line          int    `yaml:"line"`
	Column        int    `yaml:"column"`
}

// LoadFile reads and resolves the model file at path.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open model file")
	}
	defer f.Close()

	model, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return model, nil
}

// Load decodes a YAML or JSON declaration model and resolves the As-type
// back-references of every declaration against the enumerations and UDTs the
// model declares.
func Load(r io.Reader) (*Model, error) {
	var file modelFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty model")
		}
		return nil, errors.Wrap(err, "failed to decode model")
	}

	m := &Model{
		Module:  file.Module,
		types:       make(map[string]*Declaration),
		members:     make(map[string][]*ModuleBodyElementDeclaration),
		fields:      make(map[string]*Declaration),
		typeMembers: make(map[string][]*Declaration),
	}
	if m.Module == "" {
		m.Module = "Module1"
	}

	for _, spec := range file.Types {
		d, err := spec.declaration()
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(d.Name)
		if _, dup := m.types[key]; dup {
			return nil, errors.Newf("type %q declared twice", d.Name)
		}
		m.types[key] = d
		m.Types = append(m.Types, d)
	}

	// Type members may refer to types declared after their owner, so they
	// are added once every type is known.
	for i, spec := range file.Types {
		owner := m.Types[i]
		if len(spec.Members) > 0 && owner.Type != UserDefinedType {
			return nil, errors.Newf("%s %q cannot have members", owner.Type, owner.Name)
		}
		for _, ms := range spec.Members {
			d, err := ms.declaration(owner)
			if err != nil {
				return nil, err
			}
			if err := m.addField(d); err != nil {
				return nil, err
			}
			key := strings.ToLower(d.Name)
			m.typeMembers[key] = append(m.typeMembers[key], d)
		}
	}

	for _, spec := range file.Fields {
		d, err := spec.declaration(nil)
		if err != nil {
			return nil, err
		}
		if err := m.addField(d); err != nil {
			return nil, err
		}
	}

	for _, spec := range file.Members {
		member, err := spec.declaration()
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(member.Name)
		for _, other := range m.members[key] {
			if other.Type == member.Type {
				return nil, errors.Newf("%s %q declared twice", member.Type, member.Name)
			}
		}
		m.resolve(&member.Declaration)
		for _, p := range member.Parameters {
			m.resolve(&p.Declaration)
		}
		m.members[key] = append(m.members[key], member)
		m.Members = append(m.Members, member)
	}

	return m, nil
}

func (m *Model) addField(d *Declaration) error {
	key := strings.ToLower(d.QualifiedName())
	if _, dup := m.fields[key]; dup {
		return errors.Newf("field %q declared twice", d.QualifiedName())
	}
	m.resolve(d)
	m.fields[key] = d
	m.Fields = append(m.Fields, d)
	return nil
}

func (m *Model) resolve(d *Declaration) {
	if d.AsTypeName == "" {
		return
	}
	if t, ok := m.types[strings.ToLower(d.AsTypeName)]; ok {
		d.AsTypeDeclaration = t
	}
}

// selection converts the 1-based line/column of a model file to a Range.
func selection(line, column int) Range {
	pos := Position{Line: max(line-1, 0), Character: max(column-1, 0)}
	return Range{Start: pos, End: pos}
}

func (s typeSpec) declaration() (*Declaration, error) {
	if s.Name == "" {
		return nil, errors.New("type without a name")
	}
	kind, err := ParseDeclarationType(s.Kind)
	if err != nil {
		return nil, errors.Wrapf(err, "type %q", s.Name)
	}
	if kind != Enumeration && kind != UserDefinedType {
		return nil, errors.Wrapf(ErrUnknownKind, "type %q must be enum or type, got %s", s.Name, kind)
	}
	acc, err := ParseAccessibility(s.Accessibility)
	if err != nil {
		return nil, errors.Wrapf(err, "type %q", s.Name)
	}
	return &Declaration{
		Name:          s.Name,
		Accessibility: acc,
		Type:          kind,
		Selection:     selection(s.Line, 0),
	}, nil
}

// declaration builds a module variable, or a member of owner when owner is
// not nil.
func (s fieldSpec) declaration(owner *Declaration) (*Declaration, error) {
	if s.Name == "" {
		if owner != nil {
			return nil, errors.Newf("type %q has a member without a name", owner.Name)
		}
		return nil, errors.New("field without a name")
	}
	acc, err := ParseAccessibility(s.Accessibility)
	if err != nil {
		return nil, errors.Wrapf(err, "field %q", s.Name)
	}
	kind := Variable
	if owner != nil {
		kind = UserDefinedTypeMember
	}
	return &Declaration{
		Name:            s.Name,
		Accessibility:   acc,
		Type:            kind,
		AsTypeName:      s.Type,
		IsArray:         s.Array || s.Subscripts != "",
		ArraySubscripts: s.Subscripts,
		Parent:          owner,
		Selection:       selection(s.Line, s.Column),
	}, nil
}

func (s memberSpec) declaration() (*ModuleBodyElementDeclaration, error) {
	if s.Name == "" {
		return nil, errors.New("member without a name")
	}
	kind, err := ParseDeclarationType(s.Kind)
	if err != nil {
		return nil, errors.Wrapf(err, "member %q", s.Name)
	}
	if !kind.IsMember() {
		return nil, errors.Wrapf(ErrUnknownKind, "member %q cannot be a %s", s.Name, kind)
	}
	acc, err := ParseAccessibility(s.Accessibility)
	if err != nil {
		return nil, errors.Wrapf(err, "member %q", s.Name)
	}

	member := &ModuleBodyElementDeclaration{
		Declaration: Declaration{
			Name:          s.Name,
			Accessibility: acc,
			Type:          kind,
			AsTypeName:    s.Type,
			IsArray:       s.Array,
			Selection:     selection(s.Line, s.Column),
		},
	}
	for _, ps := range s.Parameters {
		if ps.Name == "" {
			return nil, errors.Newf("member %q has a parameter without a name", s.Name)
		}
		mech, err := ParseMechanism(ps.Mechanism)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %q of %q", ps.Name, s.Name)
		}
		member.Parameters = append(member.Parameters, &ParameterDeclaration{
			Declaration: Declaration{
				Name:       ps.Name,
				Type:       Parameter,
				AsTypeName: ps.Type,
				IsArray:    ps.Array,
				Selection:  selection(ps.Line, ps.Column),
			},
			Mechanism:    mech,
			IsOptional:   ps.Optional,
			IsParamArray: ps.ParamArray,
			DefaultValue: ps.Default,
		})
	}
	return member, nil
}
