package scope

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"scopedocs/internal/docerr"
)

// Namespace partitions the single physical store into the logical document
// collections used across the application.
type Namespace string

const (
	NamespaceSyllabus Namespace = "syllabus"
	NamespaceFaculty  Namespace = "faculty"
	NamespaceSection  Namespace = "section"
	NamespaceLibrary  Namespace = "library"
)

// Namespaces lists every known namespace.
var Namespaces = []Namespace{NamespaceSyllabus, NamespaceFaculty, NamespaceSection, NamespaceLibrary}

// ParseNamespace validates a namespace name.
func ParseNamespace(s string) (Namespace, error) {
	ns := Namespace(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Namespaces, ns) {
		return "", docerr.Validation(fmt.Sprintf("unknown namespace %q", s))
	}
	return ns, nil
}

// Key is the canonical, namespace-qualified scope tuple. Two keys are the same
// scope exactly when their encodings are equal.
type Key struct {
	Namespace Namespace
	Fields    []string
}

// Encode returns the canonical index value, a JSON array of the namespace
// followed by every field.
func (k Key) Encode() string {
	parts := make([]string, 0, len(k.Fields)+1)
	parts = append(parts, string(k.Namespace))
	parts = append(parts, k.Fields...)
	b, _ := json.Marshal(parts)
	return string(b)
}

func (k Key) String() string { return k.Encode() }

// Equal reports whether both keys address the same scope.
func (k Key) Equal(o Key) bool {
	return k.Namespace == o.Namespace && slices.Equal(k.Fields, o.Fields)
}

// DecodeKey parses a value produced by Key.Encode.
func DecodeKey(s string) (Key, error) {
	var parts []string
	if err := json.Unmarshal([]byte(s), &parts); err != nil {
		return Key{}, fmt.Errorf("decode scope key: %w", err)
	}
	if len(parts) < 1 {
		return Key{}, fmt.Errorf("decode scope key: empty key")
	}
	return Key{Namespace: Namespace(parts[0]), Fields: parts[1:]}, nil
}

// Scope is implemented by every typed scope variant.
type Scope interface {
	Key() (Key, error)
}

// Session is the per-user context every catalog and bridge call receives.
type Session struct {
	CycleID   string
	ProgramID string
}

// NewSession builds a session from loosely typed identifiers.
func NewSession(cycleID, programID any) Session {
	f := fields(cycleID, programID)
	return Session{CycleID: f[0], ProgramID: f[1]}
}

// Library returns the evidence-library scope of the session.
func (s Session) Library() LibraryScope {
	return LibraryScope{Cycle: s.CycleID, Program: s.ProgramID}
}

// SyllabusScope files documents under one course syllabus.
type SyllabusScope struct {
	Cycle, Program, Course, Syllabus string
}

func NewSyllabusScope(cycle, program, course, syllabus any) SyllabusScope {
	f := fields(cycle, program, course, syllabus)
	return SyllabusScope{Cycle: f[0], Program: f[1], Course: f[2], Syllabus: f[3]}
}

func (s SyllabusScope) Key() (Key, error) {
	return build(NamespaceSyllabus,
		named{"cycle_id", s.Cycle}, named{"program_id", s.Program},
		named{"course_id", s.Course}, named{"syllabus_id", s.Syllabus})
}

// FacultyScope files CVs for one faculty member.
type FacultyScope struct {
	Cycle, Faculty string
}

func NewFacultyScope(cycle, faculty any) FacultyScope {
	f := fields(cycle, faculty)
	return FacultyScope{Cycle: f[0], Faculty: f[1]}
}

func (s FacultyScope) Key() (Key, error) {
	return build(NamespaceFaculty, named{"cycle_id", s.Cycle}, named{"faculty_key", s.Faculty})
}

// SectionScope files documents under a report section. When Appendix is set
// the stored field is "<Appendix>:<Title>", so the same title under two
// appendices stays apart.
type SectionScope struct {
	Cycle, Appendix, Title string
}

func NewSectionScope(cycle any, appendix, title string) SectionScope {
	return SectionScope{Cycle: fields(cycle)[0], Appendix: appendix, Title: title}
}

func (s SectionScope) Key() (Key, error) {
	title := s.Title
	if s.Appendix != "" && title != "" {
		title = s.Appendix + ":" + title
	}
	return build(NamespaceSection, named{"cycle_id", s.Cycle}, named{"section_title", title})
}

// LibraryScope is the shared evidence library of a cycle and program.
type LibraryScope struct {
	Cycle, Program string
}

func NewLibraryScope(cycle, program any) LibraryScope {
	f := fields(cycle, program)
	return LibraryScope{Cycle: f[0], Program: f[1]}
}

func (s LibraryScope) Key() (Key, error) {
	return build(NamespaceLibrary, named{"cycle_id", s.Cycle}, named{"program_id", s.Program})
}

type named struct {
	name  string
	value string
}

func build(ns Namespace, fields ...named) (Key, error) {
	out := make([]string, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return Key{}, docerr.Validation(fmt.Sprintf("%s scope requires %s", ns, f.name))
		}
		// The JSON key would replace invalid bytes with U+FFFD and merge scopes.
		if !utf8.ValidString(f.value) {
			return Key{}, docerr.Validation(fmt.Sprintf("%s scope %s is not valid UTF-8", ns, f.name))
		}
		out[i] = f.value
	}
	return Key{Namespace: ns, Fields: out}, nil
}

// fields runs vs through Encode, except that missing values stay empty so
// typed scopes reject them instead of filing documents under a literal "null".
func fields(vs ...any) []string {
	out := Encode(vs...)
	for i, v := range vs {
		if missing(v) {
			out[i] = ""
		}
	}
	return out
}

func missing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *string:
		return x == nil
	}
	return false
}
