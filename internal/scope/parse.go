package scope

// Request parameter names understood by Parse.
const (
	ParamCycleID      = "cycle_id"
	ParamProgramID    = "program_id"
	ParamCourseID     = "course_id"
	ParamSyllabusID   = "syllabus_id"
	ParamFacultyKey   = "faculty_key"
	ParamAppendix     = "appendix"
	ParamSectionTitle = "section_title"
)

// Parse builds the typed scope of ns from named parameters. lookup returns ""
// for absent parameters; missing required fields surface from Key.
func Parse(ns Namespace, lookup func(name string) string) (Scope, error) {
	switch ns {
	case NamespaceSyllabus:
		return SyllabusScope{
			Cycle:    lookup(ParamCycleID),
			Program:  lookup(ParamProgramID),
			Course:   lookup(ParamCourseID),
			Syllabus: lookup(ParamSyllabusID),
		}, nil
	case NamespaceFaculty:
		return FacultyScope{Cycle: lookup(ParamCycleID), Faculty: lookup(ParamFacultyKey)}, nil
	case NamespaceSection:
		return SectionScope{Cycle: lookup(ParamCycleID), Appendix: lookup(ParamAppendix), Title: lookup(ParamSectionTitle)}, nil
	case NamespaceLibrary:
		return LibraryScope{Cycle: lookup(ParamCycleID), Program: lookup(ParamProgramID)}, nil
	}
	_, err := ParseNamespace(string(ns))
	return nil, err
}
